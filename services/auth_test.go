package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HospitalCare/cache"
	"HospitalCare/models"
	"HospitalCare/role"
	"HospitalCare/util"
)

const goodPassword = "Secret#42"

func TestValidatePasswordRules(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"Ab1!", util.PASSWORD_TOO_SHORT},
		{"secret#42", util.PASSWORD_NEEDS_UPPER},
		{"Secret#xy", util.PASSWORD_NEEDS_NUMBER},
		{"Secret42x", util.PASSWORD_NEEDS_SPECIAL},
		{goodPassword, ""},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePasswordRules(tt.password)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, util.AsAppError(err).Message)
		})
	}
}

func TestRegisterPatientAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{Name: " Nora ", Email: "Nora@Hospital.test", Password: goodPassword, BloodGroup: "O+"})
	require.NoError(t, err)
	assert.Equal(t, role.Patient, res.User.Role)
	assert.Equal(t, "nora@hospital.test", res.User.Email)
	assert.Equal(t, "Nora", res.User.Name)
	assert.Equal(t, "token-"+res.User.ID.Hex(), res.Token)
	assert.NotEqual(t, goodPassword, res.User.PasswordHash)
	assert.Equal(t, []string{"welcome"}, f.dispatcher.sent())

	p, err := f.auth.Resolve(ctx, res.User.ID)
	require.NoError(t, err)
	require.NotNil(t, p.PatientID)
	assert.Nil(t, p.DoctorID)

	me, err := f.auth.Me(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, me.Patient)
	assert.Equal(t, "O+", me.Patient.BloodGroup)

	login, err := f.auth.Login(ctx, LoginInput{Email: "NORA@hospital.test", Password: goodPassword, Role: "Patient"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.LastLogin)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "Copy", Email: "nora@hospital.test", Password: goodPassword})
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindDuplicateKey))
	assert.Equal(t, 400, util.StatusCode(util.KindDuplicateKey))
}

func TestRegisterRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	five := 5

	tests := []struct {
		name string
		in   RegisterInput
		kind util.ErrorKind
		msg  string
	}{
		{
			name: "admin is blocked",
			in:   RegisterInput{Name: "x", Email: "x@h.test", Password: goodPassword, Role: "Admin"},
			kind: util.KindForbidden,
			msg:  util.ADMIN_REGISTRATION_BLOCKED,
		},
		{
			name: "unknown role",
			in:   RegisterInput{Name: "x", Email: "x@h.test", Password: goodPassword, Role: "janitor"},
			kind: util.KindValidation,
			msg:  util.INVALID_ROLE,
		},
		{
			name: "weak password",
			in:   RegisterInput{Name: "x", Email: "x@h.test", Password: "password"},
			kind: util.KindValidation,
			msg:  util.PASSWORD_NEEDS_UPPER,
		},
		{
			name: "doctor without license",
			in:   RegisterInput{Name: "x", Email: "x@h.test", Password: goodPassword, Role: "doctor", Specialization: "ENT", ExperienceYears: &five, Department: "ENT"},
			kind: util.KindValidation,
			msg:  util.DOCTOR_FIELDS_REQUIRED,
		},
		{
			name: "bad blood group",
			in:   RegisterInput{Name: "x", Email: "x@h.test", Password: goodPassword, BloodGroup: "C+"},
			kind: util.KindValidation,
			msg:  util.INVALID_BLOOD_GROUP,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, util.IsKind(err, tt.kind))
			assert.Equal(t, tt.msg, util.AsAppError(err).Message)
		})
	}
	assert.Empty(t, f.dispatcher.sent())
}

func TestRegisterDoctor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	years := 12
	in := RegisterInput{
		Name: "Doogie", Email: "doogie@hospital.test", Password: goodPassword, Role: "doctor",
		Specialization: "Pediatrics", LicenseNumber: "MD-1", ExperienceYears: &years, Department: "Pediatrics",
		Qualifications: []string{"MD", " "},
	}
	res, err := f.auth.Register(ctx, in)
	require.NoError(t, err)

	p, err := f.auth.Resolve(ctx, res.User.ID)
	require.NoError(t, err)
	require.NotNil(t, p.DoctorID)
	d, err := f.db.Doctors.FindByID(ctx, *p.DoctorID)
	require.NoError(t, err)
	assert.Equal(t, []string{"MD"}, d.Qualifications)
	assert.Equal(t, 12, d.ExperienceYears)

	in.Email = "other@hospital.test"
	_, err = f.auth.Register(ctx, in)
	require.Error(t, err)
	assert.Equal(t, util.LICENSE_ALREADY_REGISTERED, util.AsAppError(err).Message)
}

func TestLoginFailuresAndLockout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, RegisterInput{Name: "Olga", Email: "olga@hospital.test", Password: goodPassword})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, LoginInput{Email: "olga@hospital.test", Password: goodPassword, Role: "doctor"})
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindUnauthorized))
	assert.Equal(t, "This account is not registered as a doctor", util.AsAppError(err).Message)

	_, err = f.auth.Login(ctx, LoginInput{Email: "ghost@hospital.test", Password: goodPassword})
	assert.True(t, util.IsKind(err, util.KindUnauthorized))

	for i := 0; i < 3; i++ {
		_, err = f.auth.Login(ctx, LoginInput{Email: "olga@hospital.test", Password: "Wrong#1pass"})
		require.Error(t, err)
		assert.Equal(t, util.INVALID_CREDENTIALS, util.AsAppError(err).Message)
	}
	assert.True(t, f.kv.has(cache.LoginFailKey+"olga@hospital.test"))

	_, err = f.auth.Login(ctx, LoginInput{Email: "olga@hospital.test", Password: goodPassword})
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindTooManyRequests))
	assert.Equal(t, 3, f.recorder.failures["password"])
	assert.Equal(t, 1, f.recorder.failures["locked"])
	assert.Equal(t, 1, f.recorder.failures["role_mismatch"])
}

func TestSuccessfulLoginClearsFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, RegisterInput{Name: "Pia", Email: "pia@hospital.test", Password: goodPassword})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, LoginInput{Email: "pia@hospital.test", Password: "Nope#123"})
	require.Error(t, err)
	_, err = f.auth.Login(ctx, LoginInput{Email: "pia@hospital.test", Password: goodPassword})
	require.NoError(t, err)
	assert.False(t, f.kv.has(cache.LoginFailKey+"pia@hospital.test"))
}

func TestSuspendedUserCannotLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.auth.Register(ctx, RegisterInput{Name: "Quentin", Email: "q@hospital.test", Password: goodPassword})
	require.NoError(t, err)

	u, err := f.db.Users.FindByID(ctx, res.User.ID)
	require.NoError(t, err)
	u.SetStatus(models.UserSuspended)
	require.NoError(t, f.db.Users.Update(ctx, u))

	_, err = f.auth.Login(ctx, LoginInput{Email: "q@hospital.test", Password: goodPassword})
	require.Error(t, err)
	assert.Equal(t, util.ACCOUNT_DEACTIVATED, util.AsAppError(err).Message)

	_, err = f.auth.Resolve(ctx, u.ID)
	assert.True(t, util.IsKind(err, util.KindUnauthorized))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.auth.Register(ctx, RegisterInput{Name: "Rita", Email: "rita@hospital.test", Password: goodPassword})
	require.NoError(t, err)
	p, err := f.auth.Resolve(ctx, res.User.ID)
	require.NoError(t, err)

	err = f.auth.ChangePassword(ctx, p, ChangePasswordInput{CurrentPassword: "Other#99", NewPassword: "Fresh#2024"})
	require.Error(t, err)
	assert.Equal(t, util.CURRENT_PASSWORD_INCORRECT, util.AsAppError(err).Message)

	err = f.auth.ChangePassword(ctx, p, ChangePasswordInput{CurrentPassword: goodPassword, NewPassword: "short"})
	require.Error(t, err)
	assert.Equal(t, util.PASSWORD_TOO_SHORT, util.AsAppError(err).Message)

	require.NoError(t, f.auth.ChangePassword(ctx, p, ChangePasswordInput{CurrentPassword: goodPassword, NewPassword: "Fresh#2024"}))

	_, err = f.auth.Login(ctx, LoginInput{Email: "rita@hospital.test", Password: goodPassword})
	assert.Error(t, err)
	_, err = f.auth.Login(ctx, LoginInput{Email: "rita@hospital.test", Password: "Fresh#2024"})
	assert.NoError(t, err)
}

func TestBootstrapAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, created, err := f.auth.BootstrapAdmin(ctx, BootstrapAdminInput{Name: "Root", Email: "root@hospital.test", Password: "weak"})
	require.Error(t, err)
	assert.False(t, created)

	u, created, err := f.auth.BootstrapAdmin(ctx, BootstrapAdminInput{Name: "Root", Email: "root@hospital.test", Password: goodPassword})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, role.Admin, u.Role)

	again, created, err := f.auth.BootstrapAdmin(ctx, BootstrapAdminInput{Name: "Two", Email: "two@hospital.test", Password: goodPassword})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, again)

	login, err := f.auth.Login(ctx, LoginInput{Email: "root@hospital.test", Password: goodPassword, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, role.Admin, login.User.Role)
}
