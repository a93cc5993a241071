package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HospitalCare/models"
	"HospitalCare/role"
	"HospitalCare/util"
)

func amoxicillin() []models.Medication {
	return []models.Medication{{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"}}
}

func rxStatus(s models.PrescriptionStatus) *models.PrescriptionStatus {
	return &s
}

func TestPrescriptionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.doctor(t, "strange", "Neurology")
	pat := f.patient(t, "erin")
	admin := f.staff(t, "root", role.Admin)
	visit := f.book(t, pat, doc, "2024-06-03", "11:00")

	rx, err := f.prescriptions.Create(ctx, doc, CreatePrescriptionInput{
		PatientID:     pat.PatientID.Hex(),
		AppointmentID: visit.ID.Hex(),
		Medications:   amoxicillin(),
		Diagnosis:     " sinusitis ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PrescriptionPending, rx.Status)
	assert.Equal(t, "sinusitis", rx.Diagnosis)
	assert.Equal(t, *doc.DoctorID, rx.DoctorID)
	require.NotNil(t, rx.AppointmentID)

	got, err := f.prescriptions.Get(ctx, pat, rx.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, rx.ID, got.ID)

	_, err = f.prescriptions.Update(ctx, doc, rx.ID.Hex(), UpdatePrescriptionInput{Status: rxStatus(models.PrescriptionDispensed)})
	require.NoError(t, err)

	_, err = f.prescriptions.Update(ctx, doc, rx.ID.Hex(), UpdatePrescriptionInput{Notes: strPtr("take with food")})
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindValidation))
	assert.Equal(t, util.PRESCRIPTION_LOCKED_UPDATE, util.AsAppError(err).Message)

	err = f.prescriptions.Delete(ctx, admin, rx.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, util.PRESCRIPTION_LOCKED_DELETE, util.AsAppError(err).Message)

	err = f.prescriptions.Delete(ctx, doc, rx.ID.Hex())
	assert.True(t, util.IsKind(err, util.KindForbidden))
}

func TestPrescriptionCreateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.doctor(t, "quinn", "General")
	other := f.doctor(t, "ross", "General")
	pat := f.patient(t, "frank")
	nurse := f.staff(t, "joy", role.Nurse)
	visit := f.book(t, pat, other, "2024-06-04", "10:00")

	tests := []struct {
		name   string
		caller string
		in     CreatePrescriptionInput
		kind   util.ErrorKind
		msg    string
	}{
		{
			name:   "nurse cannot prescribe",
			caller: "nurse",
			in:     CreatePrescriptionInput{PatientID: pat.PatientID.Hex(), Medications: amoxicillin(), Diagnosis: "flu"},
			kind:   util.KindForbidden,
			msg:    util.ROLE_NOT_PERMITTED,
		},
		{
			name:   "medication needs a frequency",
			caller: "doctor",
			in:     CreatePrescriptionInput{PatientID: pat.PatientID.Hex(), Medications: []models.Medication{{Name: "Ibuprofen", Dosage: "200mg"}}, Diagnosis: "flu"},
			kind:   util.KindValidation,
			msg:    util.MEDICATIONS_REQUIRED,
		},
		{
			name:   "diagnosis required",
			caller: "doctor",
			in:     CreatePrescriptionInput{PatientID: pat.PatientID.Hex(), Medications: amoxicillin(), Diagnosis: "  "},
			kind:   util.KindValidation,
			msg:    util.DIAGNOSIS_REQUIRED,
		},
		{
			name:   "appointment of another doctor",
			caller: "doctor",
			in:     CreatePrescriptionInput{PatientID: pat.PatientID.Hex(), AppointmentID: visit.ID.Hex(), Medications: amoxicillin(), Diagnosis: "flu"},
			kind:   util.KindValidation,
			msg:    util.APPOINTMENT_DOCTOR_MISMATCH,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := doc
			if tt.caller == "nurse" {
				caller = nurse
			}
			_, err := f.prescriptions.Create(ctx, caller, tt.in)
			require.Error(t, err)
			assert.True(t, util.IsKind(err, tt.kind))
			assert.Equal(t, tt.msg, util.AsAppError(err).Message)
		})
	}
}

func TestPrescriptionListScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.doctor(t, "wilson", "Oncology")
	other := f.doctor(t, "cuddy", "Oncology")
	alice := f.patient(t, "alice")
	bob := f.patient(t, "bob")
	nurse := f.staff(t, "carla", role.Nurse)

	for _, pat := range []string{alice.PatientID.Hex(), bob.PatientID.Hex()} {
		_, err := f.prescriptions.Create(ctx, doc, CreatePrescriptionInput{PatientID: pat, Medications: amoxicillin(), Diagnosis: "x"})
		require.NoError(t, err)
	}
	_, err := f.prescriptions.Create(ctx, other, CreatePrescriptionInput{PatientID: alice.PatientID.Hex(), Medications: amoxicillin(), Diagnosis: "y"})
	require.NoError(t, err)

	mine, err := f.prescriptions.List(ctx, alice, RecordQuery{PatientID: bob.PatientID.Hex()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Total)
	for _, rx := range mine.Items {
		assert.Equal(t, *alice.PatientID, rx.PatientID)
	}

	written, err := f.prescriptions.List(ctx, doc, RecordQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, written.Total)

	everything, err := f.prescriptions.List(ctx, nurse, RecordQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, everything.Total)

	_, err = f.prescriptions.List(ctx, nurse, RecordQuery{Status: "Lost"})
	assert.True(t, util.IsKind(err, util.KindValidation))
}

func TestMedicalRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.doctor(t, "kildare", "General")
	other := f.doctor(t, "zhivago", "General")
	pat := f.patient(t, "gina")
	stranger := f.patient(t, "hank")

	_, err := f.medicalRecords.Create(ctx, doc, CreateMedicalRecordInput{PatientID: pat.PatientID.Hex()})
	assert.True(t, util.IsKind(err, util.KindValidation))

	rec, err := f.medicalRecords.Create(ctx, doc, CreateMedicalRecordInput{
		PatientID:   pat.PatientID.Hex(),
		Diagnosis:   "hypertension",
		Medications: []string{" lisinopril ", ""},
		VitalSigns:  &models.VitalSigns{BloodPressure: "150/95"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RecordActive, rec.Status)
	assert.Equal(t, []string{"lisinopril"}, rec.Medications)
	assert.False(t, rec.VisitDate.IsZero())

	_, err = f.medicalRecords.Get(ctx, pat, rec.ID.Hex())
	require.NoError(t, err)
	_, err = f.medicalRecords.Get(ctx, stranger, rec.ID.Hex())
	assert.True(t, util.IsKind(err, util.KindForbidden))

	_, err = f.medicalRecords.Update(ctx, other, rec.ID.Hex(), UpdateMedicalRecordInput{Notes: strPtr("not mine")})
	assert.True(t, util.IsKind(err, util.KindForbidden))

	archived := models.RecordArchived
	updated, err := f.medicalRecords.Update(ctx, doc, rec.ID.Hex(), UpdateMedicalRecordInput{Status: &archived})
	require.NoError(t, err)
	assert.Equal(t, models.RecordArchived, updated.Status)

	err = f.medicalRecords.Delete(ctx, doc, rec.ID.Hex())
	assert.True(t, util.IsKind(err, util.KindForbidden))

	admin := f.staff(t, "boss", role.Admin)
	require.NoError(t, f.medicalRecords.Delete(ctx, admin, rec.ID.Hex()))
	_, err = f.medicalRecords.Get(ctx, admin, rec.ID.Hex())
	assert.True(t, util.IsKind(err, util.KindNotFound))
}
