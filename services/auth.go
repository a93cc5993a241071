package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"HospitalCare/cache"
	"HospitalCare/config"
	"HospitalCare/models"
	"HospitalCare/notify"
	"HospitalCare/policy"
	"HospitalCare/role"
	"HospitalCare/util"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`

	Specialization  string   `json:"specialization"`
	LicenseNumber   string   `json:"licenseNumber"`
	ExperienceYears *int     `json:"experience"`
	Department      string   `json:"department"`
	ConsultationFee float64  `json:"consultationFee"`
	Qualifications  []string `json:"qualifications"`

	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      string     `json:"gender"`
	BloodGroup  string     `json:"bloodGroup"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type BootstrapAdminInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type Profile struct {
	User    *models.User    `json:"user"`
	Doctor  *models.Doctor  `json:"doctor,omitempty"`
	Patient *models.Patient `json:"patient,omitempty"`
}

type AuthService struct {
	users      UserRepository
	doctors    DoctorRepository
	patients   PatientRepository
	tokens     TokenIssuer
	guard      *LoginGuard
	directory  cache.Store
	dispatcher Dispatcher
	metrics    Recorder
	log        *zap.Logger
	hashCost   int
}

func NewAuthService(
	users UserRepository,
	doctors DoctorRepository,
	patients PatientRepository,
	tokens TokenIssuer,
	guard *LoginGuard,
	directory cache.Store,
	dispatcher Dispatcher,
	metrics Recorder,
	log *zap.Logger,
) *AuthService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if directory == nil {
		directory = cache.Noop{}
	}
	return &AuthService{
		users:      users,
		doctors:    doctors,
		patients:   patients,
		tokens:     tokens,
		guard:      guard,
		directory:  directory,
		dispatcher: dispatcher,
		metrics:    metrics,
		log:        log.Named("auth"),
		hashCost:   bcrypt.DefaultCost,
	}
}

// WithHashCost lowers the bcrypt cost, for tests.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

/*
* Check if length less than 7 return error
* Must have upperCase, number, special
* If any of them is missing return error
 */
func ValidatePasswordRules(password string) error {
	if len(password) < 7 {
		return util.Validation(util.PASSWORD_TOO_SHORT)
	}

	hasUpper, hasNumber, hasSpecial := false, false, false
	specialChars := "!@#$%^&*()-_=+[]{}|;:',.<>?/`~"
	for _, ch := range password {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= '0' && ch <= '9':
			hasNumber = true
		case strings.ContainsRune(specialChars, ch):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return util.Validation(util.PASSWORD_NEEDS_UPPER)
	}
	if !hasNumber {
		return util.Validation(util.PASSWORD_NEEDS_NUMBER)
	}
	if !hasSpecial {
		return util.Validation(util.PASSWORD_NEEDS_SPECIAL)
	}
	return nil
}

func (s *AuthService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", util.Internal(err)
	}
	return string(h), nil
}

func verifyPassword(hash, password string) bool {
	if strings.TrimSpace(hash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validateDoctorFields(in RegisterInput) error {
	if strings.TrimSpace(in.Specialization) == "" ||
		strings.TrimSpace(in.LicenseNumber) == "" ||
		in.ExperienceYears == nil ||
		strings.TrimSpace(in.Department) == "" {
		return util.Validation(util.DOCTOR_FIELDS_REQUIRED)
	}
	return nil
}

/*
* Resolve the requested role; admin can never self register
* Validate the required fields for the role and the password rules
* Refuse an email or license that is already taken
* Create the account and then its role profile, removing the account if the profile fails
* Issue a token and send the welcome notice in the background
 */
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	r := role.Patient
	if in.Role != "" {
		r = role.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	}
	if r == role.Admin {
		s.log.Warn("admin self registration blocked", zap.String("email", in.Email))
		return nil, util.Forbidden(util.ADMIN_REGISTRATION_BLOCKED)
	}
	if !r.SelfRegistrable() {
		return nil, util.Validation(util.INVALID_ROLE)
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, util.Validation(util.REQUIRED_ACCOUNT_FIELDS)
	}
	if err := ValidatePasswordRules(in.Password); err != nil {
		return nil, err
	}
	if r == role.Doctor {
		if err := validateDoctorFields(in); err != nil {
			return nil, err
		}
	}
	if r == role.Patient && !models.ValidBloodGroup(in.BloodGroup) {
		return nil, util.Validation(util.INVALID_BLOOD_GROUP)
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, util.DuplicateKey(util.EMAIL_ALREADY_REGISTERED)
	} else if !util.IsKind(err, util.KindNotFound) {
		s.log.Error("checking email failed", zap.Error(err))
		return nil, err
	}
	if r == role.Doctor {
		taken, err := s.doctors.ExistsByLicense(ctx, strings.TrimSpace(in.LicenseNumber))
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.DuplicateKey(util.LICENSE_ALREADY_REGISTERED)
		}
	}

	user, err := s.createAccount(ctx, in.Name, in.Email, in.Password, in.Phone, r)
	if err != nil {
		return nil, err
	}
	if err := s.createProfile(ctx, user, in); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.log.Error("removing account after profile failure", zap.Stringer("user", user.ID), zap.Error(delErr))
		}
		s.log.Warn("creating role profile failed", zap.String("role", r.String()), zap.Error(err))
		return nil, err
	}
	if r == role.Doctor {
		if err := s.directory.DeletePrefix(ctx, cache.DoctorListKey); err != nil {
			s.log.Warn("dropping doctor cache failed", zap.Error(err))
		}
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.welcome(user)
	s.log.Info("user registered", zap.Stringer("user", user.ID), zap.String("role", r.String()))
	return res, nil
}

func (s *AuthService) createAccount(ctx context.Context, name, email, password, phone string, r role.Role) (*models.User, error) {
	hashed, err := s.hash(password)
	if err != nil {
		s.log.Error("hashing password failed", zap.Error(err))
		return nil, err
	}
	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashed,
		Phone:        phone,
		Role:         r,
	}
	user.SetStatus(models.UserActive)
	if err := s.users.Create(ctx, user); err != nil {
		s.log.Warn("creating account failed", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *AuthService) createProfile(ctx context.Context, user *models.User, in RegisterInput) error {
	switch user.Role {
	case role.Doctor:
		return s.doctors.Create(ctx, &models.Doctor{
			UserID:          user.ID,
			Specialization:  strings.TrimSpace(in.Specialization),
			LicenseNumber:   strings.TrimSpace(in.LicenseNumber),
			ExperienceYears: *in.ExperienceYears,
			Department:      strings.TrimSpace(in.Department),
			ConsultationFee: in.ConsultationFee,
			Qualifications:  trimmed(in.Qualifications),
		})
	case role.Patient:
		return s.patients.Create(ctx, &models.Patient{
			UserID:      user.ID,
			DateOfBirth: in.DateOfBirth,
			Gender:      in.Gender,
			BloodGroup:  in.BloodGroup,
		})
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	tok, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error("issuing token failed", zap.Error(err))
		return nil, util.Internal(err)
	}
	return &AuthResult{Token: tok, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) welcome(user *models.User) {
	if s.dispatcher == nil {
		return
	}
	notice := notify.WelcomeNotice{Name: user.Name, Email: user.Email, Role: user.Role.String()}
	s.dispatcher.Go("welcome", func(ctx context.Context, n notify.Notifier) error {
		return n.Welcome(ctx, notice)
	})
}

/*
* Refuse while the email is locked out
* Find the user by email and check the account is active
* Compare the asserted role with the stored one
* Verify the password, counting failures towards the lockout
* Record lastLogin and issue a token
 */
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if s.guard.Locked(ctx, email) {
		s.metrics.LoginFailed("locked")
		return nil, util.TooManyRequests(util.ACCOUNT_LOCKED)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if util.IsKind(err, util.KindNotFound) {
			s.metrics.LoginFailed("unknown_email")
			s.guard.Fail(ctx, email)
			return nil, util.Unauthorized(util.INVALID_CREDENTIALS)
		}
		s.log.Error("loading user for login failed", zap.Error(err))
		return nil, err
	}
	if !user.CanLogin() {
		s.metrics.LoginFailed("inactive")
		return nil, util.Unauthorized(util.ACCOUNT_DEACTIVATED)
	}
	if in.Role != "" && role.Role(strings.ToLower(in.Role)) != user.Role {
		s.metrics.LoginFailed("role_mismatch")
		return nil, util.Unauthorized(fmt.Sprintf(util.ROLE_MISMATCH_FORMAT, strings.ToLower(in.Role)))
	}
	if !verifyPassword(user.PasswordHash, in.Password) {
		s.metrics.LoginFailed("password")
		s.guard.Fail(ctx, email)
		return nil, util.Unauthorized(util.INVALID_CREDENTIALS)
	}
	s.guard.Reset(ctx, email)

	at := clock()
	user.LastLogin = &at
	if err := s.users.Update(ctx, user); err != nil {
		s.log.Error("recording last login failed", zap.Stringer("user", user.ID), zap.Error(err))
		return nil, err
	}
	return s.issue(user)
}

// Resolve loads the caller behind a token subject together with the role
// profile it owns. Inactive accounts are refused.
func (s *AuthService) Resolve(ctx context.Context, userID primitive.ObjectID) (*policy.Principal, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if util.IsKind(err, util.KindNotFound) {
			return nil, util.Unauthorized(util.USER_NOT_FOUND)
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, util.Unauthorized(util.ACCOUNT_DEACTIVATED)
	}

	p := &policy.Principal{User: user}
	switch user.Role {
	case role.Doctor:
		d, err := s.doctors.FindByUserID(ctx, user.ID)
		if err != nil && !util.IsKind(err, util.KindNotFound) {
			return nil, err
		}
		if d != nil {
			p.DoctorID = &d.ID
		}
	case role.Patient:
		pt, err := s.patients.FindByUserID(ctx, user.ID)
		if err != nil && !util.IsKind(err, util.KindNotFound) {
			return nil, err
		}
		if pt != nil {
			p.PatientID = &pt.ID
		}
	}
	return p, nil
}

func (s *AuthService) Me(ctx context.Context, p *policy.Principal) (*Profile, error) {
	out := &Profile{User: p.User}
	if p.DoctorID != nil {
		d, err := s.doctors.FindByID(ctx, *p.DoctorID)
		if err != nil {
			return nil, err
		}
		out.Doctor = d
	}
	if p.PatientID != nil {
		pt, err := s.patients.FindByID(ctx, *p.PatientID)
		if err != nil {
			return nil, err
		}
		out.Patient = pt
	}
	return out, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, p *policy.Principal, in ChangePasswordInput) error {
	if !verifyPassword(p.User.PasswordHash, in.CurrentPassword) {
		return util.Validation(util.CURRENT_PASSWORD_INCORRECT)
	}
	if err := ValidatePasswordRules(in.NewPassword); err != nil {
		return err
	}
	hashed, err := s.hash(in.NewPassword)
	if err != nil {
		return err
	}
	p.User.PasswordHash = hashed
	if err := s.users.Update(ctx, p.User); err != nil {
		s.log.Error("updating password failed", zap.Stringer("user", p.User.ID), zap.Error(err))
		return err
	}
	return nil
}

// BootstrapAdmin creates the first admin. It reports false without error
// when an admin already exists.
func (s *AuthService) BootstrapAdmin(ctx context.Context, in BootstrapAdminInput) (*models.User, bool, error) {
	exists, err := s.users.ExistsWithRole(ctx, role.Admin)
	if err != nil {
		s.log.Error("checking for admin failed", zap.Error(err))
		return nil, false, err
	}
	if exists {
		return nil, false, nil
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, false, util.Validation(util.REQUIRED_ACCOUNT_FIELDS)
	}
	if err := ValidatePasswordRules(in.Password); err != nil {
		return nil, false, err
	}
	user, err := s.createAccount(ctx, in.Name, in.Email, in.Password, "", role.Admin)
	if err != nil {
		return nil, false, err
	}
	s.log.Info("admin bootstrapped", zap.Stringer("user", user.ID))
	return user, true, nil
}

// LoginGuard counts failed logins per email and locks the email out for the
// rest of the window once the limit is reached.
type LoginGuard struct {
	cache  cache.Store
	max    int
	window time.Duration
	log    *zap.Logger
}

func NewLoginGuard(store cache.Store, cfg config.AuthConfig, log *zap.Logger) *LoginGuard {
	return &LoginGuard{cache: store, max: cfg.MaxFailedLogins, window: cfg.LockoutWindow, log: log}
}

func (g *LoginGuard) key(email string) string {
	return cache.LoginFailKey + email
}

func (g *LoginGuard) Locked(ctx context.Context, email string) bool {
	if g == nil || g.max <= 0 {
		return false
	}
	var n int64
	found, err := g.cache.Get(ctx, g.key(email), &n)
	if err != nil {
		g.log.Warn("reading login failures failed", zap.Error(err))
		return false
	}
	return found && n >= int64(g.max)
}

func (g *LoginGuard) Fail(ctx context.Context, email string) {
	if g == nil || g.max <= 0 {
		return
	}
	n, err := g.cache.Incr(ctx, g.key(email), g.window)
	if err != nil {
		g.log.Warn("counting login failure failed", zap.Error(err))
		return
	}
	if n == int64(g.max) {
		g.log.Warn("login locked out", zap.String("email", email), zap.Duration("window", g.window))
	}
}

func (g *LoginGuard) Reset(ctx context.Context, email string) {
	if g == nil {
		return
	}
	if err := g.cache.Delete(ctx, g.key(email)); err != nil {
		g.log.Warn("clearing login failures failed", zap.Error(err))
	}
}
