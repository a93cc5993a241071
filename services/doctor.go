package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"HospitalCare/cache"
	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/util"
)

type DoctorQuery struct {
	Specialization string `form:"specialization"`
	Department     string `form:"department"`
}

type UpdateDoctorInput struct {
	Name            *string                   `json:"name"`
	Phone           *string                   `json:"phone"`
	Specialization  *string                   `json:"specialization"`
	Department      *string                   `json:"department"`
	ExperienceYears *int                      `json:"experience"`
	ConsultationFee *float64                  `json:"consultationFee"`
	Qualifications  []string                  `json:"qualifications"`
	Availability    models.WeeklyAvailability `json:"availability"`
}

type DoctorService struct {
	directory
	cache    cache.Store
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewDoctorService(doctors DoctorRepository, users UserRepository, store cache.Store, ttl time.Duration, log *zap.Logger) *DoctorService {
	return &DoctorService{
		directory: directory{users: users, doctors: doctors},
		cache:     store,
		cacheTTL:  ttl,
		log:       log.Named("doctors"),
	}
}

// doctorListKey uses the filter values as given, since the store matches
// them exactly.
func doctorListKey(q DoctorQuery) string {
	return cache.DoctorListKey + q.Specialization + ":" + q.Department
}

/*
* Serve the directory from cache when present
* Otherwise load from the store, join account summaries and cache the result
* Cache failures are logged and never fail the request
 */
func (s *DoctorService) List(ctx context.Context, q DoctorQuery) ([]models.DoctorView, error) {
	key := doctorListKey(q)
	var cached []models.DoctorView
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("reading doctor cache failed", zap.Error(err))
	}
	if found {
		return cached, nil
	}

	list, err := s.doctors.List(ctx, models.DoctorFilter{Specialization: q.Specialization, Department: q.Department})
	if err != nil {
		s.log.Error("listing doctors failed", zap.Error(err))
		return nil, err
	}
	views, err := s.doctorViews(ctx, list)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, views, s.cacheTTL); err != nil {
		s.log.Warn("writing doctor cache failed", zap.Error(err))
	}
	return views, nil
}

func (s *DoctorService) Get(ctx context.Context, id string) (*models.DoctorView, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	d, err := s.doctors.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	return s.doctorView(ctx, d)
}

func (s *DoctorService) Me(ctx context.Context, p *policy.Principal) (*models.DoctorView, error) {
	if p.DoctorID == nil {
		return nil, util.NotFound(util.DOCTOR_PROFILE_MISSING)
	}
	d, err := s.doctors.FindByID(ctx, *p.DoctorID)
	if err != nil {
		return nil, err
	}
	return s.doctorView(ctx, d)
}

// ValidateAvailability checks weekday keys and HH:MM bounds of every
// available day.
func ValidateAvailability(w models.WeeklyAvailability) error {
	known := make(map[string]bool, len(models.Weekdays))
	for _, d := range models.Weekdays {
		known[d] = true
	}
	for day, hours := range w {
		if !known[day] {
			return util.Validation(util.INVALID_AVAILABILITY)
		}
		if !hours.Available {
			continue
		}
		if !ValidTime(hours.Start) || !ValidTime(hours.End) || hours.Start >= hours.End {
			return util.Validation(util.INVALID_AVAILABILITY)
		}
	}
	return nil
}

/*
* Doctors edit their own profile, admin any profile
* Account display fields live on the user and are written first, so a failed
* account write leaves the profile untouched
* The directory cache is dropped after every change
 */
func (s *DoctorService) Update(ctx context.Context, p *policy.Principal, id string, in UpdateDoctorInput) (*models.DoctorView, error) {
	d, err := s.loadForUpdate(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if in.Specialization != nil {
		d.Specialization = strings.TrimSpace(*in.Specialization)
	}
	if in.Department != nil {
		d.Department = strings.TrimSpace(*in.Department)
	}
	if in.ExperienceYears != nil {
		d.ExperienceYears = *in.ExperienceYears
	}
	if in.ConsultationFee != nil {
		d.ConsultationFee = *in.ConsultationFee
	}
	if in.Qualifications != nil {
		d.Qualifications = trimmed(in.Qualifications)
	}
	if in.Availability != nil {
		if err := ValidateAvailability(in.Availability); err != nil {
			return nil, err
		}
		d.Availability = mergeAvailability(d.Availability, in.Availability)
	}
	if in.Name != nil || in.Phone != nil {
		u, err := s.users.FindByID(ctx, d.UserID)
		if err != nil {
			return nil, err
		}
		if in.Name != nil {
			u.Name = strings.TrimSpace(*in.Name)
		}
		if in.Phone != nil {
			u.Phone = *in.Phone
		}
		if err := s.users.Update(ctx, u); err != nil {
			s.log.Error("updating doctor account failed", zap.Stringer("user", u.ID), zap.Error(err))
			return nil, err
		}
	}
	if err := s.doctors.Update(ctx, d); err != nil {
		s.log.Error("updating doctor failed", zap.Stringer("doctor", d.ID), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx)
	return s.doctorView(ctx, d)
}

func (s *DoctorService) UpdateAvailability(ctx context.Context, p *policy.Principal, id string, w models.WeeklyAvailability) (*models.DoctorView, error) {
	if err := ValidateAvailability(w); err != nil {
		return nil, err
	}
	d, err := s.loadForUpdate(ctx, p, id)
	if err != nil {
		return nil, err
	}
	d.Availability = mergeAvailability(d.Availability, w)
	if err := s.doctors.Update(ctx, d); err != nil {
		s.log.Error("updating availability failed", zap.Stringer("doctor", d.ID), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx)
	return s.doctorView(ctx, d)
}

func (s *DoctorService) loadForUpdate(ctx context.Context, p *policy.Principal, id string) (*models.Doctor, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	d, err := s.doctors.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !p.Can(policy.Doctor, policy.Update, policy.OwnedByDoctor(d.ID)) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	return d, nil
}

func mergeAvailability(current, changes models.WeeklyAvailability) models.WeeklyAvailability {
	out := models.DefaultAvailability()
	for day, hours := range current {
		out[day] = hours
	}
	for day, hours := range changes {
		out[day] = hours
	}
	return out
}

func (s *DoctorService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cache.DoctorListKey); err != nil {
		s.log.Warn("dropping doctor cache failed", zap.Error(err))
	}
}
