package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"HospitalCare/cache"
	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/util"
)

type DepartmentInput struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	HeadOfDepartment *string  `json:"headOfDepartment"`
	Services         []string `json:"services"`
	Facilities       []string `json:"facilities"`
	ContactNumber    *string  `json:"contactNumber"`
	Location         *string  `json:"location"`
	Active           *bool    `json:"active"`
}

type DepartmentService struct {
	departments DepartmentRepository
	doctors     DoctorRepository
	cache       cache.Store
	cacheTTL    time.Duration
	log         *zap.Logger
}

func NewDepartmentService(departments DepartmentRepository, doctors DoctorRepository, store cache.Store, ttl time.Duration, log *zap.Logger) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		doctors:     doctors,
		cache:       store,
		cacheTTL:    ttl,
		log:         log.Named("departments"),
	}
}

func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	var cached []models.Department
	found, err := s.cache.Get(ctx, cache.DepartmentListKey, &cached)
	if err != nil {
		s.log.Warn("reading department cache failed", zap.Error(err))
	}
	if found {
		return cached, nil
	}

	list, err := s.departments.List(ctx)
	if err != nil {
		s.log.Error("listing departments failed", zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []models.Department{}
	}
	if err := s.cache.Set(ctx, cache.DepartmentListKey, list, s.cacheTTL); err != nil {
		s.log.Warn("writing department cache failed", zap.Error(err))
	}
	return list, nil
}

func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.departments.FindByID(ctx, oid)
}

func (s *DepartmentService) headOfDepartment(ctx context.Context, hex string) (*primitive.ObjectID, error) {
	id, err := parseOptionalID(hex)
	if err != nil || id == nil {
		return nil, err
	}
	if _, err := s.doctors.FindByID(ctx, *id); err != nil {
		if util.IsKind(err, util.KindNotFound) {
			return nil, util.Validation(util.HEAD_OF_DEPARTMENT_MISSING)
		}
		return nil, err
	}
	return id, nil
}

/*
* Apply the changed fields onto the department
* A head of department has to reference an existing doctor
 */
func (s *DepartmentService) apply(ctx context.Context, d *models.Department, in DepartmentInput) error {
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if d.Name == "" {
		return util.Validation(util.DEPARTMENT_NAME_REQUIRED)
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.HeadOfDepartment != nil {
		head, err := s.headOfDepartment(ctx, *in.HeadOfDepartment)
		if err != nil {
			return err
		}
		d.HeadOfDepartment = head
	}
	if in.Services != nil {
		d.Services = trimmed(in.Services)
	}
	if in.Facilities != nil {
		d.Facilities = trimmed(in.Facilities)
	}
	if in.ContactNumber != nil {
		d.ContactNumber = *in.ContactNumber
	}
	if in.Location != nil {
		d.Location = *in.Location
	}
	if in.Active != nil {
		d.Active = *in.Active
	}
	return nil
}

func (s *DepartmentService) Create(ctx context.Context, p *policy.Principal, in DepartmentInput) (*models.Department, error) {
	if !p.Can(policy.Department, policy.Create, policy.Owner{}) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	d := &models.Department{Active: true, Services: []string{}, Facilities: []string{}}
	if err := s.apply(ctx, d, in); err != nil {
		return nil, err
	}
	if err := s.departments.Create(ctx, d); err != nil {
		s.log.Warn("creating department failed", zap.String("name", d.Name), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx)
	return d, nil
}

func (s *DepartmentService) Update(ctx context.Context, p *policy.Principal, id string, in DepartmentInput) (*models.Department, error) {
	if !p.Can(policy.Department, policy.Update, policy.Owner{}) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, d, in); err != nil {
		return nil, err
	}
	if err := s.departments.Update(ctx, d); err != nil {
		s.log.Warn("updating department failed", zap.Stringer("department", d.ID), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx)
	return d, nil
}

func (s *DepartmentService) Delete(ctx context.Context, p *policy.Principal, id string) error {
	if !p.Can(policy.Department, policy.Delete, policy.Owner{}) {
		return util.Forbidden(util.ACCESS_DENIED)
	}
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.departments.Delete(ctx, oid); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *DepartmentService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.DepartmentListKey); err != nil {
		s.log.Warn("dropping department cache failed", zap.Error(err))
	}
}
