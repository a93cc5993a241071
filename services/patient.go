package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/util"
)

type UpdatePatientInput struct {
	Name               *string                      `json:"name"`
	Phone              *string                      `json:"phone"`
	DateOfBirth        *time.Time                   `json:"dateOfBirth"`
	Gender             *string                      `json:"gender"`
	BloodGroup         *string                      `json:"bloodGroup"`
	Height             *float64                     `json:"height"`
	Weight             *float64                     `json:"weight"`
	Allergies          []string                     `json:"allergies"`
	CurrentMedications []string                     `json:"currentMedications"`
	EmergencyContact   *models.EmergencyContact     `json:"emergencyContact"`
	Insurance          *models.Insurance            `json:"insurance"`
	MedicalHistory     []models.MedicalHistoryEntry `json:"medicalHistory"`
}

type PatientService struct {
	directory
	appointments AppointmentRepository
	log          *zap.Logger
}

func NewPatientService(patients PatientRepository, users UserRepository, appointments AppointmentRepository, log *zap.Logger) *PatientService {
	return &PatientService{
		directory:    directory{users: users, patients: patients},
		appointments: appointments,
		log:          log.Named("patients"),
	}
}

/*
* A patient owns their own profile
* A doctor is treated as an owner once they share an appointment with the patient
 */
func (s *PatientService) owner(ctx context.Context, p *policy.Principal, patientID primitive.ObjectID) (policy.Owner, error) {
	o := policy.OwnedByPatient(patientID)
	if p.DoctorID == nil {
		return o, nil
	}
	shared, err := s.appointments.HasPatientWithDoctor(ctx, patientID, *p.DoctorID)
	if err != nil {
		s.log.Error("checking doctor-patient link failed", zap.Error(err))
		return o, err
	}
	if shared {
		o.DoctorID = p.DoctorID
	}
	return o, nil
}

func (s *PatientService) List(ctx context.Context, p *policy.Principal, page models.Page) (*Paged[models.PatientView], error) {
	f := models.PatientFilter{Page: page}
	switch p.ScopeFor(policy.Patient, policy.View) {
	case policy.ScopeAll:
	case policy.ScopeOwn:
		switch {
		case p.DoctorID != nil:
			ids, err := s.appointments.PatientIDsForDoctor(ctx, *p.DoctorID)
			if err != nil {
				return nil, err
			}
			f.IDs = ids
		case p.PatientID != nil:
			f.IDs = []primitive.ObjectID{*p.PatientID}
		default:
			return emptyPage[models.PatientView](page), nil
		}
	default:
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}

	list, total, err := s.patients.List(ctx, f)
	if err != nil {
		s.log.Error("listing patients failed", zap.Error(err))
		return nil, err
	}
	views, err := s.patientViews(ctx, list)
	if err != nil {
		return nil, err
	}
	return newPaged(views, total, page), nil
}

func (s *PatientService) Get(ctx context.Context, p *policy.Principal, id string) (*models.PatientView, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	pt, err := s.patients.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	o, err := s.owner(ctx, p, pt.ID)
	if err != nil {
		return nil, err
	}
	if !p.Can(policy.Patient, policy.View, o) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	return s.patientView(ctx, pt)
}

func (s *PatientService) Me(ctx context.Context, p *policy.Principal) (*models.PatientView, error) {
	if p.PatientID == nil {
		return nil, util.NotFound(util.PATIENT_PROFILE_MISSING)
	}
	pt, err := s.patients.FindByID(ctx, *p.PatientID)
	if err != nil {
		return nil, err
	}
	return s.patientView(ctx, pt)
}

func (s *PatientService) Update(ctx context.Context, p *policy.Principal, id string, in UpdatePatientInput) (*models.PatientView, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	pt, err := s.patients.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !p.Can(policy.Patient, policy.Update, policy.OwnedByPatient(pt.ID)) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	if in.BloodGroup != nil && !models.ValidBloodGroup(*in.BloodGroup) {
		return nil, util.Validation(util.INVALID_BLOOD_GROUP)
	}

	if in.Name != nil || in.Phone != nil {
		u, err := s.users.FindByID(ctx, pt.UserID)
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
			s.log.Error("updating patient account failed", zap.Stringer("user", u.ID), zap.Error(err))
			return nil, err
		}
	}

	applyPatientChanges(pt, in)
	if err := s.patients.Update(ctx, pt); err != nil {
		s.log.Error("updating patient failed", zap.Stringer("patient", pt.ID), zap.Error(err))
		return nil, err
	}
	return s.patientView(ctx, pt)
}

func applyPatientChanges(pt *models.Patient, in UpdatePatientInput) {
	if in.DateOfBirth != nil {
		pt.DateOfBirth = in.DateOfBirth
	}
	if in.Gender != nil {
		pt.Gender = *in.Gender
	}
	if in.BloodGroup != nil {
		pt.BloodGroup = *in.BloodGroup
	}
	if in.Height != nil {
		pt.Height = *in.Height
	}
	if in.Weight != nil {
		pt.Weight = *in.Weight
	}
	if in.Allergies != nil {
		pt.Allergies = trimmed(in.Allergies)
	}
	if in.CurrentMedications != nil {
		pt.CurrentMedications = trimmed(in.CurrentMedications)
	}
	if in.EmergencyContact != nil {
		pt.EmergencyContact = in.EmergencyContact
	}
	if in.Insurance != nil {
		pt.Insurance = in.Insurance
	}
	if in.MedicalHistory != nil {
		pt.MedicalHistory = in.MedicalHistory
	}
}
