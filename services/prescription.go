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

type CreatePrescriptionInput struct {
	PatientID       string              `json:"patientId" binding:"required"`
	AppointmentID   string              `json:"appointmentId"`
	MedicalRecordID string              `json:"medicalRecordId"`
	Medications     []models.Medication `json:"medications" binding:"required,min=1,dive"`
	Diagnosis       string              `json:"diagnosis" binding:"required"`
	Notes           string              `json:"notes"`
	ValidUntil      *time.Time          `json:"validUntil"`
}

type UpdatePrescriptionInput struct {
	Medications []models.Medication        `json:"medications" binding:"omitempty,dive"`
	Diagnosis   *string                    `json:"diagnosis"`
	Notes       *string                    `json:"notes"`
	ValidUntil  *time.Time                 `json:"validUntil"`
	Status      *models.PrescriptionStatus `json:"status"`
}

type RecordQuery struct {
	PatientID string `form:"patientId"`
	Status    string `form:"status"`
	models.Page
}

// clinicalLinks checks the optional references a doctor attaches to a new
// clinical record.
type clinicalLinks struct {
	patients     PatientRepository
	appointments AppointmentRepository
}

/*
* The caller must be a doctor with a profile
* The patient must exist and the doctor must be allowed to write for them
* A referenced appointment must be between that doctor and that patient
 */
func (l clinicalLinks) resolve(ctx context.Context, p *policy.Principal, res policy.Resource, patientHex, appointmentHex string) (primitive.ObjectID, *primitive.ObjectID, error) {
	if p.DoctorID == nil {
		return primitive.NilObjectID, nil, util.Forbidden(util.ROLE_NOT_PERMITTED)
	}
	patientID, err := ParseID(patientHex)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	if _, err := l.patients.FindByID(ctx, patientID); err != nil {
		return primitive.NilObjectID, nil, err
	}
	if !p.Can(res, policy.Create, policy.Clinical(patientID, *p.DoctorID)) {
		return primitive.NilObjectID, nil, util.Forbidden(util.ACCESS_DENIED)
	}

	appointmentID, err := parseOptionalID(appointmentHex)
	if err != nil || appointmentID == nil {
		return patientID, nil, err
	}
	a, err := l.appointments.FindByID(ctx, *appointmentID)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	if a.DoctorID != *p.DoctorID {
		return primitive.NilObjectID, nil, util.Validation(util.APPOINTMENT_DOCTOR_MISMATCH)
	}
	if a.PatientID != patientID {
		return primitive.NilObjectID, nil, util.Validation(util.APPOINTMENT_PATIENT_MISMATCH)
	}
	return patientID, appointmentID, nil
}

// scopeRecords pins a record query to the caller's own profile when the
// caller only has own scope.
func scopeRecords(p *policy.Principal, res policy.Resource, requested *primitive.ObjectID) (patientID, doctorID *primitive.ObjectID, ok bool, err error) {
	switch p.ScopeFor(res, policy.View) {
	case policy.ScopeAll:
		return requested, nil, true, nil
	case policy.ScopeOwn:
		switch {
		case p.PatientID != nil:
			return p.PatientID, nil, true, nil
		case p.DoctorID != nil:
			return requested, p.DoctorID, true, nil
		}
		return nil, nil, false, nil
	}
	return nil, nil, false, util.Forbidden(util.ACCESS_DENIED)
}

type PrescriptionService struct {
	prescriptions PrescriptionRepository
	links         clinicalLinks
	log           *zap.Logger
}

func NewPrescriptionService(prescriptions PrescriptionRepository, patients PatientRepository, appointments AppointmentRepository, log *zap.Logger) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: prescriptions,
		links:         clinicalLinks{patients: patients, appointments: appointments},
		log:           log.Named("prescriptions"),
	}
}

func validMedications(meds []models.Medication) bool {
	if len(meds) == 0 {
		return false
	}
	for _, m := range meds {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Dosage) == "" || strings.TrimSpace(m.Frequency) == "" {
			return false
		}
	}
	return true
}

func (s *PrescriptionService) Create(ctx context.Context, p *policy.Principal, in CreatePrescriptionInput) (*models.Prescription, error) {
	if !validMedications(in.Medications) {
		return nil, util.Validation(util.MEDICATIONS_REQUIRED)
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		return nil, util.Validation(util.DIAGNOSIS_REQUIRED)
	}
	patientID, appointmentID, err := s.links.resolve(ctx, p, policy.Prescription, in.PatientID, in.AppointmentID)
	if err != nil {
		s.log.Info("prescription refused", zap.Stringer("caller", p.UserID()), zap.Error(err))
		return nil, err
	}
	recordID, err := parseOptionalID(in.MedicalRecordID)
	if err != nil {
		return nil, err
	}

	rx := &models.Prescription{
		PatientID:       patientID,
		DoctorID:        *p.DoctorID,
		AppointmentID:   appointmentID,
		MedicalRecordID: recordID,
		Medications:     in.Medications,
		Diagnosis:       strings.TrimSpace(in.Diagnosis),
		Notes:           in.Notes,
		IssuedDate:      clock(),
		ValidUntil:      in.ValidUntil,
		Status:          models.PrescriptionPending,
	}
	if err := s.prescriptions.Create(ctx, rx); err != nil {
		s.log.Error("creating prescription failed", zap.Error(err))
		return nil, err
	}
	return rx, nil
}

func (s *PrescriptionService) load(ctx context.Context, p *policy.Principal, id string, act policy.Action) (*models.Prescription, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	rx, err := s.prescriptions.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !p.Can(policy.Prescription, act, policy.Clinical(rx.PatientID, rx.DoctorID)) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	return rx, nil
}

func (s *PrescriptionService) Get(ctx context.Context, p *policy.Principal, id string) (*models.Prescription, error) {
	return s.load(ctx, p, id, policy.View)
}

func (s *PrescriptionService) List(ctx context.Context, p *policy.Principal, q RecordQuery) (*Paged[models.Prescription], error) {
	requested, err := parseOptionalID(q.PatientID)
	if err != nil {
		return nil, err
	}
	status := models.PrescriptionStatus(q.Status)
	if status != "" && !status.Valid() {
		return nil, util.Validation(util.INVALID_PRESCRIPTION_STATUS)
	}
	patientID, doctorID, ok, err := scopeRecords(p, policy.Prescription, requested)
	if err != nil {
		return nil, err
	}
	if !ok {
		return emptyPage[models.Prescription](q.Page), nil
	}

	f := models.PrescriptionFilter{PatientID: patientID, DoctorID: doctorID, Status: status, Page: q.Page}
	list, total, err := s.prescriptions.List(ctx, f)
	if err != nil {
		s.log.Error("listing prescriptions failed", zap.Error(err))
		return nil, err
	}
	return newPaged(list, total, q.Page), nil
}

/*
* Load and check ownership first
* Dispensed or completed prescriptions are read-only for every role
* Apply the requested fields
 */
func (s *PrescriptionService) Update(ctx context.Context, p *policy.Principal, id string, in UpdatePrescriptionInput) (*models.Prescription, error) {
	rx, err := s.load(ctx, p, id, policy.Update)
	if err != nil {
		return nil, err
	}
	if rx.Status.Locked() {
		return nil, util.Validation(util.PRESCRIPTION_LOCKED_UPDATE)
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, util.Validation(util.INVALID_PRESCRIPTION_STATUS)
	}
	if in.Medications != nil {
		if !validMedications(in.Medications) {
			return nil, util.Validation(util.MEDICATIONS_REQUIRED)
		}
		rx.Medications = in.Medications
	}
	if in.Diagnosis != nil {
		rx.Diagnosis = strings.TrimSpace(*in.Diagnosis)
	}
	if in.Notes != nil {
		rx.Notes = *in.Notes
	}
	if in.ValidUntil != nil {
		rx.ValidUntil = in.ValidUntil
	}
	if in.Status != nil {
		rx.Status = *in.Status
	}

	if err := s.prescriptions.Update(ctx, rx); err != nil {
		s.log.Error("updating prescription failed", zap.Stringer("prescription", rx.ID), zap.Error(err))
		return nil, err
	}
	return rx, nil
}

func (s *PrescriptionService) Delete(ctx context.Context, p *policy.Principal, id string) error {
	rx, err := s.load(ctx, p, id, policy.Delete)
	if err != nil {
		return err
	}
	if rx.Status.Locked() {
		return util.Validation(util.PRESCRIPTION_LOCKED_DELETE)
	}
	if err := s.prescriptions.Delete(ctx, rx.ID); err != nil {
		s.log.Error("deleting prescription failed", zap.Stringer("prescription", rx.ID), zap.Error(err))
		return err
	}
	return nil
}
