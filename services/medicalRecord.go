package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/util"
)

type CreateMedicalRecordInput struct {
	PatientID      string              `json:"patientId" binding:"required"`
	AppointmentID  string              `json:"appointmentId"`
	VisitDate      *time.Time          `json:"visitDate"`
	ChiefComplaint string              `json:"chiefComplaint"`
	Diagnosis      string              `json:"diagnosis" binding:"required"`
	Treatment      string              `json:"treatment"`
	Medications    []string            `json:"medications"`
	VitalSigns     *models.VitalSigns  `json:"vitalSigns"`
	Attachments    []models.Attachment `json:"attachments"`
	Notes          string              `json:"notes"`
}

type UpdateMedicalRecordInput struct {
	ChiefComplaint *string                     `json:"chiefComplaint"`
	Diagnosis      *string                     `json:"diagnosis"`
	Treatment      *string                     `json:"treatment"`
	Medications    []string                    `json:"medications"`
	VitalSigns     *models.VitalSigns          `json:"vitalSigns"`
	Attachments    []models.Attachment         `json:"attachments"`
	Notes          *string                     `json:"notes"`
	Status         *models.MedicalRecordStatus `json:"status"`
}

type MedicalRecordService struct {
	records MedicalRecordRepository
	links   clinicalLinks
	log     *zap.Logger
}

func NewMedicalRecordService(records MedicalRecordRepository, patients PatientRepository, appointments AppointmentRepository, log *zap.Logger) *MedicalRecordService {
	return &MedicalRecordService{
		records: records,
		links:   clinicalLinks{patients: patients, appointments: appointments},
		log:     log.Named("medical-records"),
	}
}

func (s *MedicalRecordService) Create(ctx context.Context, p *policy.Principal, in CreateMedicalRecordInput) (*models.MedicalRecord, error) {
	if strings.TrimSpace(in.Diagnosis) == "" {
		return nil, util.Validation(util.DIAGNOSIS_REQUIRED)
	}
	patientID, appointmentID, err := s.links.resolve(ctx, p, policy.MedicalRecord, in.PatientID, in.AppointmentID)
	if err != nil {
		s.log.Info("medical record refused", zap.Stringer("caller", p.UserID()), zap.Error(err))
		return nil, err
	}

	visit := clock()
	if in.VisitDate != nil {
		visit = in.VisitDate.UTC()
	}
	r := &models.MedicalRecord{
		PatientID:      patientID,
		DoctorID:       *p.DoctorID,
		AppointmentID:  appointmentID,
		VisitDate:      visit,
		ChiefComplaint: in.ChiefComplaint,
		Diagnosis:      strings.TrimSpace(in.Diagnosis),
		Treatment:      in.Treatment,
		Medications:    trimmed(in.Medications),
		VitalSigns:     in.VitalSigns,
		Attachments:    in.Attachments,
		Notes:          in.Notes,
		Status:         models.RecordActive,
	}
	if err := s.records.Create(ctx, r); err != nil {
		s.log.Error("creating medical record failed", zap.Error(err))
		return nil, err
	}
	return r, nil
}

func (s *MedicalRecordService) load(ctx context.Context, p *policy.Principal, id string, act policy.Action) (*models.MedicalRecord, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	r, err := s.records.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !p.Can(policy.MedicalRecord, act, policy.Clinical(r.PatientID, r.DoctorID)) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	return r, nil
}

func (s *MedicalRecordService) Get(ctx context.Context, p *policy.Principal, id string) (*models.MedicalRecord, error) {
	return s.load(ctx, p, id, policy.View)
}

func (s *MedicalRecordService) List(ctx context.Context, p *policy.Principal, q RecordQuery) (*Paged[models.MedicalRecord], error) {
	requested, err := parseOptionalID(q.PatientID)
	if err != nil {
		return nil, err
	}
	status := models.MedicalRecordStatus(q.Status)
	if status != "" && !status.Valid() {
		return nil, util.Validation(util.INVALID_MEDICAL_RECORD_STATUS)
	}
	patientID, doctorID, ok, err := scopeRecords(p, policy.MedicalRecord, requested)
	if err != nil {
		return nil, err
	}
	if !ok {
		return emptyPage[models.MedicalRecord](q.Page), nil
	}

	f := models.MedicalRecordFilter{PatientID: patientID, DoctorID: doctorID, Status: status, Page: q.Page}
	list, total, err := s.records.List(ctx, f)
	if err != nil {
		s.log.Error("listing medical records failed", zap.Error(err))
		return nil, err
	}
	return newPaged(list, total, q.Page), nil
}

func (s *MedicalRecordService) Update(ctx context.Context, p *policy.Principal, id string, in UpdateMedicalRecordInput) (*models.MedicalRecord, error) {
	r, err := s.load(ctx, p, id, policy.Update)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, util.Validation(util.INVALID_MEDICAL_RECORD_STATUS)
	}
	if in.ChiefComplaint != nil {
		r.ChiefComplaint = *in.ChiefComplaint
	}
	if in.Diagnosis != nil {
		r.Diagnosis = strings.TrimSpace(*in.Diagnosis)
	}
	if in.Treatment != nil {
		r.Treatment = *in.Treatment
	}
	if in.Medications != nil {
		r.Medications = trimmed(in.Medications)
	}
	if in.VitalSigns != nil {
		r.VitalSigns = in.VitalSigns
	}
	if in.Attachments != nil {
		r.Attachments = in.Attachments
	}
	if in.Notes != nil {
		r.Notes = *in.Notes
	}
	if in.Status != nil {
		r.Status = *in.Status
	}

	if err := s.records.Update(ctx, r); err != nil {
		s.log.Error("updating medical record failed", zap.Stringer("record", r.ID), zap.Error(err))
		return nil, err
	}
	return r, nil
}

func (s *MedicalRecordService) Delete(ctx context.Context, p *policy.Principal, id string) error {
	r, err := s.load(ctx, p, id, policy.Delete)
	if err != nil {
		return err
	}
	if err := s.records.Delete(ctx, r.ID); err != nil {
		s.log.Error("deleting medical record failed", zap.Stringer("record", r.ID), zap.Error(err))
		return err
	}
	return nil
}
