package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"HospitalCare/models"
	"HospitalCare/notify"
	"HospitalCare/policy"
	"HospitalCare/role"
	"HospitalCare/util"
)

type CreateAppointmentInput struct {
	DoctorID   string   `json:"doctorId" binding:"required"`
	PatientID  string   `json:"patientId"`
	Department string   `json:"department"`
	Date       string   `json:"appointmentDate" binding:"required,ymd"`
	Time       string   `json:"appointmentTime" binding:"required,hhmm"`
	Reason     string   `json:"reason" binding:"required"`
	Symptoms   []string `json:"symptoms"`
	Priority   string   `json:"priority"`
	Notes      string   `json:"notes"`
}

type UpdateAppointmentInput struct {
	Status       *models.AppointmentStatus       `json:"status"`
	Notes        *string                         `json:"notes"`
	Prescription *models.AppointmentPrescription `json:"prescription"`
	Payment      *models.AppointmentPayment      `json:"payment"`
}

type AppointmentQuery struct {
	Status   string `form:"status"`
	Date     string `form:"date"`
	DoctorID string `form:"doctorId"`
	models.Page
}

type AppointmentService struct {
	appointments AppointmentRepository
	directory
	dispatcher Dispatcher
	metrics    Recorder
	log        *zap.Logger
}

func NewAppointmentService(
	appointments AppointmentRepository,
	doctors DoctorRepository,
	patients PatientRepository,
	users UserRepository,
	dispatcher Dispatcher,
	metrics Recorder,
	log *zap.Logger,
) *AppointmentService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &AppointmentService{
		appointments: appointments,
		directory:    directory{users: users, doctors: doctors, patients: patients},
		dispatcher:   dispatcher,
		metrics:      metrics,
		log:          log.Named("appointments"),
	}
}

/*
* Patients book for themselves; admin and receptionist book on behalf of a patient id
* Everyone else is refused before any lookup
 */
func (s *AppointmentService) bookingPatient(ctx context.Context, p *policy.Principal, requested string) (*models.Patient, error) {
	if p.Is(role.Patient) {
		if p.PatientID == nil {
			return nil, util.Forbidden(util.PATIENT_PROFILE_MISSING)
		}
		return s.patients.FindByID(ctx, *p.PatientID)
	}
	if p.ScopeFor(policy.Appointment, policy.Create) != policy.ScopeAll {
		return nil, util.Forbidden(util.ROLE_NOT_PERMITTED)
	}
	if strings.TrimSpace(requested) == "" {
		return nil, util.Validation(util.PATIENT_ID_REQUIRED)
	}
	id, err := ParseID(requested)
	if err != nil {
		return nil, err
	}
	return s.patients.FindByID(ctx, id)
}

/*
* Resolve the patient and check the caller may book for them
* Validate date, time, reason and priority
* Make sure the doctor exists and default the department from the profile
* Reject when the slot is already held, then insert; the slot index turns a racing insert into SlotConflict too
* Send the confirmation in the background
 */
func (s *AppointmentService) Create(ctx context.Context, p *policy.Principal, in CreateAppointmentInput) (*models.AppointmentView, error) {
	patient, err := s.bookingPatient(ctx, p, in.PatientID)
	if err != nil {
		s.log.Info("booking refused", zap.Stringer("caller", p.UserID()), zap.Error(err))
		return nil, err
	}
	if !p.Can(policy.Appointment, policy.Create, policy.OwnedByPatient(patient.ID)) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}

	date, err := NormalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	if !ValidTime(in.Time) {
		return nil, util.Validation(util.INVALID_TIME)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, util.Validation(util.REASON_REQUIRED)
	}
	priority := models.PriorityNormal
	if in.Priority != "" {
		priority = models.Priority(strings.ToLower(in.Priority))
		if !priority.Valid() {
			return nil, util.Validation(util.INVALID_PRIORITY)
		}
	}

	doctorID, err := ParseID(in.DoctorID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		s.log.Info("booking for unknown doctor", zap.String("doctorId", in.DoctorID), zap.Error(err))
		return nil, err
	}
	department := strings.TrimSpace(in.Department)
	if department == "" {
		department = doctor.Department
	}

	held, err := s.appointments.FindActive(ctx, doctor.ID, date, in.Time)
	if err != nil {
		s.log.Error("checking slot failed", zap.Error(err))
		return nil, err
	}
	if held != nil {
		s.metrics.SlotConflict()
		return nil, util.SlotConflict(util.SLOT_ALREADY_BOOKED)
	}

	a := &models.Appointment{
		PatientID:  patient.ID,
		DoctorID:   doctor.ID,
		Department: department,
		Date:       date,
		Time:       in.Time,
		Reason:     strings.TrimSpace(in.Reason),
		Symptoms:   trimmed(in.Symptoms),
		Priority:   priority,
		Notes:      in.Notes,
		CreatedBy:  p.UserID(),
	}
	a.SetStatus(models.AppointmentScheduled)
	if err := s.appointments.Create(ctx, a); err != nil {
		if util.IsKind(err, util.KindSlotConflict) {
			s.metrics.SlotConflict()
		}
		s.log.Warn("creating appointment failed", zap.Error(err))
		return nil, err
	}
	s.metrics.AppointmentBooked(a.Department)

	view, err := s.appointmentView(ctx, a)
	if err != nil {
		s.log.Error("loading appointment view failed", zap.Error(err))
		return nil, err
	}
	s.notifyBooked(view)
	return view, nil
}

func noticeFor(v *models.AppointmentView) notify.AppointmentNotice {
	notice := notify.AppointmentNotice{
		AppointmentID: v.ID.Hex(),
		Department:    v.Department,
		Date:          v.Date,
		Time:          v.Time,
	}
	if v.Patient != nil {
		notice.PatientName = v.Patient.Name
		notice.PatientEmail = v.Patient.Email
	}
	if v.Doctor != nil {
		notice.DoctorName = v.Doctor.Name
	}
	return notice
}

func (s *AppointmentService) notifyBooked(v *models.AppointmentView) {
	if s.dispatcher == nil {
		return
	}
	notice := noticeFor(v)
	s.dispatcher.Go("appointment-booked", func(ctx context.Context, n notify.Notifier) error {
		return n.AppointmentBooked(ctx, notice)
	})
}

/*
* Load every slot-holding appointment on the date
* Join patient and doctor names in one batch
* Queue one reminder per appointment
 */
func (s *AppointmentService) SendReminders(ctx context.Context, date string) (int, error) {
	day, err := NormalizeDate(date)
	if err != nil {
		return 0, err
	}
	list, err := s.appointments.FindHeldOn(ctx, day)
	if err != nil {
		s.log.Error("loading appointments for reminders failed", zap.String("date", day), zap.Error(err))
		return 0, err
	}
	views, err := s.appointmentViews(ctx, list)
	if err != nil {
		return 0, err
	}
	if s.dispatcher == nil {
		return 0, nil
	}
	for i := range views {
		notice := noticeFor(&views[i])
		s.dispatcher.Go("appointment-reminder", func(ctx context.Context, n notify.Notifier) error {
			return n.AppointmentReminder(ctx, notice)
		})
	}
	return len(views), nil
}

// ExpireNoShows releases the slots of scheduled or confirmed appointments
// dated before today.
func (s *AppointmentService) ExpireNoShows(ctx context.Context) (int64, error) {
	n, err := s.appointments.MarkNoShow(ctx, today())
	if err != nil {
		s.log.Error("marking no-shows failed", zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (s *AppointmentService) load(ctx context.Context, id string) (*models.Appointment, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.appointments.FindByID(ctx, oid)
}

func (s *AppointmentService) Get(ctx context.Context, p *policy.Principal, id string) (*models.AppointmentView, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Can(policy.Appointment, policy.View, policy.Clinical(a.PatientID, a.DoctorID)) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	return s.appointmentView(ctx, a)
}

/*
* Staff with full view scope filter freely
* Patients and doctors are pinned to their own profile id
 */
func (s *AppointmentService) List(ctx context.Context, p *policy.Principal, q AppointmentQuery) (*Paged[models.AppointmentView], error) {
	f := models.AppointmentFilter{Status: models.AppointmentStatus(q.Status), Page: q.Page}
	if q.Status != "" && !f.Status.Valid() {
		return nil, util.Validation(util.INVALID_APPOINTMENT_STATUS)
	}
	if q.Date != "" {
		date, err := NormalizeDate(q.Date)
		if err != nil {
			return nil, err
		}
		f.Date = date
	}
	doctorID, err := parseOptionalID(q.DoctorID)
	if err != nil {
		return nil, err
	}
	f.DoctorID = doctorID

	switch p.ScopeFor(policy.Appointment, policy.View) {
	case policy.ScopeAll:
	case policy.ScopeOwn:
		switch {
		case p.PatientID != nil:
			f.PatientID = p.PatientID
		case p.DoctorID != nil:
			f.DoctorID = p.DoctorID
		default:
			return emptyPage[models.AppointmentView](q.Page), nil
		}
	default:
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}

	list, total, err := s.appointments.List(ctx, f)
	if err != nil {
		s.log.Error("listing appointments failed", zap.Error(err))
		return nil, err
	}
	views, err := s.appointmentViews(ctx, list)
	if err != nil {
		return nil, err
	}
	return newPaged(views, total, q.Page), nil
}

/*
* Doctors change their own appointments, admin any appointment
* Patients may only ask for cancellation of their own appointment
* Moving back into scheduled or confirmed claims the slot again
 */
func (s *AppointmentService) Update(ctx context.Context, p *policy.Principal, id string, in UpdateAppointmentInput) (*models.AppointmentView, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, util.Validation(util.INVALID_APPOINTMENT_STATUS)
	}
	if !p.Can(policy.Appointment, policy.Update, policy.Clinical(a.PatientID, a.DoctorID)) {
		s.log.Info("appointment update refused", zap.Stringer("caller", p.UserID()), zap.Stringer("appointment", a.ID))
		return nil, util.Forbidden(util.NOT_AUTHORIZED_FOR_APPOINTMENT)
	}
	if p.Is(role.Patient) {
		cancelOnly := in.Status != nil && *in.Status == models.AppointmentCancelled &&
			in.Notes == nil && in.Prescription == nil && in.Payment == nil
		if !cancelOnly {
			return nil, util.Forbidden(util.PATIENT_CAN_ONLY_CANCEL)
		}
	}

	if in.Status != nil {
		reclaim := !a.SlotHeld && in.Status.HoldsSlot()
		if reclaim {
			held, err := s.appointments.FindActive(ctx, a.DoctorID, a.Date, a.Time)
			if err != nil {
				return nil, err
			}
			if held != nil && held.ID != a.ID {
				s.metrics.SlotConflict()
				return nil, util.SlotConflict(util.SLOT_ALREADY_BOOKED)
			}
		}
		a.SetStatus(*in.Status)
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.Prescription != nil {
		a.Prescription = in.Prescription
	}
	if in.Payment != nil {
		a.Payment = in.Payment
	}

	if err := s.appointments.Update(ctx, a); err != nil {
		if util.IsKind(err, util.KindSlotConflict) {
			s.metrics.SlotConflict()
		}
		s.log.Warn("updating appointment failed", zap.Stringer("appointment", a.ID), zap.Error(err))
		return nil, err
	}
	return s.appointmentView(ctx, a)
}

func (s *AppointmentService) Delete(ctx context.Context, p *policy.Principal, id string) error {
	a, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !p.Can(policy.Appointment, policy.Delete, policy.Clinical(a.PatientID, a.DoctorID)) {
		return util.Forbidden(util.NOT_AUTHORIZED_TO_DELETE)
	}
	if err := s.appointments.Delete(ctx, a.ID); err != nil {
		s.log.Error("deleting appointment failed", zap.Stringer("appointment", a.ID), zap.Error(err))
		return err
	}
	return nil
}

/*
* Look up the doctor's hours for the weekday of the date
* Split them into 30 minute slots
* Mark the slots that already hold an active booking
 */
func (s *AppointmentService) AvailableSlots(ctx context.Context, doctorID, date string) ([]models.Slot, error) {
	oid, err := ParseID(doctorID)
	if err != nil {
		return nil, err
	}
	day, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctors.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	t, _ := time.Parse(DateLayout, day)
	hours := doctor.Availability.For(t)
	if !hours.Available {
		return []models.Slot{}, nil
	}
	booked, err := s.appointments.BookedTimes(ctx, doctor.ID, day)
	if err != nil {
		s.log.Error("loading booked times failed", zap.Error(err))
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		taken[b] = true
	}

	slots := Generate30MinSlots(hours.Start, hours.End)
	for i := range slots {
		slots[i].Booked = taken[slots[i].Start]
	}
	return slots, nil
}

// Generate30MinSlots splits [start, end) into half-hour slots. Malformed
// bounds yield no slots.
func Generate30MinSlots(start, end string) []models.Slot {
	const layout = "15:04"
	from, err := time.Parse(layout, start)
	if err != nil {
		return []models.Slot{}
	}
	to, err := time.Parse(layout, end)
	if err != nil {
		return []models.Slot{}
	}

	slots := []models.Slot{}
	for cur := from; cur.Add(30 * time.Minute).Compare(to) <= 0; cur = cur.Add(30 * time.Minute) {
		slots = append(slots, models.Slot{
			Start: cur.Format(layout),
			End:   cur.Add(30 * time.Minute).Format(layout),
		})
	}
	return slots
}
