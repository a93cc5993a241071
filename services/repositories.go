package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"HospitalCare/models"
	"HospitalCare/notify"
	"HospitalCare/role"
)

// The repository interfaces mirror the Mongo stores in package store so the
// services can be exercised against in-memory fakes.

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	List(ctx context.Context, f models.UserFilter) ([]models.User, int64, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteWithProfile(ctx context.Context, u *models.User) error
	ExistsWithRole(ctx context.Context, r role.Role) (bool, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *models.Doctor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Doctor, error)
	ExistsByLicense(ctx context.Context, license string) (bool, error)
	List(ctx context.Context, f models.DoctorFilter) ([]models.Doctor, error)
	Update(ctx context.Context, d *models.Doctor) error
}

type PatientRepository interface {
	Create(ctx context.Context, p *models.Patient) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Patient, error)
	List(ctx context.Context, f models.PatientFilter) ([]models.Patient, int64, error)
	Update(ctx context.Context, p *models.Patient) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	FindActive(ctx context.Context, doctorID primitive.ObjectID, date, hhmm string) (*models.Appointment, error)
	List(ctx context.Context, f models.AppointmentFilter) ([]models.Appointment, int64, error)
	Update(ctx context.Context, a *models.Appointment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	HasPatientWithDoctor(ctx context.Context, patientID, doctorID primitive.ObjectID) (bool, error)
	PatientIDsForDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error)
	BookedTimes(ctx context.Context, doctorID primitive.ObjectID, date string) ([]string, error)
	FindHeldOn(ctx context.Context, date string) ([]models.Appointment, error)
	MarkNoShow(ctx context.Context, before string) (int64, error)
	CountByStatus(ctx context.Context, from, to string) (map[string]int64, error)
	CountByDepartment(ctx context.Context, from, to string) ([]models.DepartmentCount, error)
	CountOn(ctx context.Context, date string) (int64, error)
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *models.Prescription) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prescription, error)
	List(ctx context.Context, f models.PrescriptionFilter) ([]models.Prescription, int64, error)
	Update(ctx context.Context, p *models.Prescription) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MedicalRecordRepository interface {
	Create(ctx context.Context, r *models.MedicalRecord) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MedicalRecord, error)
	List(ctx context.Context, f models.MedicalRecordFilter) ([]models.MedicalRecord, int64, error)
	Update(ctx context.Context, r *models.MedicalRecord) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *models.Invoice) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error)
	List(ctx context.Context, f models.InvoiceFilter) ([]models.Invoice, int64, error)
	Update(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	MarkOverdue(ctx context.Context, at time.Time) (int64, error)
	Revenue(ctx context.Context) (float64, error)
	CountOutstanding(ctx context.Context) (int64, error)
}

type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	Inbox(ctx context.Context, userID primitive.ObjectID, p models.Page) ([]models.Message, int64, error)
	Sent(ctx context.Context, userID primitive.ObjectID, p models.Page) ([]models.Message, int64, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, m *models.Message) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DepartmentRepository interface {
	Create(ctx context.Context, d *models.Department) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error)
	List(ctx context.Context) ([]models.Department, error)
	Update(ctx context.Context, d *models.Department) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Dispatcher runs a notification without the caller waiting on it.
type Dispatcher interface {
	Go(name string, send func(ctx context.Context, n notify.Notifier) error)
}

type TokenIssuer interface {
	Issue(userID primitive.ObjectID) (string, time.Time, error)
}

// Recorder is the slice of the metrics collector the services report to.
type Recorder interface {
	AppointmentBooked(department string)
	SlotConflict()
	LoginFailed(reason string)
}
