package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Page struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > MaxPageSize {
		p.Limit = DefaultPageSize
	}
	return p
}

func (p Page) Skip() int64 {
	p = p.Normalize()
	return int64((p.Page - 1) * p.Limit)
}

type AppointmentFilter struct {
	PatientID *primitive.ObjectID
	DoctorID  *primitive.ObjectID
	Status    AppointmentStatus
	Date      string
	Page      Page
}

type PrescriptionFilter struct {
	PatientID *primitive.ObjectID
	DoctorID  *primitive.ObjectID
	Status    PrescriptionStatus
	Page      Page
}

type MedicalRecordFilter struct {
	PatientID *primitive.ObjectID
	DoctorID  *primitive.ObjectID
	Status    MedicalRecordStatus
	Page      Page
}

type InvoiceFilter struct {
	PatientID     *primitive.ObjectID
	PaymentStatus PaymentStatus
	Page          Page
}

type UserFilter struct {
	Role   string
	Status UserStatus
	Page   Page
}

type DoctorFilter struct {
	Specialization string
	Department     string
}

type PatientFilter struct {
	// IDs restricts the result to these profiles when non-nil.
	IDs  []primitive.ObjectID
	Page Page
}
