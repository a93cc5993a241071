package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PrescriptionStatus string

const (
	PrescriptionPending   PrescriptionStatus = "Pending"
	PrescriptionDispensed PrescriptionStatus = "Dispensed"
	PrescriptionCompleted PrescriptionStatus = "Completed"
	PrescriptionCancelled PrescriptionStatus = "Cancelled"
)

func (s PrescriptionStatus) Valid() bool {
	switch s {
	case PrescriptionPending, PrescriptionDispensed, PrescriptionCompleted, PrescriptionCancelled:
		return true
	}
	return false
}

// Locked statuses make the prescription read-only.
func (s PrescriptionStatus) Locked() bool {
	return s == PrescriptionDispensed || s == PrescriptionCompleted
}

type Medication struct {
	Name         string `json:"name" bson:"name" binding:"required"`
	Dosage       string `json:"dosage" bson:"dosage" binding:"required"`
	Frequency    string `json:"frequency" bson:"frequency" binding:"required"`
	Duration     string `json:"duration" bson:"duration"`
	Instructions string `json:"instructions,omitempty" bson:"instructions,omitempty"`
}

type Prescription struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	PatientID       primitive.ObjectID  `json:"patientId" bson:"patient"`
	DoctorID        primitive.ObjectID  `json:"doctorId" bson:"doctor"`
	AppointmentID   *primitive.ObjectID `json:"appointmentId,omitempty" bson:"appointment,omitempty"`
	MedicalRecordID *primitive.ObjectID `json:"medicalRecordId,omitempty" bson:"medicalRecord,omitempty"`
	Medications     []Medication        `json:"medications" bson:"medications"`
	Diagnosis       string              `json:"diagnosis" bson:"diagnosis"`
	Notes           string              `json:"notes,omitempty" bson:"notes,omitempty"`
	IssuedDate      time.Time           `json:"issuedDate" bson:"issuedDate"`
	ValidUntil      *time.Time          `json:"validUntil,omitempty" bson:"validUntil,omitempty"`
	Status          PrescriptionStatus  `json:"status" bson:"status"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}
