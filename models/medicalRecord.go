package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MedicalRecordStatus string

const (
	RecordActive    MedicalRecordStatus = "Active"
	RecordCompleted MedicalRecordStatus = "Completed"
	RecordArchived  MedicalRecordStatus = "Archived"
)

func (s MedicalRecordStatus) Valid() bool {
	return s == RecordActive || s == RecordCompleted || s == RecordArchived
}

type VitalSigns struct {
	BloodPressure    string  `json:"bloodPressure,omitempty" bson:"bloodPressure,omitempty"`
	HeartRate        int     `json:"heartRate,omitempty" bson:"heartRate,omitempty"`
	Temperature      float64 `json:"temperature,omitempty" bson:"temperature,omitempty"`
	RespiratoryRate  int     `json:"respiratoryRate,omitempty" bson:"respiratoryRate,omitempty"`
	OxygenSaturation float64 `json:"oxygenSaturation,omitempty" bson:"oxygenSaturation,omitempty"`
	Weight           float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Height           float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// Attachment references a file stored elsewhere; uploads are not handled here.
type Attachment struct {
	Name string `json:"name" bson:"name"`
	URL  string `json:"url" bson:"url"`
}

type MedicalRecord struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	PatientID      primitive.ObjectID  `json:"patientId" bson:"patient"`
	DoctorID       primitive.ObjectID  `json:"doctorId" bson:"doctor"`
	AppointmentID  *primitive.ObjectID `json:"appointmentId,omitempty" bson:"appointment,omitempty"`
	VisitDate      time.Time           `json:"visitDate" bson:"visitDate"`
	ChiefComplaint string              `json:"chiefComplaint,omitempty" bson:"chiefComplaint,omitempty"`
	Diagnosis      string              `json:"diagnosis" bson:"diagnosis"`
	Treatment      string              `json:"treatment,omitempty" bson:"treatment,omitempty"`
	Medications    []string            `json:"medications" bson:"medications"`
	VitalSigns     *VitalSigns         `json:"vitalSigns,omitempty" bson:"vitalSigns,omitempty"`
	Attachments    []Attachment        `json:"attachments" bson:"attachments"`
	Notes          string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Status         MedicalRecordStatus `json:"status" bson:"status"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}
