package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmergencyContact struct {
	Name         string `json:"name" bson:"name"`
	Relationship string `json:"relationship" bson:"relationship"`
	Phone        string `json:"phone" bson:"phone"`
}

type Insurance struct {
	Provider     string     `json:"provider" bson:"provider"`
	PolicyNumber string     `json:"policyNumber" bson:"policyNumber"`
	ValidUntil   *time.Time `json:"validUntil,omitempty" bson:"validUntil,omitempty"`
}

type MedicalHistoryEntry struct {
	Condition     string     `json:"condition" bson:"condition"`
	DiagnosedDate *time.Time `json:"diagnosedDate,omitempty" bson:"diagnosedDate,omitempty"`
	Notes         string     `json:"notes,omitempty" bson:"notes,omitempty"`
}

type Patient struct {
	ID                 primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID    `json:"userId" bson:"user"`
	DateOfBirth        *time.Time            `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Gender             string                `json:"gender,omitempty" bson:"gender,omitempty"`
	BloodGroup         string                `json:"bloodGroup,omitempty" bson:"bloodGroup,omitempty"`
	Height             float64               `json:"height,omitempty" bson:"height,omitempty"`
	Weight             float64               `json:"weight,omitempty" bson:"weight,omitempty"`
	Allergies          []string              `json:"allergies" bson:"allergies"`
	CurrentMedications []string              `json:"currentMedications" bson:"currentMedications"`
	EmergencyContact   *EmergencyContact     `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	Insurance          *Insurance            `json:"insurance,omitempty" bson:"insurance,omitempty"`
	MedicalHistory     []MedicalHistoryEntry `json:"medicalHistory" bson:"medicalHistory"`
	CreatedAt          time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt" bson:"updatedAt"`
}

type PatientSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name,omitempty"`
	Email string             `json:"email,omitempty"`
	Phone string             `json:"phone,omitempty"`
}

func (p *Patient) Summary(u *User) *PatientSummary {
	s := &PatientSummary{ID: p.ID}
	if u != nil {
		s.Name = u.Name
		s.Email = u.Email
		s.Phone = u.Phone
	}
	return s
}

type PatientView struct {
	Patient
	User *UserSummary `json:"user,omitempty"`
}

var validBloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

func ValidBloodGroup(g string) bool {
	return g == "" || validBloodGroups[g]
}
