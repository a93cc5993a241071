package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DayAvailability struct {
	Available bool   `json:"available" bson:"available"`
	Start     string `json:"start" bson:"start"`
	End       string `json:"end" bson:"end"`
}

// WeeklyAvailability is keyed by lower-case weekday name ("monday").
type WeeklyAvailability map[string]DayAvailability

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func DefaultAvailability() WeeklyAvailability {
	week := WeeklyAvailability{}
	for _, day := range Weekdays {
		if day == "saturday" || day == "sunday" {
			week[day] = DayAvailability{Available: false, Start: "09:00", End: "17:00"}
			continue
		}
		week[day] = DayAvailability{Available: true, Start: "09:00", End: "17:00"}
	}
	return week
}

// For returns the availability for the weekday of t.
func (w WeeklyAvailability) For(t time.Time) DayAvailability {
	return w[strings.ToLower(t.Weekday().String())]
}

// Slot is a bookable half hour of a doctor's day.
type Slot struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Booked bool   `json:"booked"`
}

type Doctor struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"user"`
	Specialization  string             `json:"specialization" bson:"specialization"`
	LicenseNumber   string             `json:"licenseNumber" bson:"licenseNumber"`
	ExperienceYears int                `json:"experience" bson:"experience"`
	Department      string             `json:"department" bson:"department"`
	ConsultationFee float64            `json:"consultationFee" bson:"consultationFee"`
	Qualifications  []string           `json:"qualifications,omitempty" bson:"qualifications,omitempty"`
	Availability    WeeklyAvailability `json:"availability" bson:"availability"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type DoctorSummary struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name,omitempty"`
	Email          string             `json:"email,omitempty"`
	Specialization string             `json:"specialization"`
	Department     string             `json:"department"`
}

func (d *Doctor) Summary(u *User) *DoctorSummary {
	s := &DoctorSummary{ID: d.ID, Specialization: d.Specialization, Department: d.Department}
	if u != nil {
		s.Name = u.Name
		s.Email = u.Email
	}
	return s
}

// DoctorView is a doctor profile joined with its account's display fields.
type DoctorView struct {
	Doctor
	User *UserSummary `json:"user,omitempty"`
}
