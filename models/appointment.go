package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in-progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no-show"
)

var appointmentStatuses = []AppointmentStatus{
	AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress,
	AppointmentCompleted, AppointmentCancelled, AppointmentNoShow,
}

func (s AppointmentStatus) Valid() bool {
	for _, v := range appointmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// HoldsSlot is true for the statuses that occupy a doctor's time slot.
func (s AppointmentStatus) HoldsSlot() bool {
	return s == AppointmentScheduled || s == AppointmentConfirmed
}

// ActiveAppointmentStatuses are the statuses covered by the slot-conflict rule.
var ActiveAppointmentStatuses = []AppointmentStatus{AppointmentScheduled, AppointmentConfirmed}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type AppointmentPrescription struct {
	Medications  []string `json:"medications" bson:"medications"`
	Instructions string   `json:"instructions,omitempty" bson:"instructions,omitempty"`
}

type AppointmentPayment struct {
	Amount float64 `json:"amount" bson:"amount"`
	Status string  `json:"status" bson:"status"`
	Method string  `json:"method,omitempty" bson:"method,omitempty"`
}

type Appointment struct {
	ID           primitive.ObjectID       `json:"id" bson:"_id,omitempty"`
	PatientID    primitive.ObjectID       `json:"patientId" bson:"patient"`
	DoctorID     primitive.ObjectID       `json:"doctorId" bson:"doctor"`
	Department   string                   `json:"department" bson:"department"`
	Date         string                   `json:"appointmentDate" bson:"appointmentDate"`
	Time         string                   `json:"appointmentTime" bson:"appointmentTime"`
	Status       AppointmentStatus        `json:"status" bson:"status"`
	Reason       string                   `json:"reason" bson:"reason"`
	Symptoms     []string                 `json:"symptoms" bson:"symptoms"`
	Priority     Priority                 `json:"priority" bson:"priority"`
	Notes        string                   `json:"notes,omitempty" bson:"notes,omitempty"`
	Prescription *AppointmentPrescription `json:"prescription,omitempty" bson:"prescription,omitempty"`
	Payment      *AppointmentPayment      `json:"payment,omitempty" bson:"payment,omitempty"`
	SlotHeld     bool                     `json:"-" bson:"slotHeld"`
	CreatedBy    primitive.ObjectID       `json:"createdBy" bson:"createdBy"`
	CreatedAt    time.Time                `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt" bson:"updatedAt"`
}

// SetStatus changes the status and recomputes whether the slot is held.
func (a *Appointment) SetStatus(s AppointmentStatus) {
	a.Status = s
	a.SlotHeld = s.HoldsSlot()
}

type AppointmentView struct {
	Appointment
	Doctor  *DoctorSummary  `json:"doctor,omitempty"`
	Patient *PatientSummary `json:"patient,omitempty"`
}
