package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceTotals(t *testing.T) {
	inv := &Invoice{
		Items: []InvoiceItem{
			{Description: "Consultation", Quantity: 1, UnitPrice: 150},
			{Description: "Syringe", Quantity: 3, UnitPrice: 0.35},
		},
		Tax:      10.5,
		Discount: 20,
	}
	inv.Recalculate()
	assert.Equal(t, 1.05, inv.Items[1].Amount)
	assert.Equal(t, 151.05, inv.Subtotal)
	assert.Equal(t, 141.55, inv.TotalAmount)
	assert.Equal(t, 141.55, inv.Balance())

	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	inv.ApplyPayment(100, at)
	assert.Equal(t, PaymentPartial, inv.PaymentStatus)
	assert.Nil(t, inv.PaidAt)
	assert.Equal(t, 41.55, inv.Balance())

	inv.ApplyPayment(41.55, at)
	assert.Equal(t, PaymentPaid, inv.PaymentStatus)
	assert.Equal(t, &at, inv.PaidAt)
	assert.Zero(t, inv.Balance())
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2024-00001", FormatInvoiceNumber(2024, 1))
	assert.Equal(t, "INV-2025-12345", FormatInvoiceNumber(2025, 12345))
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, AppointmentConfirmed.HoldsSlot())
	assert.False(t, AppointmentCancelled.HoldsSlot())
	assert.False(t, AppointmentStatus("pending").Valid())

	assert.True(t, PrescriptionDispensed.Locked())
	assert.True(t, PrescriptionCompleted.Locked())
	assert.False(t, PrescriptionCancelled.Locked())

	assert.True(t, MessageAnnouncement.Broadcast())
	assert.False(t, MessageDirect.Broadcast())

	assert.True(t, ValidBloodGroup(""))
	assert.True(t, ValidBloodGroup("AB+"))
	assert.False(t, ValidBloodGroup("A"))
}

func TestUserStatus(t *testing.T) {
	u := &User{}
	u.SetStatus(UserActive)
	assert.True(t, u.CanLogin())
	u.SetStatus(UserSuspended)
	assert.False(t, u.Active)
	assert.False(t, u.CanLogin())
	assert.Nil(t, (*User)(nil).Summary())
}

func TestAvailabilityForWeekday(t *testing.T) {
	week := DefaultAvailability()
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, DayAvailability{Available: true, Start: "09:00", End: "17:00"}, week.For(monday))
	assert.False(t, week.For(sunday).Available)
	assert.Len(t, week, 7)
}
