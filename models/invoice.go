package models

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentPartial   PaymentStatus = "Partial"
	PaymentPaid      PaymentStatus = "Paid"
	PaymentOverdue   PaymentStatus = "Overdue"
	PaymentCancelled PaymentStatus = "Cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentOverdue, PaymentCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodCard         PaymentMethod = "Card"
	MethodInsurance    PaymentMethod = "Insurance"
	MethodBankTransfer PaymentMethod = "BankTransfer"
	MethodOnline       PaymentMethod = "Online"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodInsurance, MethodBankTransfer, MethodOnline:
		return true
	}
	return false
}

type ItemType string

const (
	ItemConsultation ItemType = "Consultation"
	ItemMedication   ItemType = "Medication"
	ItemLabTest      ItemType = "LabTest"
	ItemProcedure    ItemType = "Procedure"
	ItemRoom         ItemType = "Room"
	ItemOther        ItemType = "Other"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemConsultation, ItemMedication, ItemLabTest, ItemProcedure, ItemRoom, ItemOther:
		return true
	}
	return false
}

type InvoiceItem struct {
	Description string   `json:"description" bson:"description"`
	Quantity    int      `json:"quantity" bson:"quantity"`
	UnitPrice   float64  `json:"unitPrice" bson:"unitPrice"`
	Amount      float64  `json:"amount" bson:"amount"`
	ItemType    ItemType `json:"itemType" bson:"itemType"`
}

type Invoice struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	InvoiceNumber  string              `json:"invoiceNumber" bson:"invoiceNumber"`
	PatientID      primitive.ObjectID  `json:"patientId" bson:"patient"`
	AppointmentID  *primitive.ObjectID `json:"appointmentId,omitempty" bson:"appointment,omitempty"`
	PrescriptionID *primitive.ObjectID `json:"prescriptionId,omitempty" bson:"prescription,omitempty"`
	Items          []InvoiceItem       `json:"items" bson:"items"`
	Subtotal       float64             `json:"subtotal" bson:"subtotal"`
	Tax            float64             `json:"tax" bson:"tax"`
	Discount       float64             `json:"discount" bson:"discount"`
	TotalAmount    float64             `json:"totalAmount" bson:"totalAmount"`
	AmountPaid     float64             `json:"amountPaid" bson:"amountPaid"`
	PaymentMethod  PaymentMethod       `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	PaymentStatus  PaymentStatus       `json:"paymentStatus" bson:"paymentStatus"`
	DueDate        *time.Time          `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	PaidAt         *time.Time          `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	Notes          string              `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy      primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Recalculate derives item amounts, subtotal and total from the line
// items, tax and discount.
func (inv *Invoice) Recalculate() {
	subtotal := 0.0
	for i := range inv.Items {
		inv.Items[i].Amount = roundCents(float64(inv.Items[i].Quantity) * inv.Items[i].UnitPrice)
		subtotal += inv.Items[i].Amount
	}
	inv.Subtotal = roundCents(subtotal)
	inv.TotalAmount = roundCents(inv.Subtotal + inv.Tax - inv.Discount)
}

func (inv *Invoice) Balance() float64 {
	return roundCents(inv.TotalAmount - inv.AmountPaid)
}

// ApplyPayment adds amount to what has been paid and moves the status to
// Partial or Paid.
func (inv *Invoice) ApplyPayment(amount float64, at time.Time) {
	inv.AmountPaid = roundCents(inv.AmountPaid + amount)
	if inv.AmountPaid >= inv.TotalAmount {
		inv.PaymentStatus = PaymentPaid
		inv.PaidAt = &at
		return
	}
	inv.PaymentStatus = PaymentPartial
}

func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%05d", year, seq)
}
