package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/util"
)

type InvoiceItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64         `json:"unitPrice" binding:"gte=0"`
	ItemType    models.ItemType `json:"itemType"`
}

type CreateInvoiceInput struct {
	PatientID      string             `json:"patientId" binding:"required"`
	AppointmentID  string             `json:"appointmentId"`
	PrescriptionID string             `json:"prescriptionId"`
	Items          []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	Tax            float64            `json:"tax" binding:"gte=0"`
	Discount       float64            `json:"discount" binding:"gte=0"`
	PaymentMethod  string             `json:"paymentMethod"`
	DueDate        *time.Time         `json:"dueDate"`
	Notes          string             `json:"notes"`
}

type UpdateInvoiceInput struct {
	Items         []InvoiceItemInput `json:"items"`
	Tax           *float64           `json:"tax"`
	Discount      *float64           `json:"discount"`
	PaymentMethod *string            `json:"paymentMethod"`
	PaymentStatus *string            `json:"paymentStatus"`
	DueDate       *time.Time         `json:"dueDate"`
	Notes         *string            `json:"notes"`
}

type PaymentInput struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"paymentMethod"`
}

type InvoiceQuery struct {
	PatientID     string `form:"patientId"`
	PaymentStatus string `form:"paymentStatus"`
	models.Page
}

type InvoiceService struct {
	invoices InvoiceRepository
	counters CounterRepository
	patients PatientRepository
	log      *zap.Logger
}

func NewInvoiceService(invoices InvoiceRepository, counters CounterRepository, patients PatientRepository, log *zap.Logger) *InvoiceService {
	return &InvoiceService{invoices: invoices, counters: counters, patients: patients, log: log.Named("invoices")}
}

func buildItems(in []InvoiceItemInput) ([]models.InvoiceItem, error) {
	if len(in) == 0 {
		return nil, util.Validation(util.INVOICE_ITEMS_REQUIRED)
	}
	items := make([]models.InvoiceItem, 0, len(in))
	for _, it := range in {
		if strings.TrimSpace(it.Description) == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, util.Validation(util.INVALID_INVOICE_ITEM)
		}
		kind := it.ItemType
		if kind == "" {
			kind = models.ItemOther
		}
		if !kind.Valid() {
			return nil, util.Validation(util.INVALID_INVOICE_ITEM)
		}
		items = append(items, models.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			ItemType:    kind,
		})
	}
	return items, nil
}

func parseMethod(raw string) (models.PaymentMethod, error) {
	m := models.PaymentMethod(raw)
	if raw != "" && !m.Valid() {
		return "", util.Validation(util.INVALID_PAYMENT_METHOD)
	}
	return m, nil
}

func checkTotals(inv *models.Invoice) error {
	if inv.Tax < 0 || inv.Discount < 0 || inv.TotalAmount < 0 {
		return util.Validation(util.INVALID_INVOICE_TOTAL)
	}
	if inv.TotalAmount < inv.AmountPaid {
		return util.Validation(util.TOTAL_BELOW_PAID)
	}
	return nil
}

func (s *InvoiceService) nextNumber(ctx context.Context, at time.Time) (string, error) {
	seq, err := s.counters.Next(ctx, fmt.Sprintf("invoice-%d", at.Year()))
	if err != nil {
		s.log.Error("allocating invoice number failed", zap.Error(err))
		return "", err
	}
	return models.FormatInvoiceNumber(at.Year(), seq), nil
}

/*
* Check the caller may bill the patient and the patient exists
* Build the items, compute totals and reject a negative total
* Allocate the next number for the year from the counters collection
 */
func (s *InvoiceService) Create(ctx context.Context, p *policy.Principal, in CreateInvoiceInput) (*models.Invoice, error) {
	patientID, err := ParseID(in.PatientID)
	if err != nil {
		return nil, err
	}
	if !p.Can(policy.Invoice, policy.Create, policy.OwnedByPatient(patientID)) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	if _, err := s.patients.FindByID(ctx, patientID); err != nil {
		return nil, err
	}
	appointmentID, err := parseOptionalID(in.AppointmentID)
	if err != nil {
		return nil, err
	}
	prescriptionID, err := parseOptionalID(in.PrescriptionID)
	if err != nil {
		return nil, err
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	method, err := parseMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		PatientID:      patientID,
		AppointmentID:  appointmentID,
		PrescriptionID: prescriptionID,
		Items:          items,
		Tax:            in.Tax,
		Discount:       in.Discount,
		PaymentMethod:  method,
		PaymentStatus:  models.PaymentPending,
		DueDate:        in.DueDate,
		Notes:          in.Notes,
		CreatedBy:      p.UserID(),
	}
	inv.Recalculate()
	if err := checkTotals(inv); err != nil {
		return nil, err
	}

	number, err := s.nextNumber(ctx, clock())
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = number
	if err := s.invoices.Create(ctx, inv); err != nil {
		s.log.Error("creating invoice failed", zap.String("number", number), zap.Error(err))
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) load(ctx context.Context, p *policy.Principal, id string, act policy.Action) (*models.Invoice, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoices.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !p.Can(policy.Invoice, act, policy.OwnedByPatient(inv.PatientID)) {
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}
	return inv, nil
}

func (s *InvoiceService) Get(ctx context.Context, p *policy.Principal, id string) (*models.Invoice, error) {
	return s.load(ctx, p, id, policy.View)
}

func (s *InvoiceService) List(ctx context.Context, p *policy.Principal, q InvoiceQuery) (*Paged[models.Invoice], error) {
	requested, err := parseOptionalID(q.PatientID)
	if err != nil {
		return nil, err
	}
	status := models.PaymentStatus(q.PaymentStatus)
	if status != "" && !status.Valid() {
		return nil, util.Validation(util.INVALID_PAYMENT_STATUS)
	}
	f := models.InvoiceFilter{PatientID: requested, PaymentStatus: status, Page: q.Page}
	switch p.ScopeFor(policy.Invoice, policy.View) {
	case policy.ScopeAll:
	case policy.ScopeOwn:
		if p.PatientID == nil {
			return emptyPage[models.Invoice](q.Page), nil
		}
		f.PatientID = p.PatientID
	default:
		return nil, util.Forbidden(util.ACCESS_DENIED)
	}

	list, total, err := s.invoices.List(ctx, f)
	if err != nil {
		s.log.Error("listing invoices failed", zap.Error(err))
		return nil, err
	}
	return newPaged(list, total, q.Page), nil
}

/*
* A paid invoice cannot change, whatever the body
* Apply the fields and recompute totals when billing inputs changed
* The total never drops below what was paid; matching it settles the invoice
* An explicit Paid status settles the remaining balance
 */
func (s *InvoiceService) Update(ctx context.Context, p *policy.Principal, id string, in UpdateInvoiceInput) (*models.Invoice, error) {
	inv, err := s.load(ctx, p, id, policy.Update)
	if err != nil {
		return nil, err
	}
	if inv.PaymentStatus == models.PaymentPaid {
		return nil, util.Validation(util.INVOICE_PAID_UPDATE)
	}

	if in.Items != nil {
		items, err := buildItems(in.Items)
		if err != nil {
			return nil, err
		}
		inv.Items = items
	}
	if in.Tax != nil {
		inv.Tax = *in.Tax
	}
	if in.Discount != nil {
		inv.Discount = *in.Discount
	}
	inv.Recalculate()
	if err := checkTotals(inv); err != nil {
		return nil, err
	}
	if inv.AmountPaid > 0 && inv.Balance() == 0 {
		inv.ApplyPayment(0, clock())
	}
	if in.PaymentMethod != nil {
		method, err := parseMethod(*in.PaymentMethod)
		if err != nil {
			return nil, err
		}
		inv.PaymentMethod = method
	}
	if in.DueDate != nil {
		inv.DueDate = in.DueDate
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	if in.PaymentStatus != nil {
		status := models.PaymentStatus(*in.PaymentStatus)
		if !status.Valid() {
			return nil, util.Validation(util.INVALID_PAYMENT_STATUS)
		}
		if status == models.PaymentPaid {
			inv.ApplyPayment(inv.Balance(), clock())
		} else {
			inv.PaymentStatus = status
		}
	}

	if err := s.invoices.Update(ctx, inv); err != nil {
		s.log.Error("updating invoice failed", zap.String("number", inv.InvoiceNumber), zap.Error(err))
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) RecordPayment(ctx context.Context, p *policy.Principal, id string, in PaymentInput) (*models.Invoice, error) {
	inv, err := s.load(ctx, p, id, policy.Update)
	if err != nil {
		return nil, err
	}
	switch inv.PaymentStatus {
	case models.PaymentPaid:
		return nil, util.Validation(util.INVOICE_PAID_UPDATE)
	case models.PaymentCancelled:
		return nil, util.Validation(util.INVOICE_CANCELLED)
	}
	if in.Amount <= 0 {
		return nil, util.Validation(util.INVALID_PAYMENT_AMOUNT)
	}
	if in.Amount > inv.Balance() {
		return nil, util.Validation(util.PAYMENT_EXCEEDS_BALANCE)
	}
	if in.Method != "" {
		method, err := parseMethod(in.Method)
		if err != nil {
			return nil, err
		}
		inv.PaymentMethod = method
	}

	inv.ApplyPayment(in.Amount, clock())
	if err := s.invoices.Update(ctx, inv); err != nil {
		s.log.Error("recording payment failed", zap.String("number", inv.InvoiceNumber), zap.Error(err))
		return nil, err
	}
	s.log.Info("payment recorded", zap.String("number", inv.InvoiceNumber), zap.Float64("amount", in.Amount), zap.String("status", string(inv.PaymentStatus)))
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, p *policy.Principal, id string) error {
	inv, err := s.load(ctx, p, id, policy.Delete)
	if err != nil {
		return err
	}
	if inv.PaymentStatus == models.PaymentPaid {
		return util.Validation(util.INVOICE_PAID_DELETE)
	}
	if err := s.invoices.Delete(ctx, inv.ID); err != nil {
		s.log.Error("deleting invoice failed", zap.String("number", inv.InvoiceNumber), zap.Error(err))
		return err
	}
	return nil
}

// MarkOverdue flags open invoices whose due date has passed.
func (s *InvoiceService) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := s.invoices.MarkOverdue(ctx, clock())
	if err != nil {
		s.log.Error("marking overdue invoices failed", zap.Error(err))
		return 0, err
	}
	return n, nil
}
