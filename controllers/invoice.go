package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/middleware"
	"HospitalCare/policy"
	"HospitalCare/services"
)

type InvoiceController struct {
	svc *services.InvoiceService
}

func Invoice(api *gin.RouterGroup, svc *services.InvoiceService, authenticate gin.HandlerFunc) {
	h := &InvoiceController{svc: svc}
	invoices := api.Group("/invoices", authenticate)
	{
		invoices.POST("", middleware.Authorize(policy.Invoice, policy.Create), h.Create)
		invoices.GET("", middleware.Authorize(policy.Invoice, policy.View), h.List)
		invoices.GET("/:id", middleware.Authorize(policy.Invoice, policy.View), h.Get)
		invoices.PUT("/:id", middleware.Authorize(policy.Invoice, policy.Update), h.Update)
		invoices.POST("/:id/payments", middleware.Authorize(policy.Invoice, policy.Update), h.RecordPayment)
		invoices.DELETE("/:id", middleware.Authorize(policy.Invoice, policy.Delete), h.Delete)
	}
}

/*
* Bind the line items
* The service numbers the invoice and computes the totals
 */
func (h *InvoiceController) Create(c *gin.Context) {
	var in services.CreateInvoiceInput
	if !bindJSON(c, &in) {
		return
	}
	inv, err := h.svc.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, inv)
}

func (h *InvoiceController) List(c *gin.Context) {
	var q services.InvoiceQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.List(c.Request.Context(), caller(c), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, page)
}

func (h *InvoiceController) Get(c *gin.Context) {
	inv, err := h.svc.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, inv)
}

func (h *InvoiceController) Update(c *gin.Context) {
	var in services.UpdateInvoiceInput
	if !bindJSON(c, &in) {
		return
	}
	inv, err := h.svc.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, inv)
}

func (h *InvoiceController) RecordPayment(c *gin.Context) {
	var in services.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	inv, err := h.svc.RecordPayment(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, inv)
}

func (h *InvoiceController) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Invoice deleted"})
}
