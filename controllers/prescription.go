package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/middleware"
	"HospitalCare/policy"
	"HospitalCare/services"
)

type PrescriptionController struct {
	svc *services.PrescriptionService
}

func Prescription(api *gin.RouterGroup, svc *services.PrescriptionService, authenticate gin.HandlerFunc) {
	h := &PrescriptionController{svc: svc}
	prescriptions := api.Group("/prescriptions", authenticate)
	{
		prescriptions.POST("", middleware.Authorize(policy.Prescription, policy.Create), h.Create)
		prescriptions.GET("", middleware.Authorize(policy.Prescription, policy.View), h.List)
		prescriptions.GET("/:id", middleware.Authorize(policy.Prescription, policy.View), h.Get)
		prescriptions.PUT("/:id", middleware.Authorize(policy.Prescription, policy.Update), h.Update)
		prescriptions.DELETE("/:id", middleware.Authorize(policy.Prescription, policy.Delete), h.Delete)
	}
}

/*
* Bind the prescription
* The service ties it to the calling doctor
 */
func (h *PrescriptionController) Create(c *gin.Context) {
	var in services.CreatePrescriptionInput
	if !bindJSON(c, &in) {
		return
	}
	rx, err := h.svc.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, rx)
}

func (h *PrescriptionController) List(c *gin.Context) {
	var q services.RecordQuery
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

func (h *PrescriptionController) Get(c *gin.Context) {
	rx, err := h.svc.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rx)
}

func (h *PrescriptionController) Update(c *gin.Context) {
	var in services.UpdatePrescriptionInput
	if !bindJSON(c, &in) {
		return
	}
	rx, err := h.svc.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rx)
}

func (h *PrescriptionController) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Prescription deleted"})
}
