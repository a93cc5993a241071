package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/middleware"
	"HospitalCare/policy"
	"HospitalCare/services"
)

type MedicalRecordController struct {
	svc *services.MedicalRecordService
}

func MedicalRecord(api *gin.RouterGroup, svc *services.MedicalRecordService, authenticate gin.HandlerFunc) {
	h := &MedicalRecordController{svc: svc}
	records := api.Group("/medical-records", authenticate)
	{
		records.POST("", middleware.Authorize(policy.MedicalRecord, policy.Create), h.Create)
		records.GET("", middleware.Authorize(policy.MedicalRecord, policy.View), h.List)
		records.GET("/:id", middleware.Authorize(policy.MedicalRecord, policy.View), h.Get)
		records.PUT("/:id", middleware.Authorize(policy.MedicalRecord, policy.Update), h.Update)
		records.DELETE("/:id", middleware.Authorize(policy.MedicalRecord, policy.Delete), h.Delete)
	}
}

func (h *MedicalRecordController) Create(c *gin.Context) {
	var in services.CreateMedicalRecordInput
	if !bindJSON(c, &in) {
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, rec)
}

func (h *MedicalRecordController) List(c *gin.Context) {
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

func (h *MedicalRecordController) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rec)
}

func (h *MedicalRecordController) Update(c *gin.Context) {
	var in services.UpdateMedicalRecordInput
	if !bindJSON(c, &in) {
		return
	}
	rec, err := h.svc.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rec)
}

func (h *MedicalRecordController) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Medical record deleted"})
}
