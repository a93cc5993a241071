package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/middleware"
	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/services"
)

type PatientController struct {
	svc *services.PatientService
}

func Patient(api *gin.RouterGroup, svc *services.PatientService, authenticate gin.HandlerFunc) {
	h := &PatientController{svc: svc}
	patients := api.Group("/patients", authenticate)
	{
		patients.GET("", middleware.Authorize(policy.Patient, policy.View), h.List)
		patients.GET("/me", h.Me)
		patients.GET("/:id", middleware.Authorize(policy.Patient, policy.View), h.Get)
		patients.PUT("/:id", middleware.Authorize(policy.Patient, policy.Update), h.Update)
	}
}

func (h *PatientController) List(c *gin.Context) {
	var page models.Page
	if !bindQuery(c, &page) {
		return
	}
	list, err := h.svc.List(c.Request.Context(), caller(c), page)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *PatientController) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}

func (h *PatientController) Me(c *gin.Context) {
	view, err := h.svc.Me(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}

func (h *PatientController) Update(c *gin.Context) {
	var in services.UpdatePatientInput
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.svc.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}
