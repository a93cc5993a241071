package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/middleware"
	"HospitalCare/policy"
	"HospitalCare/services"
)

type AppointmentController struct {
	svc *services.AppointmentService
}

func Appointment(api *gin.RouterGroup, svc *services.AppointmentService, authenticate gin.HandlerFunc) {
	h := &AppointmentController{svc: svc}
	appointments := api.Group("/appointments", authenticate)
	{
		appointments.POST("", middleware.Authorize(policy.Appointment, policy.Create), h.Create)
		appointments.GET("", middleware.Authorize(policy.Appointment, policy.View), h.List)
		appointments.GET("/:id", middleware.Authorize(policy.Appointment, policy.View), h.Get)
		appointments.PUT("/:id", middleware.Authorize(policy.Appointment, policy.Update), h.Update)
		appointments.DELETE("/:id", middleware.Authorize(policy.Appointment, policy.Delete), h.Delete)
	}
}

/*
* Bind JSON
* And pass to the service with the caller
 */
func (h *AppointmentController) Create(c *gin.Context) {
	var in services.CreateAppointmentInput
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.svc.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, view)
}

func (h *AppointmentController) List(c *gin.Context) {
	var q services.AppointmentQuery
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

func (h *AppointmentController) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}

/*
* Get the id from params
* Bind the changed fields
* Pass to the service
 */
func (h *AppointmentController) Update(c *gin.Context) {
	var in services.UpdateAppointmentInput
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

func (h *AppointmentController) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Appointment deleted"})
}
