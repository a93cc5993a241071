package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/middleware"
	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/services"
)

type DoctorController struct {
	doctors      *services.DoctorService
	appointments *services.AppointmentService
}

func Doctor(api *gin.RouterGroup, doctors *services.DoctorService, appointments *services.AppointmentService, authenticate gin.HandlerFunc) {
	h := &DoctorController{doctors: doctors, appointments: appointments}
	public := api.Group("/doctors")
	{
		public.GET("", h.List)
		public.GET("/:id", h.Get)
		public.GET("/:id/slots", h.Slots)
	}
	private := api.Group("/doctors", authenticate)
	{
		private.GET("/me", h.Me)
		private.PUT("/:id", middleware.Authorize(policy.Doctor, policy.Update), h.Update)
		private.PUT("/:id/availability", middleware.Authorize(policy.Doctor, policy.Update), h.UpdateAvailability)
	}
}

func (h *DoctorController) List(c *gin.Context) {
	var q services.DoctorQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.doctors.List(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *DoctorController) Get(c *gin.Context) {
	view, err := h.doctors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}

func (h *DoctorController) Me(c *gin.Context) {
	view, err := h.doctors.Me(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}

/*
* Get the doctor id from params and the date from the query
* Return the half-hour slots of that day
 */
func (h *DoctorController) Slots(c *gin.Context) {
	slots, err := h.appointments.AvailableSlots(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, slots)
}

func (h *DoctorController) Update(c *gin.Context) {
	var in services.UpdateDoctorInput
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.doctors.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}

func (h *DoctorController) UpdateAvailability(c *gin.Context) {
	var in models.WeeklyAvailability
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.doctors.UpdateAvailability(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}
