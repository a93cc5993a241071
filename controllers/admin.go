package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/middleware"
	"HospitalCare/policy"
	"HospitalCare/services"
)

type AdminController struct {
	svc *services.AdminService
}

func Admin(api *gin.RouterGroup, svc *services.AdminService, authenticate gin.HandlerFunc) {
	h := &AdminController{svc: svc}
	admin := api.Group("/admin", authenticate)
	{
		admin.GET("/users", middleware.Authorize(policy.User, policy.View), h.ListUsers)
		admin.PUT("/users/:id/status", middleware.Authorize(policy.User, policy.Update), h.SetUserStatus)
		admin.DELETE("/users/:id", middleware.Authorize(policy.User, policy.Delete), h.DeleteUser)
		admin.GET("/stats", middleware.Authorize(policy.Stats, policy.View), h.Stats)
	}
	analytics := api.Group("/analytics", authenticate, middleware.Authorize(policy.Stats, policy.View))
	{
		analytics.GET("/appointments", h.AppointmentAnalytics)
	}
}

func (h *AdminController) ListUsers(c *gin.Context) {
	var q services.UserQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.svc.ListUsers(c.Request.Context(), caller(c), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, page)
}

func (h *AdminController) SetUserStatus(c *gin.Context) {
	var in services.UserStatusInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.svc.SetUserStatus(c.Request.Context(), caller(c), c.Param("id"), in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}

/*
* Remove the account
* The service also drops the role profile it owned
 */
func (h *AdminController) DeleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "User deleted"})
}

func (h *AdminController) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, stats)
}

func (h *AdminController) AppointmentAnalytics(c *gin.Context) {
	var q services.AnalyticsQuery
	if !bindQuery(c, &q) {
		return
	}
	report, err := h.svc.AppointmentAnalytics(c.Request.Context(), caller(c), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, report)
}
