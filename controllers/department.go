package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/middleware"
	"HospitalCare/policy"
	"HospitalCare/services"
)

type DepartmentController struct {
	svc *services.DepartmentService
}

func Department(api *gin.RouterGroup, svc *services.DepartmentService, authenticate gin.HandlerFunc) {
	h := &DepartmentController{svc: svc}
	departments := api.Group("/departments")
	{
		departments.GET("", h.List)
		departments.GET("/:id", h.Get)
		departments.POST("", authenticate, middleware.Authorize(policy.Department, policy.Create), h.Create)
		departments.PUT("/:id", authenticate, middleware.Authorize(policy.Department, policy.Update), h.Update)
		departments.DELETE("/:id", authenticate, middleware.Authorize(policy.Department, policy.Delete), h.Delete)
	}
}

func (h *DepartmentController) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *DepartmentController) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *DepartmentController) Create(c *gin.Context) {
	var in services.DepartmentInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := h.svc.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, d)
}

func (h *DepartmentController) Update(c *gin.Context) {
	var in services.DepartmentInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := h.svc.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *DepartmentController) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Department deleted"})
}
