package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/services"
	"HospitalCare/util"
)

type AuthController struct {
	svc *services.AuthService
}

func Auth(api *gin.RouterGroup, svc *services.AuthService, authenticate, limit gin.HandlerFunc) {
	h := &AuthController{svc: svc}
	auth := api.Group("/auth", limit)
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/bootstrap-admin", h.BootstrapAdmin)
		auth.GET("/me", authenticate, h.Me)
		auth.PUT("/password", authenticate, h.ChangePassword)
	}
}

/*
* Bind the registration fields
* Pass to the service and answer 201 with the token
 */
func (h *AuthController) Register(c *gin.Context) {
	var in services.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, res)
}

func (h *AuthController) Login(c *gin.Context) {
	var in services.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

// BootstrapAdmin answers 201 when it created the admin and 200 otherwise.
func (h *AuthController) BootstrapAdmin(c *gin.Context) {
	var in services.BootstrapAdminInput
	if !bindJSON(c, &in) {
		return
	}
	user, made, err := h.svc.BootstrapAdmin(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	if !made {
		ok(c, gin.H{"message": util.ADMIN_ALREADY_EXISTS})
		return
	}
	created(c, user)
}

func (h *AuthController) Me(c *gin.Context) {
	profile, err := h.svc.Me(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, profile)
}

func (h *AuthController) ChangePassword(c *gin.Context) {
	var in services.ChangePasswordInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), caller(c), in); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Password updated"})
}
