package controllers

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/middleware"
	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/services"
)

type MessageController struct {
	svc *services.MessageService
}

func Message(api *gin.RouterGroup, svc *services.MessageService, authenticate gin.HandlerFunc) {
	h := &MessageController{svc: svc}
	messages := api.Group("/messages", authenticate)
	{
		messages.POST("", middleware.Authorize(policy.Message, policy.Create), h.Send)
		messages.GET("/inbox", middleware.Authorize(policy.Message, policy.View), h.Inbox)
		messages.GET("/sent", middleware.Authorize(policy.Message, policy.View), h.Sent)
		messages.GET("/unread-count", middleware.Authorize(policy.Message, policy.View), h.UnreadCount)
		messages.GET("/:id", middleware.Authorize(policy.Message, policy.View), h.Get)
		messages.PUT("/:id/read", middleware.Authorize(policy.Message, policy.Update), h.MarkRead)
		messages.PUT("/:id/archive", middleware.Authorize(policy.Message, policy.Update), h.Archive)
		messages.DELETE("/:id", middleware.Authorize(policy.Message, policy.Delete), h.Delete)
	}
}

func (h *MessageController) Send(c *gin.Context) {
	var in services.SendMessageInput
	if !bindJSON(c, &in) {
		return
	}
	msg, err := h.svc.Send(c.Request.Context(), caller(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, msg)
}

func (h *MessageController) Inbox(c *gin.Context) {
	var page models.Page
	if !bindQuery(c, &page) {
		return
	}
	list, err := h.svc.Inbox(c.Request.Context(), caller(c), page)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *MessageController) Sent(c *gin.Context) {
	var page models.Page
	if !bindQuery(c, &page) {
		return
	}
	list, err := h.svc.Sent(c.Request.Context(), caller(c), page)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *MessageController) UnreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"unread": n})
}

func (h *MessageController) Get(c *gin.Context) {
	msg, err := h.svc.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, msg)
}

func (h *MessageController) MarkRead(c *gin.Context) {
	msg, err := h.svc.MarkRead(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, msg)
}

func (h *MessageController) Archive(c *gin.Context) {
	msg, err := h.svc.Archive(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, msg)
}

func (h *MessageController) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Message deleted"})
}
