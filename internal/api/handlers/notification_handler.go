package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sijamu/backend/internal/services"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", h.List)
	router.POST("/read-all", h.MarkAllAsRead)
	router.POST("/:id/read", h.MarkAsRead)
}

func (h *NotificationHandler) List(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	notifications, err := h.service.List(id.ID, c.Query("unread") == "true")
	if err != nil {
		respondError(c, err, "Gagal mengambil notifikasi")
		return
	}
	ok(c, "", notifications)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	if err := h.service.MarkAsRead(id.ID, c.Param("id")); err != nil {
		respondError(c, err, "Gagal menandai notifikasi")
		return
	}
	ok(c, "Notifikasi ditandai sudah dibaca", nil)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	if err := h.service.MarkAllAsRead(id.ID); err != nil {
		respondError(c, err, "Gagal menandai notifikasi")
		return
	}
	ok(c, "Semua notifikasi ditandai sudah dibaca", nil)
}
