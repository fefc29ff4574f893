package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sijamu/backend/internal/api/middleware"
	"github.com/sijamu/backend/internal/models"
	"github.com/sijamu/backend/internal/services"
)

// envelope is the body of every JSON response except downloads.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

// respondError maps service errors onto statuses. Unexpected errors become a
// 500 carrying fallback and the raw error text.
func respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrAuthenticationMissing):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrMissingProgram), errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		middleware.GetRequestLogger(c).WithError(err).Error(fallback)
		c.JSON(status, envelope{Success: false, Message: fallback, Error: err.Error()})
		return
	}
	fail(c, status, services.UserMessage(err, fallback))
}

// caller returns the authenticated identity or answers 401.
func caller(c *gin.Context) (models.Identity, bool) {
	id, found := middleware.CurrentIdentity(c)
	if !found {
		fail(c, http.StatusUnauthorized, "User tidak terautentikasi")
		return models.Identity{}, false
	}
	return id, true
}

// category parses a category from a route or query value or answers 400.
func category(c *gin.Context, raw string) (models.Category, bool) {
	cat, valid := models.ParseCategory(raw)
	if !valid {
		fail(c, http.StatusBadRequest, "Tipe data tidak valid")
		return "", false
	}
	return cat, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "ID tidak valid")
		return 0, false
	}
	return uint(id), true
}
