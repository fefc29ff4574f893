package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sijamu/backend/internal/api/middleware"
	"github.com/sijamu/backend/internal/services"
	"github.com/sijamu/backend/internal/util"
)

// ImportHandler handles spreadsheet preview and import.
type ImportHandler struct {
	service *services.ImportService
}

func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

func (h *ImportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/preview/:type", h.Preview)
	router.POST("/import/:type", h.Import)
}

// Preview returns the headers, the first rows and suggested column mapping
// of an uploaded workbook. Nothing is stored.
func (h *ImportHandler) Preview(c *gin.Context) {
	if _, found := caller(c); !found {
		return
	}
	cat, valid := category(c, c.Param("type"))
	if !valid {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "File tidak ditemukan")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "Gagal memproses file Excel")
		return
	}
	defer f.Close()

	preview, err := h.service.Preview(f, fh.Filename, cat)
	if err != nil {
		respondError(c, err, "Gagal memproses file Excel")
		return
	}
	ok(c, "", preview)
}

// Import stores every valid row and reports per-row errors.
func (h *ImportHandler) Import(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	cat, valid := category(c, c.Param("type"))
	if !valid {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "File tidak ditemukan")
		return
	}
	mapping, err := services.ParseMapping(c.PostForm("mapping"))
	if err != nil {
		respondError(c, err, "Format mapping tidak valid")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "Gagal import data")
		return
	}
	defer f.Close()

	middleware.GetRequestLogger(c).
		WithField("file", util.SanitizeForLog(fh.Filename)).
		WithField("category", cat).
		Debug("importing spreadsheet")

	result, err := h.service.Import(id, f, fh.Filename, cat, mapping)
	if err != nil {
		respondError(c, err, "Gagal import data")
		return
	}
	ok(c, services.ImportMessage(*result), result)
}
