package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sijamu/backend/internal/services"
)

// AccreditationHandler serves the grouped evidence view and its exports.
type AccreditationHandler struct {
	evidence *services.EvidenceService
	exports  *services.ExportService
}

func NewAccreditationHandler(evidence *services.EvidenceService, exports *services.ExportService) *AccreditationHandler {
	return &AccreditationHandler{evidence: evidence, exports: exports}
}

func (h *AccreditationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", h.Stats)
	router.GET("/items", h.Items)
	router.POST("/export", h.Export)
	router.POST("/upload", h.Upload)
	router.GET("/templates", h.Templates)
}

func (h *AccreditationHandler) Stats(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	stats, err := h.evidence.Stats(id)
	if err != nil {
		respondError(c, err, "Gagal mengambil statistik")
		return
	}
	ok(c, "", stats)
}

func (h *AccreditationHandler) Items(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	groups, err := h.evidence.Items(id)
	if err != nil {
		respondError(c, err, "Gagal mengambil data")
		return
	}
	ok(c, "", groups)
}

// Export downloads the selected sections as xlsx or pdf.
func (h *AccreditationHandler) Export(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	var req services.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Format permintaan export tidak valid")
		return
	}

	file, err := h.exports.ExportAccreditation(id, req)
	if err != nil {
		respondError(c, err, "Gagal export data")
		return
	}
	sendAndRemove(c, file)
}

func (h *AccreditationHandler) Upload(c *gin.Context) {
	if _, found := caller(c); !found {
		return
	}
	fh, err := c.FormFile("document")
	if err != nil {
		fail(c, http.StatusBadRequest, "Tidak ada file yang diupload")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "Gagal upload file")
		return
	}
	defer f.Close()

	stored, err := h.evidence.UploadDocument(fh.Filename, f)
	if err != nil {
		respondError(c, err, "Gagal upload file")
		return
	}
	ok(c, "File berhasil diupload", gin.H{"file": stored.Name, "fileUrl": stored.URL})
}

func (h *AccreditationHandler) Templates(c *gin.Context) {
	ok(c, "", h.evidence.Templates())
}
