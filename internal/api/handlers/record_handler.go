package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/sijamu/backend/internal/api/middleware"
	"github.com/sijamu/backend/internal/services"
)

// RecordHandler serves the quality-culture tables.
type RecordHandler struct {
	service *services.RecordService
	exports *services.ExportService
}

func NewRecordHandler(service *services.RecordService, exports *services.ExportService) *RecordHandler {
	return &RecordHandler{service: service, exports: exports}
}

func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", h.List)
	router.POST("", h.Create)
	router.GET("/distinct-prodi", h.DistinctPrograms)
	router.GET("/export", h.Export)
	router.POST("/draft", h.SaveDraft)
	router.PUT("/:id", h.Update)
	router.DELETE("/:id", h.Delete)
}

func (h *RecordHandler) List(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	cat, valid := category(c, c.Query("type"))
	if !valid {
		return
	}

	records, err := h.service.List(id, cat, c.Query("prodi"))
	if err != nil {
		respondError(c, err, "Gagal mengambil data")
		return
	}
	ok(c, "", records)
}

func (h *RecordHandler) DistinctPrograms(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	programs, err := h.service.DistinctPrograms(id)
	if err != nil {
		respondError(c, err, "Gagal mengambil daftar prodi")
		return
	}
	ok(c, "", programs)
}

func (h *RecordHandler) Create(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	var in services.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Format data tidak valid")
		return
	}

	rec, err := h.service.Create(id, in)
	if err != nil {
		respondError(c, err, "Gagal menyimpan data")
		return
	}
	c.JSON(http.StatusCreated, envelope{Success: true, Message: "Data berhasil disimpan", Data: rec})
}

func (h *RecordHandler) Update(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	recordID, valid := idParam(c)
	if !valid {
		return
	}
	var in services.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Format data tidak valid")
		return
	}

	rec, err := h.service.Update(id, recordID, in)
	if err != nil {
		respondError(c, err, "Gagal mengubah data")
		return
	}
	ok(c, "Data berhasil diubah", rec)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	recordID, valid := idParam(c)
	if !valid {
		return
	}

	if err := h.service.Delete(id, recordID); err != nil {
		respondError(c, err, "Gagal menghapus data")
		return
	}
	ok(c, "Data berhasil dihapus", nil)
}

func (h *RecordHandler) SaveDraft(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	var in services.DraftInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Nama, path, status, type, dan data tidak boleh kosong")
		return
	}

	result, err := h.service.SaveDraft(id, in)
	if err != nil {
		respondError(c, err, "Gagal menyimpan draft")
		return
	}
	ok(c, "Draft berhasil disimpan", result)
}

// Export downloads the caller-visible records of a category as xlsx.
func (h *RecordHandler) Export(c *gin.Context) {
	id, found := caller(c)
	if !found {
		return
	}
	cat, valid := category(c, c.Query("type"))
	if !valid {
		return
	}

	file, err := h.exports.ExportRecords(id, cat, c.Query("prodi"))
	if err != nil {
		respondError(c, err, "Gagal export data")
		return
	}
	sendAndRemove(c, file)
}

// sendAndRemove streams an export as an attachment and deletes it.
func sendAndRemove(c *gin.Context, file *services.ExportFile) {
	defer func() {
		if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
			middleware.GetRequestLogger(c).WithError(err).WithField("file", file.Name).Warn("failed to remove export file")
		}
	}()
	c.FileAttachment(file.Path, file.Name)
}
