package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sijamu/backend/internal/services"
)

// StructureHandler manages the organisation-structure document.
type StructureHandler struct {
	service *services.StructureService
}

func NewStructureHandler(service *services.StructureService) *StructureHandler {
	return &StructureHandler{service: service}
}

func (h *StructureHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/struktur", h.Upload)
	router.GET("/struktur", h.Latest)
	router.PUT("/struktur/:id", h.Replace)
	router.DELETE("/struktur/:id", h.Delete)
}

func (h *StructureHandler) Upload(c *gin.Context) {
	if _, found := caller(c); !found {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "Tidak ada file diunggah")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "Gagal upload file")
		return
	}
	defer f.Close()

	doc, err := h.service.Upload(fh.Filename, f)
	if err != nil {
		respondError(c, err, "Gagal upload file")
		return
	}
	ok(c, "File berhasil diupload", gin.H{"fileId": doc.ID, "fileName": doc.FileName, "fileUrl": doc.FileURL})
}

func (h *StructureHandler) Latest(c *gin.Context) {
	doc, err := h.service.Latest()
	if err != nil {
		respondError(c, err, "Gagal mengambil file")
		return
	}
	ok(c, "", gin.H{"file": doc})
}

func (h *StructureHandler) Replace(c *gin.Context) {
	if _, found := caller(c); !found {
		return
	}
	id, valid := idParam(c)
	if !valid {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "Tidak ada file diunggah")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "Gagal update file")
		return
	}
	defer f.Close()

	doc, err := h.service.Replace(id, fh.Filename, f)
	if err != nil {
		respondError(c, err, "Gagal update file")
		return
	}
	ok(c, "File berhasil diupdate", gin.H{"fileName": doc.FileName, "fileUrl": doc.FileURL})
}

func (h *StructureHandler) Delete(c *gin.Context) {
	if _, found := caller(c); !found {
		return
	}
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := h.service.Delete(id); err != nil {
		respondError(c, err, "Gagal menghapus file")
		return
	}
	ok(c, "File berhasil dihapus", nil)
}
