package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/sijamu/backend/internal/logger"
	"github.com/sijamu/backend/internal/models"
)

const structureUploadDir = "struktur"

// StructureDocument is the public view of a StructureFile.
type StructureDocument struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"fileName"`
	FileURL   string    `json:"fileUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type StructureService struct {
	db    *gorm.DB
	files FileStore
}

func NewStructureService(db *gorm.DB, files FileStore) *StructureService {
	return &StructureService{db: db, files: files}
}

// Upload stores a new organisation-structure document.
func (s *StructureService) Upload(originalName string, r io.Reader) (*StructureDocument, error) {
	stored, err := s.files.Save(structureUploadDir, originalName, r)
	if err != nil {
		return nil, err
	}

	row := &models.StructureFile{NamaFile: originalName, FilePath: stored.Path}
	if err := s.db.Create(row).Error; err != nil {
		_ = s.files.Remove(stored.Path)
		return nil, fmt.Errorf("save structure file: %w", err)
	}
	return s.view(row), nil
}

// Latest returns the most recently uploaded document, or nil when there is none.
func (s *StructureService) Latest() (*StructureDocument, error) {
	var row models.StructureFile
	err := s.db.Order("created_at desc").Order("id desc").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.view(&row), nil
}

// Replace swaps the file behind id and makes it the latest document.
func (s *StructureService) Replace(id uint, originalName string, r io.Reader) (*StructureDocument, error) {
	row, err := s.get(id)
	if err != nil {
		return nil, err
	}

	stored, err := s.files.Save(structureUploadDir, originalName, r)
	if err != nil {
		return nil, err
	}
	oldPath := row.FilePath

	row.NamaFile = originalName
	row.FilePath = stored.Path
	row.CreatedAt = time.Now()
	if err := s.db.Save(row).Error; err != nil {
		_ = s.files.Remove(stored.Path)
		return nil, fmt.Errorf("update structure file: %w", err)
	}

	if err := s.files.Remove(oldPath); err != nil {
		logger.Log().WithError(err).WithField("path", oldPath).Warn("failed to remove replaced structure file")
	}
	return s.view(row), nil
}

// Delete removes the document and its file.
func (s *StructureService) Delete(id uint) error {
	row, err := s.get(id)
	if err != nil {
		return err
	}
	if err := s.files.Remove(row.FilePath); err != nil {
		return err
	}
	return s.db.Delete(&models.StructureFile{}, row.ID).Error
}

func (s *StructureService) get(id uint) (*models.StructureFile, error) {
	var row models.StructureFile
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userError(ErrNotFound, "File tidak ditemukan")
		}
		return nil, err
	}
	return &row, nil
}

func (s *StructureService) view(row *models.StructureFile) *StructureDocument {
	return &StructureDocument{
		ID:        row.ID,
		FileName:  row.NamaFile,
		FileURL:   s.files.URL(structureUploadDir, filepath.Base(row.FilePath)),
		CreatedAt: row.CreatedAt,
	}
}
