package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sijamu/backend/internal/metrics"
	"github.com/sijamu/backend/internal/models"
)

// RecordInput is the body of a manual create or edit.
type RecordInput struct {
	Type  string          `json:"type"`
	Prodi string          `json:"prodi"`
	Data  json.RawMessage `json:"data"`
}

// DraftInput is the body of a draft save: the table content plus the
// evidence reference that tracks its completeness.
type DraftInput struct {
	Nama        string          `json:"nama"`
	Path        string          `json:"path"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	CurrentData json.RawMessage `json:"currentData"`
}

// DraftResult holds both rows written by a draft save.
type DraftResult struct {
	Draft    *models.Record            `json:"budayaMutuDraft"`
	Evidence *models.EvidenceReference `json:"buktiPendukungReference"`
}

type RecordService struct {
	db *gorm.DB
}

func NewRecordService(db *gorm.DB) *RecordService {
	return &RecordService{db: db}
}

// List returns the caller-visible records of a category ordered by id.
func (s *RecordService) List(id models.Identity, category models.Category, requestedProgram string) ([]models.Record, error) {
	scope, err := BuildScope(id, category, requestedProgram)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	if err := scope.Apply(s.db.Model(&models.Record{})).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// DistinctPrograms lists the programs the caller can filter by. tim
// akreditasi gets every program with data; other roles get at most their own.
func (s *RecordService) DistinctPrograms(id models.Identity) ([]string, error) {
	q := s.db.Model(&models.Record{}).Where("prodi <> ?", "")
	if id.NormalizedRole() != models.RoleTimAkreditasi {
		if !id.HasProgram() {
			return []string{}, nil
		}
		q = q.Where("prodi = ?", id.Prodi)
	}

	programs := []string{}
	if err := q.Distinct().Order("prodi asc").Pluck("prodi", &programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

// Create stores a manually entered record owned by the caller.
func (s *RecordService) Create(id models.Identity, in RecordInput) (*models.Record, error) {
	category, ok := models.ParseCategory(in.Type)
	if !ok {
		return nil, userError(ErrValidation, "Tipe data tidak dikenal")
	}

	program, err := writeProgram(id, in.Prodi)
	if err != nil {
		return nil, err
	}

	data, err := normalizePayload(in.Data)
	if err != nil {
		return nil, err
	}

	rec := &models.Record{
		UserID: id.ID,
		Prodi:  program,
		Type:   category,
		Data:   data,
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Update edits a record in place. Concurrent edits are last-write-wins.
func (s *RecordService) Update(id models.Identity, recordID uint, in RecordInput) (*models.Record, error) {
	rec, err := s.get(recordID)
	if err != nil {
		return nil, err
	}
	if !canModify(id, rec) {
		return nil, userError(ErrForbidden, "Anda tidak memiliki akses untuk mengubah data ini")
	}

	if strings.TrimSpace(in.Type) != "" {
		category, ok := models.ParseCategory(in.Type)
		if !ok {
			return nil, userError(ErrValidation, "Tipe data tidak dikenal")
		}
		rec.Type = category
	}

	if program := strings.TrimSpace(in.Prodi); program != "" && program != rec.Prodi {
		if id.NormalizedRole() != models.RoleP4M && program != id.Prodi {
			return nil, userError(ErrForbidden, "Tidak dapat memindahkan data ke prodi lain")
		}
		rec.Prodi = program
	}

	data, err := normalizePayload(in.Data)
	if err != nil {
		return nil, err
	}
	rec.Data = data
	rec.UpdatedAt = time.Now()

	if err := s.db.Save(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record the caller owns or administers.
func (s *RecordService) Delete(id models.Identity, recordID uint) error {
	rec, err := s.get(recordID)
	if err != nil {
		return err
	}
	if !canModify(id, rec) {
		return userError(ErrForbidden, "Anda tidak memiliki akses untuk menghapus data ini")
	}
	return s.db.Delete(&models.Record{}, rec.ID).Error
}

// SaveDraft upserts the caller's draft for a category, keyed by
// owner+program+category, and upserts the evidence reference keyed by
// owner+path. Both writes share one transaction.
func (s *RecordService) SaveDraft(id models.Identity, in DraftInput) (*DraftResult, error) {
	if strings.TrimSpace(in.Nama) == "" || strings.TrimSpace(in.Path) == "" ||
		strings.TrimSpace(in.Status) == "" || strings.TrimSpace(in.Type) == "" || isEmptyJSON(in.CurrentData) {
		return nil, userError(ErrValidation, "Nama, path, status, type, dan data tidak boleh kosong")
	}
	if id.ID == 0 {
		return nil, userError(ErrAuthenticationMissing, "User tidak terautentikasi")
	}
	if !id.HasProgram() {
		metrics.IncScopeDenied()
		return nil, userError(ErrMissingProgram, msgMissingProgram)
	}
	category, ok := models.ParseCategory(in.Type)
	if !ok {
		return nil, userError(ErrValidation, "Tipe data tidak dikenal")
	}
	if !json.Valid(in.CurrentData) {
		return nil, userError(ErrValidation, "Format data tidak valid")
	}

	result := &DraftResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var draft models.Record
		err := tx.Where("user_id = ? AND prodi = ? AND type = ?", id.ID, id.Prodi, category).
			Order("id asc").First(&draft).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			draft = models.Record{
				UserID: id.ID,
				Prodi:  id.Prodi,
				Type:   category,
				Data:   datatypes.JSON(in.CurrentData),
			}
			if err := tx.Create(&draft).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			draft.Data = datatypes.JSON(in.CurrentData)
			draft.UpdatedAt = time.Now()
			if err := tx.Save(&draft).Error; err != nil {
				return err
			}
		}
		result.Draft = &draft

		ref, err := upsertEvidence(tx, id.ID, in.Nama, in.Path, in.Status)
		if err != nil {
			return err
		}
		result.Evidence = ref
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *RecordService) get(recordID uint) (*models.Record, error) {
	var rec models.Record
	if err := s.db.First(&rec, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userError(ErrNotFound, "Data tidak ditemukan")
		}
		return nil, err
	}
	return &rec, nil
}

// writeProgram resolves the program a new record is filed under: the
// requested program, else the caller's. Restricted roles need a program of
// their own either way.
func writeProgram(id models.Identity, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if id.NormalizedRole() != models.RoleP4M && !id.HasProgram() {
		metrics.IncScopeDenied()
		return "", userError(ErrMissingProgram, msgMissingProgram)
	}
	if requested != "" {
		return requested, nil
	}
	if id.HasProgram() {
		return id.Prodi, nil
	}
	return "", userError(ErrValidation, "Prodi tidak ditemukan")
}

// NormalizeValue trims strings and turns empty values into nil.
func NormalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil
		}
		return trimmed
	default:
		return v
	}
}

// NormalizeRow applies NormalizeValue to every value of row.
func NormalizeRow(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = NormalizeValue(v)
	}
	return out
}

// normalizePayload accepts a JSON object or an array of objects and
// normalizes every value. A missing payload becomes an empty object.
func normalizePayload(raw json.RawMessage) (datatypes.JSON, error) {
	if isEmptyJSON(raw) {
		return datatypes.JSON("{}"), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, userError(ErrValidation, "Format data tidak valid")
	}

	var normalized interface{}
	switch val := decoded.(type) {
	case map[string]interface{}:
		normalized = NormalizeRow(val)
	case []interface{}:
		items := make([]interface{}, 0, len(val))
		for _, item := range val {
			obj, ok := item.(map[string]interface{})
			if !ok {
				return nil, userError(ErrValidation, "Format data tidak valid")
			}
			items = append(items, NormalizeRow(obj))
		}
		normalized = items
	default:
		return nil, userError(ErrValidation, "Format data tidak valid")
	}

	out, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return datatypes.JSON(out), nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
