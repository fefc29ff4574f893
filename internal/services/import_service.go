package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sirupsen/logrus"

	"github.com/sijamu/backend/internal/logger"
	"github.com/sijamu/backend/internal/metrics"
	"github.com/sijamu/backend/internal/models"
	"github.com/sijamu/backend/internal/spreadsheet"
)

const (
	maxReportedRowErrors = 10
	previewRows          = 5

	// programField is the mapping key that selects the per-row program column.
	programField = "prodi"
)

// Mapping maps a field key to the spreadsheet header holding its value.
type Mapping map[string]string

// ParseMapping decodes the mapping form value. An empty value is an empty mapping.
func ParseMapping(raw string) (Mapping, error) {
	mapping := Mapping{}
	if strings.TrimSpace(raw) == "" {
		return mapping, nil
	}
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, userError(ErrValidation, "Format mapping tidak valid")
	}
	return mapping, nil
}

// RowError reports why one spreadsheet row was not imported. Row is 1-based
// over the data rows.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult summarizes an import. Errors holds at most the first ten row
// errors; Failed counts all of them.
type ImportResult struct {
	Added  int        `json:"added"`
	Failed int        `json:"failed"`
	Errors []RowError `json:"errors"`
}

// Reconcile maps, validates and persists every row on its own. A failing
// row never stops the rows after it, and Added+Failed always equals len(rows).
func Reconcile(rows []spreadsheet.Row, mapping Mapping, category models.Category, defaultProgram string, callerID uint, persist func(*models.Record) error) ImportResult {
	result := ImportResult{Errors: []RowError{}}
	fail := func(i int, msg string) {
		result.Failed++
		if len(result.Errors) < maxReportedRowErrors {
			result.Errors = append(result.Errors, RowError{Row: i + 1, Error: msg})
		}
	}

	fields := category.Fields()
	for i, row := range rows {
		program := strings.TrimSpace(defaultProgram)
		if column := mapping[programField]; column != "" {
			if value, ok := row[column]; ok {
				program = strings.TrimSpace(value)
			}
		}
		if program == "" {
			fail(i, "Prodi tidak ditemukan untuk baris ini.")
			continue
		}

		payload := make(map[string]interface{}, len(mapping))
		for field, column := range mapping {
			if field == programField || column == "" {
				continue
			}
			if value, ok := row[column]; ok {
				payload[field] = NormalizeValue(value)
			}
		}

		var missing []string
		for _, field := range fields {
			if payload[field.Key] == nil {
				missing = append(missing, field.Label)
			}
		}
		if len(missing) > 0 {
			fail(i, "Field wajib kosong: "+strings.Join(missing, ", "))
			continue
		}

		data, err := json.Marshal(payload)
		if err != nil {
			fail(i, err.Error())
			continue
		}
		rec := &models.Record{
			UserID: callerID,
			Prodi:  program,
			Type:   category,
			Data:   datatypes.JSON(data),
		}
		if err := persist(rec); err != nil {
			fail(i, err.Error())
			continue
		}
		result.Added++
	}

	return result
}

// Preview is what the mapping dialog shows before an import.
type Preview struct {
	Headers     []string          `json:"headers"`
	Rows        []spreadsheet.Row `json:"rows"`
	Suggestions Suggestions       `json:"suggestions"`
	TotalRows   int               `json:"totalRows"`
}

type ImportService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewImportService(db *gorm.DB, notifications *NotificationService) *ImportService {
	return &ImportService{db: db, notifications: notifications}
}

// Preview reads an upload and suggests a column mapping without writing anything.
func (s *ImportService) Preview(r io.Reader, filename string, category models.Category) (*Preview, error) {
	sheet, err := readUpload(r, filename)
	if err != nil {
		return nil, err
	}

	rows := sheet.Rows
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}
	return &Preview{
		Headers:     sheet.Headers,
		Rows:        rows,
		Suggestions: Suggest(sheet.Headers, category),
		TotalRows:   len(sheet.Rows),
	}, nil
}

// Import persists the rows of an upload under the caller's identity. The
// caller's program is the default for rows without a mapped program column.
func (s *ImportService) Import(id models.Identity, r io.Reader, filename string, category models.Category, mapping Mapping) (*ImportResult, error) {
	if id.NormalizedRole() != models.RoleP4M && !id.HasProgram() {
		metrics.IncScopeDenied()
		return nil, userError(ErrMissingProgram, msgMissingProgram)
	}

	sheet, err := readUpload(r, filename)
	if err != nil {
		return nil, err
	}

	result := Reconcile(sheet.Rows, mapping, category, id.Prodi, id.ID, func(rec *models.Record) error {
		return s.db.Create(rec).Error
	})

	metrics.ObserveImport(string(category), result.Added, result.Failed)
	logger.ForCaller(logger.WithFields(logrus.Fields{
		"category": category,
		"file":     filename,
		"added":    result.Added,
		"failed":   result.Failed,
	}), id.ID, id.Role, id.Prodi).Info("spreadsheet imported")

	if s.notifications != nil {
		nType := models.NotificationTypeSuccess
		if result.Failed > 0 {
			nType = models.NotificationTypeWarning
		}
		s.notifications.Notify(id.ID, nType, "Import "+category.Label(), ImportMessage(result))
	}

	return &result, nil
}

// ImportMessage is the human summary of an import.
func ImportMessage(result ImportResult) string {
	return fmt.Sprintf("Import selesai: %d berhasil, %d gagal", result.Added, result.Failed)
}

func readUpload(r io.Reader, filename string) (*spreadsheet.Sheet, error) {
	sheet, err := spreadsheet.Read(r, filename)
	if errors.Is(err, spreadsheet.ErrEmptySheet) {
		return nil, userError(ErrValidation, "File Excel kosong")
	}
	if err != nil {
		return nil, fmt.Errorf("parse spreadsheet %s: %w", filename, err)
	}
	return sheet, nil
}
