package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sijamu/backend/internal/logger"
	"github.com/sijamu/backend/internal/metrics"
	"github.com/sijamu/backend/internal/models"
	"github.com/sijamu/backend/internal/spreadsheet"
)

const (
	exportFilePrefix  = "akreditasi-export-"
	recordsFilePrefix = "lkps-"
	exportSheetName   = "Data Akreditasi"
	exportTimeLayout  = "2006-01-02 15:04"
)

var exportColumns = []spreadsheet.Column{
	{Header: "id", Width: 5},
	{Header: "kode_bagian", Width: 15},
	{Header: "nama_bagian", Width: 30},
	{Header: "deskripsi", Width: 50},
	{Header: "tanggal_update", Width: 25},
	{Header: "status", Width: 20},
}

// ExportFile is a generated file waiting to be streamed and removed.
type ExportFile struct {
	Name string
	Path string
}

// ExportRequest selects sections of the caller's accreditation data.
type ExportRequest struct {
	Format      string `json:"format"`
	SelectedIDs []int  `json:"selectedIds"`
}

type ExportService struct {
	Dir  string
	Cron *cron.Cron

	evidence      *EvidenceService
	records       *RecordService
	notifications *NotificationService
	now           func() time.Time
}

// NewExportService writes exports under dir. A non-empty sweepSchedule
// registers a cron job that removes files older than maxAge.
func NewExportService(dir string, evidence *EvidenceService, records *RecordService, notifications *NotificationService, sweepSchedule string, maxAge time.Duration) (*ExportService, error) {
	s := &ExportService{
		Dir:           dir,
		evidence:      evidence,
		records:       records,
		notifications: notifications,
		now:           time.Now,
		Cron:          cron.New(cron.WithLogger(cron.PrintfLogger(logger.Log()))),
	}

	if sweepSchedule != "" {
		_, err := s.Cron.AddFunc(sweepSchedule, func() {
			if _, err := s.Sweep(maxAge); err != nil {
				logger.Log().WithError(err).Warn("export sweep failed")
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule export sweep %q: %w", sweepSchedule, err)
		}
	}
	return s, nil
}

// Start runs the sweeper in the background.
func (s *ExportService) Start() { s.Cron.Start() }

// Stop halts the sweeper and waits for a running sweep to finish.
func (s *ExportService) Stop() { <-s.Cron.Stop().Done() }

// ExportAccreditation writes the selected sections of the caller's evidence
// to a workbook or a PDF.
func (s *ExportService) ExportAccreditation(id models.Identity, req ExportRequest) (*ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	var ext string
	switch format {
	case "excel", "xlsx":
		ext = ".xlsx"
	case "pdf":
		ext = ".pdf"
	default:
		return nil, userError(ErrUnsupportedFormat, "Format tidak didukung. Gunakan Excel atau PDF.")
	}

	groups, err := s.evidence.Items(id)
	if err != nil {
		return nil, err
	}
	selected := selectGroups(groups, req.SelectedIDs)
	if len(selected) == 0 {
		return nil, userError(ErrValidation, "Tidak ada data yang dipilih untuk export")
	}

	var content []byte
	if ext == ".pdf" {
		content, err = renderPDF(selected)
	} else {
		content, err = spreadsheet.Write(exportSheetName, exportColumns, groupRows(selected))
	}
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	file, err := s.write(fmt.Sprintf("%s%d%s", exportFilePrefix, s.now().UnixMilli(), ext), content)
	if err != nil {
		return nil, err
	}

	metrics.IncExport(strings.TrimPrefix(ext, "."))
	logger.ForCaller(logger.WithFields(logrus.Fields{
		"file":     file.Name,
		"sections": len(selected),
	}), id.ID, id.Role, id.Prodi).Info("accreditation export generated")
	if s.notifications != nil {
		s.notifications.Notify(id.ID, models.NotificationTypeInfo, "Export akreditasi",
			fmt.Sprintf("%d bagian diekspor ke %s", len(selected), file.Name))
	}
	return file, nil
}

// ExportRecords writes the caller-visible records of a category to a
// workbook with the category labels as headers.
func (s *ExportService) ExportRecords(id models.Identity, category models.Category, requestedProgram string) (*ExportFile, error) {
	records, err := s.records.List(id, category, requestedProgram)
	if err != nil {
		return nil, err
	}

	fields := category.Fields()
	columns := make([]spreadsheet.Column, 0, len(fields)+2)
	columns = append(columns, spreadsheet.Column{Header: "No", Width: 5}, spreadsheet.Column{Header: "Prodi", Width: 25})
	for _, f := range fields {
		columns = append(columns, spreadsheet.Column{Header: f.Label, Width: 20})
	}

	var rows [][]interface{}
	for _, rec := range records {
		items, err := recordItems(rec)
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", rec.ID, err)
		}
		for _, item := range items {
			row := make([]interface{}, 0, len(columns))
			row = append(row, len(rows)+1, rec.Prodi)
			for _, f := range fields {
				row = append(row, cellText(item[f.Key]))
			}
			rows = append(rows, row)
		}
	}

	content, err := spreadsheet.Write(category.Label(), columns, rows)
	if err != nil {
		return nil, fmt.Errorf("render records export: %w", err)
	}

	file, err := s.write(fmt.Sprintf("%s%s-%d.xlsx", recordsFilePrefix, category, s.now().UnixMilli()), content)
	if err != nil {
		return nil, err
	}
	metrics.IncExport("xlsx")
	return file, nil
}

// Sweep removes export files older than maxAge and returns how many went.
func (s *ExportService) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read export dir: %w", err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isExportName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			logger.Log().WithError(err).WithField("file", entry.Name()).Warn("failed to remove orphaned export")
			continue
		}
		removed++
	}

	if removed > 0 {
		metrics.AddSwept(removed)
		logger.Log().WithField("removed", removed).Info("orphaned exports swept")
	}
	return removed, nil
}

func (s *ExportService) write(name string, content []byte) (*ExportFile, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	full := filepath.Join(s.Dir, name)
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	return &ExportFile{Name: name, Path: full}, nil
}

func isExportName(name string) bool {
	return strings.HasPrefix(name, exportFilePrefix) || strings.HasPrefix(name, recordsFilePrefix)
}

func selectGroups(groups []EvidenceGroup, ids []int) []EvidenceGroup {
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []EvidenceGroup
	for _, g := range groups {
		if wanted[g.ID] {
			out = append(out, g)
		}
	}
	return out
}

func groupRows(groups []EvidenceGroup) [][]interface{} {
	rows := make([][]interface{}, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []interface{}{
			g.ID, g.Code, g.Title, g.Description, g.LastUpdated.Format(exportTimeLayout), g.Status,
		})
	}
	return rows
}

func renderPDF(groups []EvidenceGroup) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Data Akreditasi", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "DATA AKREDITASI", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Landscape A4 leaves 277mm between the default margins.
	widths := []float64{12, 28, 55, 102, 40, 40}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range exportColumns {
		pdf.CellFormat(widths[i], 8, col.Header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range groupRows(groups) {
		for i, value := range row {
			text := tr(truncate(fmt.Sprint(value), widths[i]))
			pdf.CellFormat(widths[i], 7, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncate keeps a cell on one line; roughly two characters fit per millimetre.
func truncate(s string, width float64) string {
	limit := int(width / 2)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// recordItems returns the rows held by a record payload, which is either one
// object or an array of objects.
func recordItems(rec models.Record) ([]map[string]interface{}, error) {
	raw := bytes.TrimSpace(rec.Data)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '[' {
		var items []map[string]interface{}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var item map[string]interface{}
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	return []map[string]interface{}{item}, nil
}

func cellText(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
