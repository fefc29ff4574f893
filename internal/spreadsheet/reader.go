// Package spreadsheet reads uploaded workbooks into header-keyed rows and
// writes tabular exports back to xlsx.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned when the first worksheet has no data rows.
var ErrEmptySheet = errors.New("worksheet is empty")

// Row maps a header name to its cell value. Missing cells read as "".
type Row map[string]string

// Sheet is the first worksheet of a workbook with the first non-blank row
// used as the header.
type Sheet struct {
	Headers []string
	Rows    []Row
}

// Read parses an uploaded workbook. Legacy .xls files go through the BIFF
// reader; everything else is treated as OOXML.
func Read(r io.Reader, filename string) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var cells [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		cells, err = readXLS(data)
	default:
		cells, err = readXLSX(data)
	}
	if err != nil {
		return nil, err
	}

	return buildSheet(cells)
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %s: %w", sheetName, err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("no worksheet found")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// buildSheet turns raw cells into header-keyed rows. Blank header cells are
// named __EMPTY, __EMPTY_1, ... and repeated headers get a _N suffix so no
// column is silently dropped.
func buildSheet(cells [][]string) (*Sheet, error) {
	headerIdx := -1
	for i, row := range cells {
		if !blankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptySheet
	}

	headers := uniqueHeaders(cells[headerIdx])
	sheet := &Sheet{Headers: headers}

	for _, raw := range cells[headerIdx+1:] {
		if blankRow(raw) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = cellValue(raw, i)
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	if len(sheet.Rows) == 0 {
		return nil, ErrEmptySheet
	}
	return sheet, nil
}

func uniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, cell := range raw {
		base := strings.TrimSpace(cell)
		if base == "" {
			base = "__EMPTY"
		}
		name := base
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = true
		headers[i] = name
	}
	return headers
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
