package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Prodi", "Sumber Pendanaan", "TS-2", "TS-1", "TS", "Link Bukti"},
		{"Informatika", "Mandiri", 100, 200, 300, "http://x"},
		{},
		{"", "Hibah", "", "", 50},
	})

	sheet, err := Read(bytes.NewReader(data), "pendanaan.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Prodi", "Sumber Pendanaan", "TS-2", "TS-1", "TS", "Link Bukti"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2, "blank rows are skipped")
	assert.Equal(t, "Informatika", sheet.Rows[0]["Prodi"])
	assert.Equal(t, "300", sheet.Rows[0]["TS"])
	assert.Equal(t, "", sheet.Rows[1]["Prodi"])
	assert.Equal(t, "", sheet.Rows[1]["Link Bukti"], "missing trailing cells default to empty")
	_, present := sheet.Rows[1]["Link Bukti"]
	assert.True(t, present)
}

func TestReadHeaderOnlyIsEmpty(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{{"Unit Kerja", "Periode"}})
	_, err := Read(bytes.NewReader(data), "x.xlsx")
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestReadGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a workbook")), "x.xlsx")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptySheet)
}

func TestUniqueHeaders(t *testing.T) {
	got := uniqueHeaders([]string{" Nama ", "", "Nama", "", "Nama"})
	assert.Equal(t, []string{"Nama", "__EMPTY", "Nama_1", "__EMPTY_1", "Nama_2"}, got)
}

func TestBuildSheetSkipsLeadingBlankRows(t *testing.T) {
	sheet, err := buildSheet([][]string{nil, {"", " "}, {"A", "B"}, {"1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, sheet.Headers)
	assert.Equal(t, Row{"A": "1", "B": ""}, sheet.Rows[0])
}

func TestWriteThenRead(t *testing.T) {
	columns := []Column{{Header: "id", Width: 5}, {Header: "kode_bagian", Width: 15}, {Header: "status"}}
	data, err := Write("Data Akreditasi", columns, [][]interface{}{
		{1, "A1", "Siap Export"},
		{2, "B1", "Belum Lengkap"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "Data Akreditasi", f.GetSheetName(0))
	width, err := f.GetColWidth("Data Akreditasi", "B")
	require.NoError(t, err)
	assert.Equal(t, 15.0, width)

	sheet, err := Read(bytes.NewReader(data), "export.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "kode_bagian", "status"}, sheet.Headers)
	assert.Equal(t, "B1", sheet.Rows[1]["kode_bagian"])
}
