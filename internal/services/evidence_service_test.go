package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sijamu/backend/internal/models"
)

func TestParseEvidenceName(t *testing.T) {
	tests := []struct {
		nama                     string
		code, title, description string
	}{
		{"A1-Visi Misi-Dokumen renstra", "A1", "Visi Misi", "Dokumen renstra"},
		{"A1 - Visi Misi - Renstra - 2024", "A1", "Visi Misi", "Renstra - 2024"},
		{"B2-Kurikulum", "B2", "Kurikulum", "B2-Kurikulum"},
		{"-Tanpa Kode-", "UNK", "Tanpa Kode", "-Tanpa Kode-"},
		{"Laporan tahunan", "UNK", "Bagian Tidak Dikenal", "Laporan tahunan"},
		{"", "UNK", "Bagian Tidak Dikenal", "Bukti pendukung"},
	}
	for _, tt := range tests {
		t.Run(tt.nama, func(t *testing.T) {
			code, title, description := ParseEvidenceName(tt.nama)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.description, description)
		})
	}
}

func TestGroupStatus(t *testing.T) {
	assert.Equal(t, StatusEmpty, GroupStatus(nil))
	assert.Equal(t, StatusReady, GroupStatus([]string{"Lengkap", "COMPLETE", "Siap Export"}))
	assert.Equal(t, StatusIncomplete, GroupStatus([]string{"lengkap", "draft"}))
	assert.Equal(t, StatusIncomplete, GroupStatus([]string{""}))
}

func TestGroupByCode(t *testing.T) {
	t0 := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	refs := []models.EvidenceReference{
		{ID: 1, Nama: "A1-Visi Misi-Renstra", Status: "lengkap", UpdatedAt: t0},
		{ID: 2, Nama: "B1-Kurikulum-CPL", Status: "draft", UpdatedAt: t0.Add(time.Hour)},
		{ID: 3, Nama: "A1-Visi Misi-Renop", Status: "complete", CreatedAt: t0.Add(2 * time.Hour)},
		{ID: 4, Nama: "Catatan", Status: "lengkap", UpdatedAt: t0},
	}

	groups := GroupByCode(refs)
	require.Len(t, groups, 3)

	assert.Equal(t, 1, groups[0].ID)
	assert.Equal(t, "A1", groups[0].Code)
	assert.Equal(t, "Visi Misi", groups[0].Title)
	assert.Equal(t, "Renstra", groups[0].Description, "first description wins")
	assert.Equal(t, StatusReady, groups[0].Status)
	assert.Equal(t, t0.Add(2*time.Hour), groups[0].LastUpdated, "created_at stands in for a missing updated_at")
	assert.Len(t, groups[0].Documents, 2)

	assert.Equal(t, 2, groups[1].ID)
	assert.Equal(t, StatusIncomplete, groups[1].Status)

	assert.Equal(t, "UNK", groups[2].Code)
	assert.Equal(t, "Catatan", groups[2].Description)
}

func TestGroupByCodeStableAcrossOrder(t *testing.T) {
	refs := []models.EvidenceReference{
		{ID: 1, Nama: "A1-Visi-x", Status: "lengkap"},
		{ID: 2, Nama: "B1-Kurikulum-y", Status: "draft"},
		{ID: 3, Nama: "A1-Visi-z", Status: "lengkap"},
	}
	reversed := []models.EvidenceReference{refs[2], refs[1], refs[0]}

	membership := func(groups []EvidenceGroup) map[string][]uint {
		out := map[string][]uint{}
		for _, g := range groups {
			for _, d := range g.Documents {
				out[g.Code+"::"+g.Title] = append(out[g.Code+"::"+g.Title], d.ID)
			}
		}
		return out
	}
	a, b := membership(GroupByCode(refs)), membership(GroupByCode(reversed))
	assert.ElementsMatch(t, a["A1::Visi"], b["A1::Visi"])
	assert.ElementsMatch(t, a["B1::Kurikulum"], b["B1::Kurikulum"])
	assert.Len(t, b, 2)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil))

	groups := []EvidenceGroup{{Status: StatusReady}, {Status: StatusIncomplete}, {Status: StatusIncomplete}}
	assert.Equal(t, Stats{TotalBagian: 3, SiapExport: 1, BelumLengkap: 2, Kelengkapan: 33}, Summarize(groups))
}

func TestEvidenceService_ItemsAndStats(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewEvidenceService(db, FileStore{Root: t.TempDir()})

	for _, ref := range []models.EvidenceReference{
		{UserID: 3, Nama: "A1-Visi-Renstra", Path: "/a", Status: "lengkap"},
		{UserID: 3, Nama: "B1-Kurikulum-CPL", Path: "/b", Status: "draft"},
		{UserID: 4, Nama: "C1-Lain-Lain", Path: "/c", Status: "lengkap"},
	} {
		ref := ref
		require.NoError(t, db.Create(&ref).Error)
	}

	groups, err := svc.Items(staffInf)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	stats, err := svc.Stats(staffInf)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalBagian: 2, SiapExport: 1, BelumLengkap: 1, Kelengkapan: 50}, stats)

	_, err = svc.Items(models.Identity{})
	assert.ErrorIs(t, err, ErrAuthenticationMissing)

	assert.Len(t, svc.Templates(), 2)
}

func TestEvidenceService_UploadDocument(t *testing.T) {
	root := t.TempDir()
	svc := NewEvidenceService(setupServiceTestDB(t), FileStore{Root: root})

	stored, err := svc.UploadDocument("Borang Akreditasi.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored.Name, "-Borang_Akreditasi.pdf"))
	assert.FileExists(t, stored.Path)
	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/akreditasi/"))
}
