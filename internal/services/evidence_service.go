package services

import (
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sijamu/backend/internal/models"
)

const (
	StatusReady      = "Siap Export"
	StatusIncomplete = "Belum Lengkap"
	StatusEmpty      = "Kelengkapan"

	defaultSectionCode  = "UNK"
	defaultSectionTitle = "Bagian Tidak Dikenal"
	defaultDescription  = "Bukti pendukung"

	accreditationUploadDir = "akreditasi"
)

// EvidenceGroup is one accreditation section: every evidence reference
// sharing a code and title.
type EvidenceGroup struct {
	ID          int                        `json:"id"`
	Code        string                     `json:"kode_bagian"`
	Title       string                     `json:"nama_bagian"`
	Description string                     `json:"deskripsi"`
	LastUpdated time.Time                  `json:"tanggal_update"`
	Status      string                     `json:"status"`
	Documents   []models.EvidenceReference `json:"dokumen"`
}

// Stats summarizes section completeness.
type Stats struct {
	TotalBagian  int `json:"totalBagian"`
	SiapExport   int `json:"siapExport"`
	BelumLengkap int `json:"belumLengkap"`
	Kelengkapan  int `json:"kelengkapan"`
}

// Template is a downloadable export template.
type Template struct {
	ID   int    `json:"id"`
	Name string `json:"nama_template"`
	Kind string `json:"jenis_template"`
}

// ParseEvidenceName splits "CODE-Title-Description" into its parts. A name
// without a hyphen falls into the unknown section with itself as description.
func ParseEvidenceName(nama string) (code, title, description string) {
	code, title = defaultSectionCode, defaultSectionTitle
	description = nama
	if description == "" {
		description = defaultDescription
	}
	if !strings.Contains(nama, "-") {
		return code, title, description
	}

	parts := strings.Split(nama, "-")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[0] != "" {
		code = parts[0]
	}
	if parts[1] != "" {
		title = parts[1]
	}
	if rest := strings.Join(parts[2:], " - "); rest != "" {
		description = rest
	}
	return code, title, description
}

// GroupStatus is "Siap Export" when every status is complete, "Kelengkapan"
// for no statuses and "Belum Lengkap" otherwise.
func GroupStatus(statuses []string) string {
	if len(statuses) == 0 {
		return StatusEmpty
	}
	for _, s := range statuses {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "lengkap", "complete", "siap export":
		default:
			return StatusIncomplete
		}
	}
	return StatusReady
}

// GroupByCode groups references by code and title in first-seen order and
// numbers the groups from 1.
func GroupByCode(refs []models.EvidenceReference) []EvidenceGroup {
	var groups []*EvidenceGroup
	statuses := map[string][]string{}
	index := map[string]*EvidenceGroup{}

	for _, ref := range refs {
		code, title, description := ParseEvidenceName(ref.Nama)
		key := code + "::" + title

		g, ok := index[key]
		if !ok {
			g = &EvidenceGroup{Code: code, Title: title, Documents: []models.EvidenceReference{}}
			index[key] = g
			groups = append(groups, g)
		}

		g.Documents = append(g.Documents, ref)
		statuses[key] = append(statuses[key], ref.Status)
		ts := ref.UpdatedAt
		if ts.IsZero() {
			ts = ref.CreatedAt
		}
		if ts.After(g.LastUpdated) {
			g.LastUpdated = ts
		}
		if g.Description == "" {
			g.Description = description
		}
	}

	out := make([]EvidenceGroup, 0, len(groups))
	for i, g := range groups {
		g.ID = i + 1
		g.Status = GroupStatus(statuses[g.Code+"::"+g.Title])
		out = append(out, *g)
	}
	return out
}

// Summarize counts ready and incomplete sections. Kelengkapan is the ready
// share as a rounded percentage, 0 with no sections.
func Summarize(groups []EvidenceGroup) Stats {
	stats := Stats{TotalBagian: len(groups)}
	for _, g := range groups {
		switch g.Status {
		case StatusReady:
			stats.SiapExport++
		case StatusIncomplete:
			stats.BelumLengkap++
		}
	}
	if stats.TotalBagian > 0 {
		stats.Kelengkapan = int(math.Round(float64(stats.SiapExport) / float64(stats.TotalBagian) * 100))
	}
	return stats
}

type EvidenceService struct {
	db    *gorm.DB
	files FileStore
}

func NewEvidenceService(db *gorm.DB, files FileStore) *EvidenceService {
	return &EvidenceService{db: db, files: files}
}

// Items returns the caller's sections, newest references first.
func (s *EvidenceService) Items(id models.Identity) ([]EvidenceGroup, error) {
	if id.ID == 0 {
		return nil, userError(ErrAuthenticationMissing, "User tidak terautentikasi")
	}

	var refs []models.EvidenceReference
	if err := s.db.Where("user_id = ?", id.ID).Order("updated_at desc").Order("id desc").Find(&refs).Error; err != nil {
		return nil, err
	}
	return GroupByCode(refs), nil
}

// Stats summarizes the caller's sections.
func (s *EvidenceService) Stats(id models.Identity) (Stats, error) {
	groups, err := s.Items(id)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(groups), nil
}

// Templates lists the available export templates.
func (s *EvidenceService) Templates() []Template {
	return []Template{
		{ID: 1, Name: "Template BAN-PT", Kind: "PDF"},
		{ID: 2, Name: "Template Internal", Kind: "Excel"},
	}
}

// UploadDocument stores a supporting document under the accreditation upload dir.
func (s *EvidenceService) UploadDocument(originalName string, r io.Reader) (*StoredFile, error) {
	return s.files.Save(accreditationUploadDir, originalName, r)
}

// upsertEvidence creates or updates the caller's reference for path.
func upsertEvidence(tx *gorm.DB, userID uint, nama, path, status string) (*models.EvidenceReference, error) {
	var ref models.EvidenceReference
	err := tx.Where("user_id = ? AND path = ?", userID, path).Order("id asc").First(&ref).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ref = models.EvidenceReference{UserID: userID, Nama: nama, Path: path, Status: status}
		if err := tx.Create(&ref).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		ref.Status = status
		ref.UpdatedAt = time.Now()
		if err := tx.Save(&ref).Error; err != nil {
			return nil, err
		}
	}
	return &ref, nil
}
