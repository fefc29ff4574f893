package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/sijamu/backend/internal/metrics"
	"github.com/sijamu/backend/internal/models"
)

const msgMissingProgram = "Prodi pengguna tidak ditemukan."

// Scope is the record-selection predicate for one caller and category.
// Program and OwnerID are only applied when set.
type Scope struct {
	Category models.Category
	Program  string
	OwnerID  *uint
}

// BuildScope decides which records of a category the caller may read.
//
//   - p4m sees every program, narrowed to requestedProgram when given.
//   - tim akreditasi sees its own program and needs one.
//   - everyone else sees only their own records in their own program.
func BuildScope(id models.Identity, category models.Category, requestedProgram string) (Scope, error) {
	scope := Scope{Category: category}

	switch id.NormalizedRole() {
	case models.RoleP4M:
		scope.Program = strings.TrimSpace(requestedProgram)
	case models.RoleTimAkreditasi:
		if !id.HasProgram() {
			metrics.IncScopeDenied()
			return Scope{}, userError(ErrMissingProgram, msgMissingProgram)
		}
		scope.Program = id.Prodi
	default:
		if !id.HasProgram() {
			metrics.IncScopeDenied()
			return Scope{}, userError(ErrMissingProgram, msgMissingProgram)
		}
		owner := id.ID
		scope.Program = id.Prodi
		scope.OwnerID = &owner
	}

	return scope, nil
}

// Apply adds the scope's conditions to a query on the records table.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	q := db.Where("type = ?", s.Category)
	if s.Program != "" {
		q = q.Where("prodi = ?", s.Program)
	}
	if s.OwnerID != nil {
		q = q.Where("user_id = ?", *s.OwnerID)
	}
	return q
}

// canModify reports whether the caller may edit or delete rec: p4m always,
// tim akreditasi within its own program, everyone else only their own records.
func canModify(id models.Identity, rec *models.Record) bool {
	switch id.NormalizedRole() {
	case models.RoleP4M:
		return true
	case models.RoleTimAkreditasi:
		return id.HasProgram() && rec.Prodi == id.Prodi
	default:
		return rec.UserID == id.ID
	}
}
