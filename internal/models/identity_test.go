package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	tests := map[string]Role{
		"p4m":             RoleP4M,
		"  P4M ":          RoleP4M,
		"tim akreditasi":  RoleTimAkreditasi,
		"Tim Akreditasi ": RoleTimAkreditasi,
		"tim-akreditasi":  RoleTimAkreditasi,
		"dosen":           RoleStaff,
		"":                RoleStaff,
		"timakreditasi":   RoleStaff,
	}
	for raw, want := range tests {
		assert.Equal(t, want, NormalizeRole(raw), raw)
	}
}

func TestIdentityHasProgram(t *testing.T) {
	assert.True(t, Identity{Prodi: "Informatika"}.HasProgram())
	assert.False(t, Identity{Prodi: "   "}.HasProgram())
	assert.False(t, Identity{}.HasProgram())
	assert.Equal(t, RoleP4M, Identity{Role: "P4M"}.NormalizedRole())
}
