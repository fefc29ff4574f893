package models

import "strings"

// Role is the normalized access role of a caller.
type Role string

const (
	// RoleP4M sees every program and may filter by one.
	RoleP4M Role = "p4m"
	// RoleTimAkreditasi is restricted to its own program.
	RoleTimAkreditasi Role = "tim akreditasi"
	// RoleStaff covers every other role string: own records in own program.
	RoleStaff Role = "staff"
)

// NormalizeRole maps a raw role string onto a Role, ignoring case and
// surrounding whitespace. Unrecognized roles become RoleStaff.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "p4m":
		return RoleP4M
	case "tim akreditasi", "tim-akreditasi":
		return RoleTimAkreditasi
	default:
		return RoleStaff
	}
}

// Identity is the authenticated caller as asserted by the upstream identity provider.
type Identity struct {
	ID    uint   `json:"id"`
	Role  string `json:"role"`
	Prodi string `json:"prodi"`
}

// NormalizedRole returns the caller's role after normalization.
func (i Identity) NormalizedRole() Role {
	return NormalizeRole(i.Role)
}

// HasProgram reports whether the caller carries a study program.
func (i Identity) HasProgram() bool {
	return strings.TrimSpace(i.Prodi) != ""
}
