package models

import "time"

// EvidenceReference points at a supporting document (bukti pendukung).
// Nama conventionally reads "CODE-Title-Description".
type EvidenceReference struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Nama      string    `json:"nama"`
	Path      string    `json:"path" gorm:"index;size:512"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EvidenceReference) TableName() string {
	return "bukti_pendukung"
}

// StructureFile is the institution's organisation-structure document.
// Only the most recent upload is ever served.
type StructureFile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	NamaFile  string    `json:"nama_file"`
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (StructureFile) TableName() string {
	return "struktur_files"
}
