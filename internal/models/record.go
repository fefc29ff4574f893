package models

import (
	"time"

	"gorm.io/datatypes"
)

// Record is one LKPS quality-culture entry (budaya mutu). Data holds a
// category-specific JSON object, or an array of objects for multi-row saves.
type Record struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index"`
	Prodi     string         `json:"prodi" gorm:"index;size:191"`
	Type      Category       `json:"type" gorm:"index;size:32"`
	Data      datatypes.JSON `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName keeps the table name used by the existing database.
func (Record) TableName() string {
	return "budaya_mutu"
}
