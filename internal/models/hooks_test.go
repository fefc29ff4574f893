package models

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	if err := db.AutoMigrate(All()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestNotification_BeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	n := &Notification{UserID: 1, Title: "Import selesai"}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if n.ID == "" {
		t.Fatalf("expected ID to be populated by BeforeCreate")
	}

	keep := &Notification{ID: "fixed-id"}
	if err := db.Create(keep).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if keep.ID != "fixed-id" {
		t.Fatalf("expected preset ID to be kept, got %s", keep.ID)
	}
}

func TestTableNames(t *testing.T) {
	db := setupTestDB(t)
	for _, table := range []string{"budaya_mutu", "bukti_pendukung", "struktur_files", "notifications"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}

func TestRecordDataRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	payload, _ := json.Marshal(map[string]interface{}{"unitKerja": "LPM", "periode": nil})
	rec := &Record{UserID: 3, Prodi: "Informatika", Type: CategoryTupoksi, Data: datatypes.JSON(payload)}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var loaded Record
	if err := db.First(&loaded, rec.ID).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(loaded.Data, &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data["unitKerja"] != "LPM" || loaded.Type != CategoryTupoksi {
		t.Fatalf("unexpected record: %+v %v", loaded, data)
	}
}
