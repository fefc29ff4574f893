package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sijamu/backend/internal/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

var (
	p4m       = models.Identity{ID: 1, Role: "P4M"}
	timInf    = models.Identity{ID: 2, Role: "tim-akreditasi", Prodi: "Informatika"}
	staffInf  = models.Identity{ID: 3, Role: "dosen", Prodi: "Informatika"}
	staffInf2 = models.Identity{ID: 4, Role: "dosen", Prodi: "Informatika"}
	staffSI   = models.Identity{ID: 5, Role: "dosen", Prodi: "Sistem Informasi"}
)
