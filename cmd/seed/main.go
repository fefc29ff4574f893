package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/sijamu/backend/internal/config"
	"github.com/sijamu/backend/internal/database"
	"github.com/sijamu/backend/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	fmt.Println("✓ Database migrated successfully")

	records := []struct {
		userID uint
		prodi  string
		cat    models.Category
		data   map[string]interface{}
	}{
		{2, "Informatika", models.CategoryTupoksi, map[string]interface{}{
			"unitKerja": "Program Studi Informatika", "namaKetua": "Dr. Andi Wijaya", "periode": "2022-2026",
			"pendidikanTerakhir": "S3", "jabatanFungsional": "Lektor Kepala", "tugasPokokDanFungsi": "Mengelola kurikulum",
		}},
		{2, "Informatika", models.CategoryPendanaan, map[string]interface{}{
			"sumberPendanaan": "Mandiri", "ts2": "120000000", "ts1": "135000000", "ts": "150000000", "linkBukti": "https://example.ac.id/bukti/pendanaan",
		}},
		{3, "Sistem Informasi", models.CategorySPMI, map[string]interface{}{
			"unitSPMI": "Gugus Kendali Mutu", "namaUnitSPMI": "GKM SI", "dokumenSPMI": "Manual Mutu",
			"jumlahAuditorMutuInternal": "4", "certified": "2", "nonCertified": "2", "frekuensiAudit": "1x setahun",
			"buktiCertifiedAuditor": "https://example.ac.id/bukti/auditor", "laporanAudit": "https://example.ac.id/bukti/ami",
		}},
	}

	for _, r := range records {
		raw, err := json.Marshal(r.data)
		if err != nil {
			log.Fatal("Failed to encode record:", err)
		}
		rec := models.Record{UserID: r.userID, Prodi: r.prodi, Type: r.cat, Data: raw}
		result := db.Where(models.Record{UserID: r.userID, Prodi: r.prodi, Type: r.cat}).FirstOrCreate(&rec)
		if result.Error != nil {
			fmt.Printf("Failed to seed %s record for %s: %v\n", r.cat, r.prodi, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created %s record for %s\n", r.cat.Label(), r.prodi)
		} else {
			fmt.Printf("  %s record for %s already exists\n", r.cat.Label(), r.prodi)
		}
	}

	evidence := []models.EvidenceReference{
		{UserID: 2, Nama: "C1-Tata Pamong-Struktur organisasi", Path: "/budaya-mutu/tupoksi", Status: "Lengkap"},
		{UserID: 2, Nama: "C1-Tata Pamong-Tugas pokok dan fungsi", Path: "/budaya-mutu/tupoksi/detail", Status: "Lengkap"},
		{UserID: 2, Nama: "C2-Keuangan-Pendanaan", Path: "/budaya-mutu/pendanaan", Status: "Belum Lengkap"},
	}
	for i := range evidence {
		ref := evidence[i]
		result := db.Where(models.EvidenceReference{UserID: ref.UserID, Path: ref.Path}).FirstOrCreate(&ref)
		if result.Error != nil {
			fmt.Printf("Failed to seed evidence %s: %v\n", ref.Nama, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created evidence: %s\n", ref.Nama)
		}
	}

	fmt.Println("\n✓ Database seeding completed successfully!")
}
