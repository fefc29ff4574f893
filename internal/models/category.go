package models

import "strings"

// Category identifies one of the LKPS quality-culture tables.
type Category string

const (
	CategoryTupoksi        Category = "tupoksi"
	CategoryPendanaan      Category = "pendanaan"
	CategoryPenggunaanDana Category = "penggunaan-dana"
	CategoryEWMP           Category = "ewmp"
	CategoryKTK            Category = "ktk"
	CategorySPMI           Category = "spmi"
)

// Field is a column of a category table: the JSON key stored in the record
// payload and the human label shown in forms and spreadsheets.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// categoryFields lists every required field per category, in display order.
var categoryFields = map[Category][]Field{
	CategoryTupoksi: {
		{Key: "unitKerja", Label: "Unit Kerja"},
		{Key: "namaKetua", Label: "Nama Ketua"},
		{Key: "periode", Label: "Periode"},
		{Key: "pendidikanTerakhir", Label: "Pendidikan Terakhir"},
		{Key: "jabatanFungsional", Label: "Jabatan Fungsional"},
		{Key: "tugasPokokDanFungsi", Label: "Tugas Pokok dan Fungsi"},
	},
	CategoryPendanaan: {
		{Key: "sumberPendanaan", Label: "Sumber Pendanaan"},
		{Key: "ts2", Label: "TS-2"},
		{Key: "ts1", Label: "TS-1"},
		{Key: "ts", Label: "TS"},
		{Key: "linkBukti", Label: "Link Bukti"},
	},
	CategoryPenggunaanDana: {
		{Key: "penggunaanDana", Label: "Penggunaan Dana"},
		{Key: "ts2", Label: "TS-2"},
		{Key: "ts1", Label: "TS-1"},
		{Key: "ts", Label: "TS"},
		{Key: "linkBukti", Label: "Link Bukti"},
	},
	CategoryEWMP: {
		{Key: "namaDTPR", Label: "Nama DTPR"},
		{Key: "psSendiri", Label: "PS Sendiri"},
		{Key: "psLainPTSendiri", Label: "PS Lain PT Sendiri"},
		{Key: "ptLain", Label: "PT Lain"},
		{Key: "sksPenelitian", Label: "SKS Penelitian"},
		{Key: "sksPengabdian", Label: "SKS Pengabdian"},
		{Key: "manajemenPTSendiri", Label: "Manajemen PT Sendiri"},
		{Key: "manajemenPTLain", Label: "Manajemen PT Lain"},
		{Key: "totalSKS", Label: "Total SKS"},
	},
	CategoryKTK: {
		{Key: "jenisTenagaKependidikan", Label: "Jenis Tenaga Kependidikan"},
		{Key: "s3", Label: "S3"},
		{Key: "s2", Label: "S2"},
		{Key: "s1", Label: "S1"},
		{Key: "d4", Label: "D4"},
		{Key: "d3", Label: "D3"},
		{Key: "d2", Label: "D2"},
		{Key: "d1", Label: "D1"},
		{Key: "sma", Label: "SMA"},
		{Key: "unitKerja", Label: "Unit Kerja"},
	},
	CategorySPMI: {
		{Key: "unitSPMI", Label: "Unit SPMI"},
		{Key: "namaUnitSPMI", Label: "Nama Unit SPMI"},
		{Key: "dokumenSPMI", Label: "Dokumen SPMI"},
		{Key: "jumlahAuditorMutuInternal", Label: "Jumlah Auditor Mutu Internal"},
		{Key: "certified", Label: "Certified"},
		{Key: "nonCertified", Label: "Non Certified"},
		{Key: "frekuensiAudit", Label: "Frekuensi Audit"},
		{Key: "buktiCertifiedAuditor", Label: "Bukti Certified Auditor"},
		{Key: "laporanAudit", Label: "Laporan Audit"},
	},
}

// Categories returns every known category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryTupoksi,
		CategoryPendanaan,
		CategoryPenggunaanDana,
		CategoryEWMP,
		CategoryKTK,
		CategorySPMI,
	}
}

// ParseCategory resolves a raw route/query value into a known category.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := categoryFields[c]
	return c, ok
}

// Fields returns a copy of the category's required fields.
func (c Category) Fields() []Field {
	fields := categoryFields[c]
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryFields[c]
	return ok
}

var categoryLabels = map[Category]string{
	CategoryTupoksi:        "Tupoksi",
	CategoryPendanaan:      "Pendanaan",
	CategoryPenggunaanDana: "Penggunaan Dana",
	CategoryEWMP:           "EWMP",
	CategoryKTK:            "KTK",
	CategorySPMI:           "SPMI",
}

// Label is the display name of the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}
