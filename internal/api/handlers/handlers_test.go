package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sijamu/backend/internal/api/middleware"
	"github.com/sijamu/backend/internal/auth"
	"github.com/sijamu/backend/internal/models"
	"github.com/sijamu/backend/internal/services"
)

const testSecret = "handler-test-secret"

var (
	p4m      = models.Identity{ID: 1, Role: "p4m"}
	timInf   = models.Identity{ID: 2, Role: "tim akreditasi", Prodi: "Informatika"}
	staffInf = models.Identity{ID: 3, Role: "dosen", Prodi: "Informatika"}
	staffSI  = models.Identity{ID: 5, Role: "dosen", Prodi: "Sistem Informasi"}
	noProdi  = models.Identity{ID: 6, Role: "dosen"}
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	files  services.FileStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := OpenTestDB(t)
	files := services.FileStore{Root: t.TempDir()}
	notifications := services.NewNotificationService(db, "")
	records := services.NewRecordService(db)
	evidence := services.NewEvidenceService(db, files)
	exports, err := services.NewExportService(t.TempDir(), evidence, records, notifications, "", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")
	api.GET("/health", NewHealthHandler(db).Check)

	protected := api.Group("")
	protected.Use(middleware.Auth(testSecret))

	budayaMutu := protected.Group("/budaya-mutu")
	NewRecordHandler(records, exports).RegisterRoutes(budayaMutu)
	NewImportHandler(services.NewImportService(db, notifications)).RegisterRoutes(budayaMutu)
	NewStructureHandler(services.NewStructureService(db, files)).RegisterRoutes(budayaMutu)
	NewAccreditationHandler(evidence, exports).RegisterRoutes(protected.Group("/akreditasi"))
	NewNotificationHandler(notifications).RegisterRoutes(protected.Group("/notifications"))

	return &testEnv{db: db, router: r, files: files}
}

func bearer(t *testing.T, id models.Identity) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, id, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, id *models.Identity, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if id != nil {
		req.Header.Set("Authorization", bearer(t, *id))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, id models.Identity, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return e.do(t, &id, method, path, body, "application/json")
}

// multipartBody builds a form with one file part and optional fields.
func multipartBody(t *testing.T, field, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func seedRecord(t *testing.T, db *gorm.DB, owner models.Identity, prodi string, cat models.Category, data string) models.Record {
	t.Helper()
	rec := models.Record{UserID: owner.ID, Prodi: prodi, Type: cat, Data: []byte(data)}
	require.NoError(t, db.Create(&rec).Error)
	return rec
}
