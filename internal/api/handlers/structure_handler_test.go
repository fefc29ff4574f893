package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sijamu/backend/internal/services"
)

func latestStructure(t *testing.T, env *testEnv) *services.StructureDocument {
	t.Helper()
	w := env.doJSON(t, staffInf, http.MethodGet, "/api/v1/budaya-mutu/struktur", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		File *services.StructureDocument `json:"file"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	return data.File
}

func TestStructureHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	assert.Nil(t, latestStructure(t, env))

	body, ct := multipartBody(t, "file", "struktur.pdf", []byte("v1"), nil)
	w := env.do(t, &p4m, http.MethodPost, "/api/v1/budaya-mutu/struktur", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "File berhasil diupload", decode(t, w).Message)

	doc := latestStructure(t, env)
	require.NotNil(t, doc)
	assert.Equal(t, "struktur.pdf", doc.FileName)

	body, ct = multipartBody(t, "file", "struktur-baru.pdf", []byte("v2"), nil)
	w = env.do(t, &p4m, http.MethodPut, "/api/v1/budaya-mutu/struktur/"+jsonID(doc.ID), body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "struktur-baru.pdf", latestStructure(t, env).FileName)

	w = env.doJSON(t, p4m, http.MethodDelete, "/api/v1/budaya-mutu/struktur/"+jsonID(doc.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, latestStructure(t, env))
}

func TestStructureHandler_Errors(t *testing.T) {
	env := newTestEnv(t)

	body, ct := multipartBody(t, "", "", nil, map[string]string{"x": "y"})
	w := env.do(t, &p4m, http.MethodPost, "/api/v1/budaya-mutu/struktur", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartBody(t, "file", "x.pdf", []byte("x"), nil)
	w = env.do(t, &p4m, http.MethodPut, "/api/v1/budaya-mutu/struktur/42", body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "File tidak ditemukan", decode(t, w).Message)

	w = env.doJSON(t, p4m, http.MethodDelete, "/api/v1/budaya-mutu/struktur/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
