package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureService_Lifecycle(t *testing.T) {
	root := t.TempDir()
	svc := NewStructureService(setupServiceTestDB(t), FileStore{Root: root})

	latest, err := svc.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	first, err := svc.Upload("bagan lama.pdf", strings.NewReader("v1"))
	require.NoError(t, err)
	assert.Equal(t, "bagan lama.pdf", first.FileName)
	assert.True(t, strings.HasPrefix(first.FileURL, "/uploads/struktur/"))
	firstPath := filepath.Join(root, "struktur", filepath.Base(first.FileURL))
	assert.FileExists(t, firstPath)

	second, err := svc.Upload("bagan.pdf", strings.NewReader("v2"))
	require.NoError(t, err)

	latest, err = svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	replaced, err := svc.Replace(first.ID, "bagan baru.pdf", strings.NewReader("v3"))
	require.NoError(t, err)
	assert.NoFileExists(t, firstPath)
	content, err := os.ReadFile(filepath.Join(root, "struktur", filepath.Base(replaced.FileURL)))
	require.NoError(t, err)
	assert.Equal(t, "v3", string(content))

	latest, err = svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID, "a replaced file becomes the latest")

	require.NoError(t, svc.Delete(second.ID))
	assert.ErrorIs(t, svc.Delete(second.ID), ErrNotFound)

	_, err = svc.Replace(999, "x.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}
