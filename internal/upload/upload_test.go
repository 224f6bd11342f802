package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, field, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile(field)
	require.NoError(t, err)
	return file, header
}

func TestSaveImage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	file, header := multipartFile(t, "avatar", "me.png", []byte("png-bytes"))
	defer file.Close()

	path, err := store.SaveImage(file, header)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	onDisk := filepath.Join(store.Dir(), strings.TrimPrefix(path, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveImageRejectsUnknownExtension(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	file, header := multipartFile(t, "avatar", "shell.sh", []byte("#!/bin/sh"))
	defer file.Close()

	_, err = store.SaveImage(file, header)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveImageRejectsOversizedFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	file, header := multipartFile(t, "avatar", "big.jpg", bytes.Repeat([]byte("a"), maxImageSize+1))
	defer file.Close()

	_, err = store.SaveImage(file, header)
	assert.ErrorIs(t, err, ErrTooLarge)
}
