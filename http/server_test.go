package http

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasFormFile(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	file, err := w.CreateFormFile("thumbnail", "t.png")
	require.NoError(t, err)
	_, err = file.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("title", "new title"))
	require.NoError(t, w.Close())

	r := httptest.NewRequest("PUT", "/videos/1", &body)
	r.Header.Set("Content-Type", w.FormDataContentType())

	assert.True(t, hasFormFile(r, "thumbnail"))
	assert.False(t, hasFormFile(r, "video"))
	// Checking presence twice must not consume the form.
	assert.True(t, hasFormFile(r, "thumbnail"))

	plain := httptest.NewRequest("PUT", "/videos/1", strings.NewReader("{}"))
	plain.Header.Set("Content-Type", "application/json")
	assert.False(t, hasFormFile(plain, "thumbnail"))
}
