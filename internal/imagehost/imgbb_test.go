package imagehost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "k3y", r.FormValue("key"))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, pngHeader, content)
		assert.Contains(t, hdr.Filename, ".png")

		_, _ = io.WriteString(w, `{"success":true,"status":200,"data":{"url":"https://i.ibb.co/abc/member.png"}}`)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "k3y"}, nil)
	url, err := c.Upload(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/abc/member.png", url)
}

func TestUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"success":false,"status":400,"error":{"message":"Invalid API v1 key."}}`)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "bad"}, nil)
	_, err := c.Upload(context.Background(), pngHeader)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUploadFailed))
}

func TestValidate(t *testing.T) {
	ext, err := Validate(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	ext, err = Validate([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"))
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, err = Validate(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Validate([]byte("GIF89a......"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
