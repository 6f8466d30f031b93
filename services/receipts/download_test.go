package receipts

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadRejectsOversizedImage(t *testing.T) {
	big := bytes.Repeat([]byte{0xff}, MaxImageBytes+1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	_, err := downloadBase64(context.Background(), srv.Client(), srv.URL+"/huge.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 10MB")
}

func TestDownloadAcceptsImageAtLimit(t *testing.T) {
	exact := bytes.Repeat([]byte{0x01}, MaxImageBytes)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(exact)
	}))
	defer srv.Close()

	out, err := downloadBase64(context.Background(), srv.Client(), srv.URL+"/ok.jpg")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestDownloadRejectsNonHTTPURL(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "gopher://host/x", "/relative.jpg"} {
		_, err := downloadBase64(context.Background(), http.DefaultClient, u)
		require.Error(t, err, u)
		assert.Contains(t, err.Error(), "unsupported url")
	}
}
