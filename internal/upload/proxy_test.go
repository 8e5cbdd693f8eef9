package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadForwardsMultipart(t *testing.T) {
	var gotAuth, gotFilename, gotContent string

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename

		raw := make([]byte, header.Size)
		_, _ = file.Read(raw)
		gotContent = string(raw)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/tee.jpg"}`))
	}))
	defer upstream.Close()

	proxy := NewProxy(upstream.URL, "token-123")
	result, err := proxy.Upload(context.Background(), "tee.jpg", "image/jpeg", strings.NewReader("fake-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/tee.jpg", result.URL)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "tee.jpg", gotFilename)
	assert.Equal(t, "fake-bytes", gotContent)
}

func TestUploadKeepsExistingBearerPrefix(t *testing.T) {
	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/a"}`))
	}))
	defer upstream.Close()

	proxy := NewProxy(upstream.URL, "Bearer token-123")
	_, err := proxy.Upload(context.Background(), "a", "", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestUploadUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	proxy := NewProxy(upstream.URL, "")
	_, err := proxy.Upload(context.Background(), "a", "", strings.NewReader("x"))
	assert.ErrorContains(t, err, "status 500")
}

func TestUploadMalformedResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"nope":true}`))
	}))
	defer upstream.Close()

	proxy := NewProxy(upstream.URL, "")
	_, err := proxy.Upload(context.Background(), "a", "", strings.NewReader("x"))
	assert.Error(t, err)
}
