package helpers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchWithRandomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check that browser-like headers are set
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		assert.NotEmpty(t, r.Header.Get("referer"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Hello, World!</body></html>"))
	}))
	defer server.Close()

	reader, err := FetchWithRandomHeaders(server.URL)
	assert.NoError(t, err)

	body, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "Hello, World!")
}

func TestFetchWithRandomHeadersNonUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Hello, World!</body></html>"))
	}))
	defer server.Close()

	reader, err := FetchWithRandomHeaders(server.URL)
	assert.NoError(t, err)

	body, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "Hello, World!")
}

func TestFetchWithRandomHeadersError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := FetchWithRandomHeaders(server.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestFetchWithRandomHeadersRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := FetchWithRandomHeaders(server.URL)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestFetchSimply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>listing</body></html>"))
	}))
	defer server.Close()

	body, err := FetchSimply(server.URL)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "listing")
}

func TestFetchSimplyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := FetchSimply(server.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 404")
}

func TestRandomUserAgentIsDesktop(t *testing.T) {
	for i := 0; i < 10; i++ {
		ua := RandomUserAgent()
		assert.Contains(t, ua, "Mozilla/5.0")
	}
}
