package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"souschef-api/internal/infrastructure/config"
	"souschef-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(maxBytes int64, timeout time.Duration) *Fetcher {
	return NewFetcher(&config.FetchConfig{Timeout: timeout, MaxBytes: maxBytes})
}

func TestFetchPageSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		fmt.Fprint(w, "<html><body>recipe page</body></html>")
	}))
	defer server.Close()

	html, err := newTestFetcher(1<<20, 5*time.Second).FetchPage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "recipe page")
}

func TestFetchPageNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher(1<<20, 5*time.Second).FetchPage(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, common.ErrCodeFetchFailed, common.AsCustomError(err).Code)
}

func TestFetchPageOversizeBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 2048))
	}))
	defer server.Close()

	_, err := newTestFetcher(1024, 5*time.Second).FetchPage(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, common.ErrCodeFetchFailed, common.AsCustomError(err).Code)
}

func TestFetchPageTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	_, err := newTestFetcher(1<<20, 50*time.Millisecond).FetchPage(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, common.ErrCodeFetchFailed, common.AsCustomError(err).Code)
}

func TestFetchPageFollowsRedirect(t *testing.T) {
	var target *httptest.Server
	target = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "final destination")
	}))
	defer target.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer redirector.Close()

	html, err := newTestFetcher(1<<20, 5*time.Second).FetchPage(context.Background(), redirector.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "final destination")
}
