package jira

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFile(t *testing.T) {
	content := "attachment payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, content)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	dest := filepath.Join(t.TempDir(), "log.txt")

	require.NoError(t, client.DownloadFile(srv.URL+"/file", dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestDownloadFileSkipsMatchingSize(t *testing.T) {
	content := "attachment payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, content)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	dest := filepath.Join(t.TempDir(), "log.txt")

	// Pre-existing file with the same byte size but different bytes: the
	// size check is all the idempotence there is, so it must survive.
	local := "XXXXXXXXXXXXXXXXXX"
	require.Len(t, local, len(content))
	require.NoError(t, os.WriteFile(dest, []byte(local), 0644))

	require.NoError(t, client.DownloadFile(srv.URL+"/file", dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, local, string(got), "matching size skips the download")
}

func TestDownloadFileReplacesSizeMismatch(t *testing.T) {
	content := "attachment payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, content)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	dest := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0644))

	require.NoError(t, client.DownloadFile(srv.URL+"/file", dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestDownloadFileHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "user", "token")
	dest := filepath.Join(t.TempDir(), "log.txt")

	err := client.DownloadFile(srv.URL+"/file", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")
	assert.NoFileExists(t, dest, "no partial file on HTTP error")
}
