package importer_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/winmix-match-service/internal/importer"
	"github.com/maxviazov/winmix-match-service/internal/repository"
)

func TestOpen_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.csv")
	require.NoError(t, os.WriteFile(path, []byte("id\n1\n"), 0o600))

	rc, err := importer.Open(context.Background(), nil, path)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "id\n1\n", string(b))
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := importer.Open(context.Background(), nil, filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "home_team,away_team\n")
	}))
	defer srv.Close()

	rc, err := importer.Open(context.Background(), srv.Client(), srv.URL+"/1.csv")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "home_team,away_team\n", string(b))

	_, err = importer.Open(context.Background(), srv.Client(), srv.URL+"/missing.csv")
	assert.ErrorContains(t, err, "404")
}

func TestOpen_URLUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := importer.Open(context.Background(), nil, url+"/1.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrUnavailable))
}
