package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/maxviazov/winmix-match-service/internal/repository"
)

// maxRemoteBody caps a downloaded CSV.
const maxRemoteBody = 64 << 20

// Open returns a reader for a local path or an http(s) URL. The caller closes it.
func Open(ctx context.Context, client *http.Client, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		return f, nil
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", source, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w: %w", source, repository.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %d", source, resp.StatusCode)
	}
	return readCloser{Reader: io.LimitReader(resp.Body, maxRemoteBody), Closer: resp.Body}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
