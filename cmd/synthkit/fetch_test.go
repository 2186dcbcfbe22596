package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samcharles93/synthkit/internal/fetch"
	"github.com/samcharles93/synthkit/internal/logger"
)

func TestFetchAll(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("1,2,3\n"))
	}))
	t.Cleanup(ts.Close)

	f := fetch.New(fetch.Config{BaseURL: ts.URL + "/", MaxAttempts: 1, Logger: logger.Discard()})
	dir := filepath.Join(t.TempDir(), "sets")

	var out bytes.Buffer
	err := fetchAll(testContext(), f, dir, []string{"a.csv", "gone.csv", "a.csv"}, &out)
	if err == nil {
		t.Fatalf("expected an error for the missing file")
	}
	if !errors.Is(err, fetch.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed in %v", err)
	}
	if !strings.Contains(err.Error(), "1 of 3 files failed") {
		t.Fatalf("unexpected error text: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two report lines, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "downloaded\t") || !strings.HasPrefix(lines[1], "present\t") {
		t.Fatalf("unexpected report: %q", out.String())
	}
}
