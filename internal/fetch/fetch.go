package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/samcharles93/synthkit/internal/logger"
)

// DefaultBaseURL is the dataset mirror files are fetched from unless
// configured otherwise.
const DefaultBaseURL = "http://spider.cd.cse/~gpclend/unclassified_data_sets/"

const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 500 * time.Millisecond
	DefaultMaxBackoff  = 8 * time.Second
	DefaultTimeout     = 60 * time.Second
)

type Config struct {
	BaseURL     string
	MaxAttempts int
	Backoff     time.Duration
	MaxBackoff  time.Duration

	// Timeout bounds each request. Ignored when HTTPClient is set.
	Timeout    time.Duration
	HTTPClient *http.Client

	// Logger defaults to the logger carried by the call context.
	Logger logger.Logger
}

type Fetcher struct {
	baseURL     string
	maxAttempts int
	backoff     time.Duration
	maxBackoff  time.Duration
	client      *http.Client
	log         logger.Logger
	sleep       func(context.Context, time.Duration) error
}

// Result describes a completed Fetch.
type Result struct {
	Path     string `json:"path"`
	Cached   bool   `json:"cached"`
	Attempts int    `json:"attempts"`
	Bytes    int64  `json:"bytes"`
}

func New(cfg Config) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.MaxBackoff < cfg.Backoff {
		cfg.MaxBackoff = max(DefaultMaxBackoff, cfg.Backoff)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{
		baseURL:     cfg.BaseURL,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		maxBackoff:  cfg.MaxBackoff,
		client:      client,
		log:         cfg.Logger,
		sleep:       sleepContext,
	}
}

func (f *Fetcher) BaseURL() string  { return f.baseURL }
func (f *Fetcher) MaxAttempts() int { return f.maxAttempts }

// GetFile downloads fileName into outDir and reports success. A file that is
// already present counts as success and causes no network traffic. The
// attempt ceiling is Config.MaxAttempts (default 3).
func (f *Fetcher) GetFile(ctx context.Context, fileName, outDir string) bool {
	_, err := f.Fetch(ctx, fileName, outDir)
	return err == nil
}

// Fetch creates outDir if needed (not its parents), returns early when
// outDir/fileName exists, and otherwise downloads BaseURL+fileName with up to
// MaxAttempts attempts. Network errors, 5xx and 429 responses are retried with
// exponential backoff. The body is written to a temporary file in outDir and
// renamed into place, so a failed download never leaves a partial file.
//
// Every download failure matches ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, fileName, outDir string) (Result, error) {
	if clean := filepath.Clean(filepath.FromSlash(fileName)); fileName == "" || clean == "." || !filepath.IsLocal(clean) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidFileName, fileName)
	}
	log := f.loggerFor(ctx).With("file", fileName)

	if err := ensureDir(outDir); err != nil {
		return Result{}, fetchError{name: fileName, err: err}
	}

	target := filepath.Join(outDir, filepath.FromSlash(fileName))
	if info, err := os.Stat(target); err == nil {
		if !info.Mode().IsRegular() {
			return Result{}, fetchError{name: fileName, err: fmt.Errorf("%s exists and is not a regular file", target)}
		}
		log.Debug("file already present, skipping download", "path", target)
		return Result{Path: target, Cached: true}, nil
	}

	url := f.baseURL + fileName
	res := Result{Path: target}
	for {
		res.Attempts++
		n, err := f.download(ctx, url, target)
		if err == nil {
			res.Bytes = n
			log.Info("downloaded", "path", target, "bytes", n, "attempts", res.Attempts)
			return res, nil
		}
		if res.Attempts >= f.maxAttempts || !retryable(ctx, err) {
			log.Error("download failed", "url", url, "attempts", res.Attempts, "error", err)
			return res, fetchError{name: fileName, err: err}
		}

		delay := f.delay(res.Attempts)
		log.Warn("download attempt failed, retrying", "url", url, "attempt", res.Attempts, "delay", delay, "error", err)
		if err := f.sleep(ctx, delay); err != nil {
			return res, fetchError{name: fileName, err: err}
		}
	}
}

func (f *Fetcher) download(ctx context.Context, url, target string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return 0, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return writeAtomic(target, resp.Body)
}

func (f *Fetcher) delay(attempt int) time.Duration {
	d := f.backoff
	for i := 1; i < attempt && d < f.maxBackoff; i++ {
		d *= 2
	}
	return min(d, f.maxBackoff)
}

func (f *Fetcher) loggerFor(ctx context.Context) logger.Logger {
	if f.log != nil {
		return f.log
	}
	return logger.FromContext(ctx)
}

func ensureDir(dir string) error {
	st, err := os.Stat(dir)
	switch {
	case err == nil && !st.IsDir():
		return fmt.Errorf("output path is not a directory: %s", dir)
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if err := os.Mkdir(dir, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
			return err
		}
		return nil
	default:
		return err
	}
}

func writeAtomic(target string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.part")
	if err != nil {
		return 0, err
	}
	fail := func(err error) (int64, error) {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return 0, err
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

// retryable classifies a failed attempt. Local filesystem failures and
// client-side HTTP statuses will not improve on retry.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	return !errors.As(err, &pathErr) && !errors.As(err, &linkErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
