package covers

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// retryBaseDelay is the first backoff step. Tests shrink it.
var retryBaseDelay = time.Second

const maxBackoff = 30 * time.Second

// fetch GETs url, retrying on transport errors, 429 and 5xx.
func (d *Downloader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", UserAgent)

	var lastErr error
	for attempt := range d.opts.MaxRetries {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}

		resp, err := d.client.Do(req.Clone(ctx))
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http %d from %s", resp.StatusCode, url)
		case resp.StatusCode != http.StatusOK:
			_ = resp.Body.Close()
			return nil, eris.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		default:
			return resp.Body, nil
		}

		zap.L().Debug("Cover request failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
		if err := backoff(ctx, attempt); err != nil {
			return nil, eris.Wrap(err, "backoff")
		}
	}
	return nil, eris.Wrap(lastErr, "all retries exhausted")
}

// backoff sleeps for an exponentially growing, jittered delay.
func backoff(ctx context.Context, attempt int) error {
	d := time.Duration(float64(retryBaseDelay) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	if half := int64(d) / 2; half > 0 {
		d += time.Duration(rand.Int64N(half))
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// fetchToFile downloads url into dest through a temporary file in the same
// directory, so readers never observe a partial image.
func (d *Downloader) fetchToFile(ctx context.Context, url, dest string) error {
	body, err := d.fetch(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "create covers dir")
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "write image")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return eris.Wrap(err, "chmod image")
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return eris.Wrap(err, "rename image")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
