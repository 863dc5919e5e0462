package download

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/apkdock/apkdock/internal/constants"
	"github.com/apkdock/apkdock/internal/domain"
	"github.com/apkdock/apkdock/internal/pathutil"
)

// Engine streams release assets to disk, reporting progress over a channel.
type Engine struct {
	client      *http.Client
	downloadDir string
}

// NewEngine creates an engine writing into downloadDir
func NewEngine(downloadDir string) *Engine {
	return &Engine{
		client: &http.Client{
			Timeout: 30 * time.Minute,
		},
		downloadDir: downloadDir,
	}
}

// Download fetches url into destName under the download directory and returns
// a channel of progress snapshots. The channel is closed when the transfer
// finishes, fails, or the context is cancelled. Every failure surfaces as a
// terminal progress record carrying the error; a cancelled download ends the
// stream with no terminal record at all. Snapshots are sent at chunk
// granularity so byte counts only ever increase.
func (e *Engine) Download(ctx context.Context, url, destName string) <-chan domain.DownloadProgress {
	progress := make(chan domain.DownloadProgress, 16)

	go func() {
		defer close(progress)
		e.run(ctx, url, destName, progress)
	}()

	return progress
}

func (e *Engine) run(ctx context.Context, url, destName string, progress chan<- domain.DownloadProgress) {
	fail := func(err error) {
		progress <- domain.DownloadProgress{Error: err.Error()}
	}

	if err := os.MkdirAll(e.downloadDir, 0o755); err != nil {
		fail(domain.Errorf(domain.ErrDownloadFailed, "create download dir: %v", err))
		return
	}

	destPath, err := pathutil.SecureJoin(e.downloadDir, destName)
	if err != nil {
		fail(err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fail(domain.Errorf(domain.ErrDownloadFailed, "build request: %v", err))
		return
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		fail(domain.Errorf(domain.ErrDownloadFailed, "request failed: %v", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fail(domain.Errorf(domain.ErrDownloadFailed, "unexpected status %d", resp.StatusCode))
		return
	}

	if resp.Body == nil {
		fail(domain.Errorf(domain.ErrDownloadFailed, "empty response body"))
		return
	}

	out, err := os.Create(destPath)
	if err != nil {
		fail(domain.Errorf(domain.ErrDownloadFailed, "create file: %v", err))
		return
	}
	defer out.Close()

	total := resp.ContentLength
	var downloaded int64
	buf := make([]byte, constants.DownloadChunkSize)

	for {
		// Cancellation is checked per chunk so a stop request takes effect
		// within one buffer's worth of bytes
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				fail(domain.Errorf(domain.ErrDownloadFailed, "write file: %v", writeErr))
				return
			}
			downloaded += int64(n)
			progress <- domain.DownloadProgress{
				BytesDownloaded: downloaded,
				TotalBytes:      total,
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				return
			}
			fail(domain.Errorf(domain.ErrDownloadFailed, "read body: %v", readErr))
			return
		}
	}

	if err := out.Sync(); err != nil {
		fail(domain.Errorf(domain.ErrDownloadFailed, "sync file: %v", err))
		return
	}

	progress <- domain.DownloadProgress{
		BytesDownloaded: downloaded,
		TotalBytes:      downloaded,
		IsComplete:      true,
	}
}

// DownloadedAPK returns the path of a previously downloaded asset, or "" when
// no file with that name exists yet.
func (e *Engine) DownloadedAPK(destName string) string {
	destPath, err := pathutil.SecureJoin(e.downloadDir, destName)
	if err != nil {
		return ""
	}
	info, err := os.Stat(destPath)
	if err != nil || info.IsDir() {
		return ""
	}
	return destPath
}

// Remove deletes a downloaded asset. Missing files are not an error.
func (e *Engine) Remove(destName string) error {
	destPath, err := pathutil.SecureJoin(e.downloadDir, destName)
	if err != nil {
		return err
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return domain.Errorf(domain.ErrDownloadFailed, "remove file: %v", err)
	}
	return nil
}
