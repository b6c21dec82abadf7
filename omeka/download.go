package omeka

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// downloadChunkSize is the buffer size used when streaming files to disk
const downloadChunkSize = 8192

// DownloadFile streams the resource at rawURL to destPath, creating missing
// parent directories. It returns the number of bytes written.
//
// A file left over from a failed copy is removed. There is no resume and no
// atomic rename.
func (c *Client) DownloadFile(ctx context.Context, rawURL, destPath string) (int64, error) {
	written, err := c.downloadFile(ctx, rawURL, destPath)
	if err != nil {
		dlErr := &DownloadError{URL: redactRawURL(rawURL), Path: destPath, Err: err}
		c.logger.Error().Err(dlErr).Msg("File download error")
		return written, dlErr
	}

	c.logger.Debug().
		Str("url", redactRawURL(rawURL)).
		Str("path", destPath).
		Int64("bytes", written).
		Msg("Downloaded file")
	return written, nil
}

func (c *Client) downloadFile(ctx context.Context, rawURL, destPath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	resp, err := c.send(ctx, http.MethodGet, rawURL, nil, nil, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	buf := make([]byte, downloadChunkSize)
	written, copyErr := io.CopyBuffer(f, resp.Body, buf)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(destPath)
		return written, fmt.Errorf("failed to write file: %w", copyErr)
	}

	return written, nil
}
