// Package upload sends finished files to an anonymous file host.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grabarr/internal/domain/consts"
	"grabarr/internal/utils/logging"
)

// DefaultHost is the upload endpoint used when none is configured.
const DefaultHost = "https://catbox.moe/user/api.php"

// Client uploads files over multipart HTTP. One upload runs at a time; the
// caller serializes.
type Client struct {
	host string
	http *http.Client
}

// NewClient builds a Client for the given endpoint, falling back to
// DefaultHost when empty.
func NewClient(host string) *Client {
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		host: host,
		// Large files over slow links; the watchdog does not cover uploads.
		http: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Upload posts the file and returns the URL the host assigned to it.
func (c *Client) Upload(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot upload %q: %w", path, err)
	}
	if info.Size() > consts.UploadMaxSizeMB*consts.BytesPerMB {
		return "", fmt.Errorf("%q exceeds the %d MB upload limit", path, consts.UploadMaxSizeMB)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	// Buffer the whole request; the host wants a Content-Length and the size
	// limit keeps this bounded.
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("reqtype", "fileupload"); err != nil {
		return "", fmt.Errorf("upload form error: %w", err)
	}
	part, err := writer.CreateFormFile("fileToUpload", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("upload form error: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("could not read %q: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload form error: %w", err)
	}

	logging.I("Uploading %s (%d MB) to %s", filepath.Base(path), info.Size()/consts.BytesPerMB, c.host)

	req, err := http.NewRequest(http.MethodPost, c.host, body)
	if err != nil {
		return "", fmt.Errorf("upload request error: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("upload response error: %w", err)
	}
	result := strings.TrimSpace(string(respBody))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload rejected with status %d: %s", resp.StatusCode, result)
	}
	if !strings.HasPrefix(result, "http") {
		return "", fmt.Errorf("upload host returned unexpected response: %s", result)
	}
	return result, nil
}
