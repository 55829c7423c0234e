package sesuite

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sesuite-go/sesuite/pkg/soap"
	"github.com/sesuite-go/sesuite/pkg/util"
)

// DefaultDownloadDir is where Download writes files, relative to the working
// directory.
const DefaultDownloadDir = "downloads"

type downloadConfig struct {
	baseURL string
	dir     string
	client  *http.Client
}

// DownloadOption configures Download.
type DownloadOption func(*downloadConfig)

// WithDownloadBaseURL overrides DefaultBaseURL.
func WithDownloadBaseURL(baseURL string) DownloadOption {
	return func(c *downloadConfig) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithDownloadDir overrides DefaultDownloadDir.
func WithDownloadDir(dir string) DownloadOption {
	return func(c *downloadConfig) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithDownloadHTTPClient sets the HTTP client used for the request.
func WithDownloadHTTPClient(client *http.Client) DownloadOption {
	return func(c *downloadConfig) {
		if client != nil {
			c.client = client
		}
	}
}

// FileURL returns the gateway URL of the file with the given hash.
func FileURL(baseURL, fileHash string) string {
	return strings.TrimRight(baseURL, "/") + "/apigateway/v1/file/" + url.PathEscape(fileHash)
}

// Download fetches the file identified by fileHash, as returned by
// GetTableRecord, and writes it to fileName inside the download directory,
// replacing any existing file. It returns the path written.
//
// A non-200 answer is returned as a form OperationError carrying the body.
func Download(ctx context.Context, token, fileHash, fileName string, opts ...DownloadOption) (string, error) {
	cfg := downloadConfig{
		baseURL: DefaultBaseURL,
		dir:     DefaultDownloadDir,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	name, ok := util.SafeFilePath(fileName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsafeFileName, fileName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, FileURL(cfg.baseURL, fileHash), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Authorization", token)

	resp, err := cfg.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("file download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", operationError(soap.Form, "", resp.StatusCode, string(data))
	}

	target := filepath.Join(cfg.dir, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil { //nolint:gosec // downloaded files are user documents
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return target, nil
}
