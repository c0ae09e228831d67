package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/loomhaven/api/internal/platform/config"
)

// ErrNoPublicURL is returned when the upload backend's response carries no
// recognisable URL in any known shape.
var ErrNoPublicURL = errors.New("storage: upload response carried no public url")

// Client uploads objects to the configured storage backend over HTTP and
// resolves the public URL from the backend's response.
type Client struct {
	uploadURL    string
	publicPrefix string
	httpClient   *http.Client
}

// NewClient builds a storage client from config.
func NewClient(cfg config.StorageConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		uploadURL:    cfg.UploadURL,
		publicPrefix: strings.TrimRight(cfg.PublicPrefix, "/"),
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Upload posts the object as multipart form data and returns the public URL
// the backend reports for it.
func (c *Client) Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error) {
	if c.uploadURL == "" {
		return "", errors.New("storage: upload url not configured")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", objectName)
	if err != nil {
		return "", fmt.Errorf("storage: build form: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("storage: copy body: %w", err)
	}
	if contentType != "" {
		_ = mw.WriteField("content_type", contentType)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("storage: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("storage: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: upload: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("storage: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage: upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	u, err := extractURL(raw)
	if err != nil {
		return "", err
	}
	return c.qualify(u), nil
}

// qualify prefixes relative URLs with the configured public prefix.
func (c *Client) qualify(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if c.publicPrefix == "" {
		return u
	}
	return c.publicPrefix + "/" + strings.TrimLeft(u, "/")
}

var urlKeys = []string{"url", "publicUrl", "publicURL", "signedUrl", "signedURL", "public_url", "signed_url"}

// extractURL tries known response shapes in order: a bare JSON string, an
// object with one of the known URL keys, then the same keys nested under
// "data".
func extractURL(raw []byte) (string, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil && strings.TrimSpace(asString) != "" {
		return strings.TrimSpace(asString), nil
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asObject); err != nil {
		trimmed := strings.TrimSpace(string(raw))
		if trimmed != "" && !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			return trimmed, nil
		}
		return "", ErrNoPublicURL
	}

	if u := urlFromObject(asObject); u != "" {
		return u, nil
	}
	if data, ok := asObject["data"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(data, &nested); err == nil {
			if u := urlFromObject(nested); u != "" {
				return u, nil
			}
		}
	}
	return "", ErrNoPublicURL
}

func urlFromObject(obj map[string]json.RawMessage) string {
	for _, key := range urlKeys {
		rawVal, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(rawVal, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
