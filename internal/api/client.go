package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DeletePagePath = "/api/delete_page"
	ValidatePath   = "/api/validate"
	ExtractPath    = "/api/extract"
	UploadPath     = "/upload"
	DownloadPath   = "/download"
	EditorPath     = "/editor"
	ResetPath      = "/reset"

	// UploadField is the repeated multipart field carrying staged files.
	UploadField = "files[]"
)

// Client talks to the PDF editor server. The server keys all document state
// on a session cookie, so every Client keeps a cookie jar.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means requests run
// until the server answers or the connection fails.
func NewClient(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}
}

// Jar exposes the session cookie jar.
func (c *Client) Jar() http.CookieJar {
	return c.httpClient.Jar
}

// URL resolves an endpoint path against the base URL.
func (c *Client) URL(path string) string {
	return c.BaseURL + path
}

// DeletePage removes one page from the current document.
func (c *Client) DeletePage(ctx context.Context, pageID string) (*DeletePageResponse, error) {
	body, err := json.Marshal(DeletePageRequest{PageID: pageID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode delete request: %w", err)
	}

	var resp DeletePageResponse
	if err := c.postJSON(ctx, DeletePagePath, body, &resp, "Failed to delete page"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate checks question numbering of the merged document.
func (c *Client) Validate(ctx context.Context) (*ValidateResponse, error) {
	var resp ValidateResponse
	if err := c.postJSON(ctx, ValidatePath, nil, &resp, "Validation failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Extract requests the question extraction preview report.
func (c *Client) Extract(ctx context.Context) (*ExtractResponse, error) {
	var resp ExtractResponse
	if err := c.postJSON(ctx, ExtractPath, nil, &resp, "Extraction failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upload sends all files in one multipart request.
func (c *Client) Upload(ctx context.Context, files []UploadFile) (*UploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := writer.CreateFormFile(UploadField, f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create form part for %s: %w", f.Name, err)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		_, err = io.Copy(part, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, UploadPath, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp UploadResponse
	if err := c.doJSON(req, &resp, "Upload failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadURL is where a browser navigates to fetch the merged PDF.
func (c *Client) DownloadURL() string {
	return c.URL(DownloadPath)
}

// Download streams the merged PDF into w and returns the filename the
// server suggested.
func (c *Client) Download(ctx context.Context, w io.Writer) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, DownloadPath, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download merged PDF: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("download returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/pdf") {
		return "", fmt.Errorf("download returned %q instead of a PDF", ct)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("failed to save merged PDF: %w", err)
	}

	filename := DefaultDownloadName
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return filename, nil
}

// Editor fetches the server-rendered editor view.
func (c *Client) Editor(ctx context.Context) (io.ReadCloser, error) {
	return c.get(ctx, EditorPath, "failed to load editor")
}

// Reset clears the server session.
func (c *Client) Reset(ctx context.Context) error {
	rc, err := c.get(ctx, ResetPath, "failed to reset session")
	if err != nil {
		return err
	}
	return rc.Close()
}

func (c *Client) get(ctx context.Context, path, failure string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", failure, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: HTTP %d", failure, resp.StatusCode)
	}
	return resp.Body, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body []byte, out Result, fallback string) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out, fallback)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// doJSON decodes the response regardless of status code. The server reports
// logical failures as {"error": ...} with a 4xx/5xx status, and the body is
// what carries the message.
func (c *Client) doJSON(req *http.Request, out Result, fallback string) error {
	slog.Debug("API request", "method", req.Method, "path", req.URL.Path, "request_id", req.Header.Get("X-Request-ID"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", req.URL.Path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unexpected response from %s (HTTP %d): %w", req.URL.Path, resp.StatusCode, err)
	}

	if !out.OK() {
		msg := out.ErrorMessage()
		if msg == "" {
			msg = fallback
		}
		return &ServerError{Status: resp.StatusCode, Message: msg}
	}

	return nil
}
