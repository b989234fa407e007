package controllerImp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"docqa/pkg/document/service"
	"docqa/pkg/document/serviceImp"
)

var (
	ErrBadURL           = errors.New("bad url")
	ErrDomainNotAllowed = errors.New("domain not allowed")
)

// Fetcher downloads single pages from an allow-listed set of hosts.
type Fetcher struct {
	client   *http.Client
	allow    map[string]bool
	maxBytes int64
}

func NewFetcher(allowed []string, maxBytes int64, timeout time.Duration) *Fetcher {
	allow := map[string]bool{}
	for _, h := range allowed {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allow[h] = true
		}
	}
	if maxBytes <= 0 {
		maxBytes = 1500000
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}, allow: allow, maxBytes: maxBytes}
}

// Fetch returns the raw page and the file extension matching its content type.
func (f *Fetcher) Fetch(ctx context.Context, raw string) ([]byte, string, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("%w: %s", ErrBadURL, raw)
	}
	if !f.allow[strings.ToLower(u.Hostname())] {
		return nil, "", fmt.Errorf("%w: %s", ErrDomainNotAllowed, u.Hostname())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", u.Host, resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, "", fmt.Errorf("page too large")
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, "", err
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "text/html"):
		return b, "html", nil
	case strings.Contains(ct, "text/plain"):
		return b, "txt", nil
	}
	return nil, "", fmt.Errorf("unsupported content-type: %s", ct)
}

// pageName builds the stored file name for a fetched page.
func pageName(title, raw, ext string) string {
	base := serviceImp.SanitizeFilename(title)
	if base == "" {
		if u, err := url.Parse(raw); err == nil {
			base = serviceImp.SanitizeFilename(u.Hostname() + strings.ReplaceAll(u.Path, "/", "_"))
		}
	}
	if base == "" {
		base = "page"
	}
	return strings.TrimSuffix(base, "."+ext) + "." + ext
}

func (h *DocumentCtrl) IngestURL(c echo.Context) error {
	var body struct {
		URL      string `json:"url"`
		Title    string `json:"title"`
		FolderID *uint  `json:"folder_id"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.URL) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url required"})
	}
	if h.fetch == nil {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "domain not allowed"})
	}
	var opts service.IngestOptions
	if body.FolderID != nil {
		var status int
		var msg string
		if opts, status, msg = h.checkFolder(c.Request().Context(), *body.FolderID); status != 0 {
			return c.JSON(status, map[string]string{"error": msg})
		}
	}

	data, ext, err := h.fetch.Fetch(c.Request().Context(), strings.TrimSpace(body.URL))
	switch {
	case errors.Is(err, ErrDomainNotAllowed):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "domain not allowed"})
	case errors.Is(err, ErrBadURL):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad url"})
	case err != nil:
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	up := service.Upload{Filename: pageName(body.Title, body.URL, ext), Data: data}
	res, err := h.s.Ingest(c.Request().Context(), []service.Upload{up}, opts)
	return ingestResponse(c, res, err)
}
