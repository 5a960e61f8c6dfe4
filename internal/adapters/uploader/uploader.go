package uploader

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"listing_console/internal/adapters/observability"
	"listing_console/internal/domain"
)

// Client posts media to the upload service as multipart/form-data and keeps
// only the URL it answers with.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

type uploadResponse struct {
	URL  string `json:"url"`
	Data *struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (c *Client) Upload(ctx context.Context, f domain.UploadFile, kind domain.MediaKind) (domain.UploadResult, error) {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	var out uploadResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", f.Name, ct, f.Body).
		SetFormData(map[string]string{"kind": string(kind)}).
		SetResult(&out).
		Post("/uploads")
	if err != nil {
		observability.ObserveExternal("uploader", string(kind), 0, time.Since(start))
		return domain.UploadResult{}, fmt.Errorf("upload %s: %w", f.Name, err)
	}
	observability.ObserveExternal("uploader", string(kind), resp.StatusCode(), time.Since(start))

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return domain.UploadResult{}, fmt.Errorf("upload %s: %w", f.Name, domain.ErrForbidden)
	case resp.IsError():
		return domain.UploadResult{}, fmt.Errorf("upload %s: status %d: %s", f.Name, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	u := out.URL
	if u == "" && out.Data != nil {
		u = out.Data.URL
	}
	if u == "" {
		return domain.UploadResult{}, fmt.Errorf("upload %s: response carried no url", f.Name)
	}
	return domain.UploadResult{URL: u}, nil
}
