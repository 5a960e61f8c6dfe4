// internal/adapters/listingapi/client.go
package listingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"listing_console/internal/adapters/observability"
	"listing_console/internal/domain"
)

const service = "listing_api"

// Client talks to the external listing service. Every call is a single
// attempt; callers decide whether to try again.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		return nil, fmt.Errorf("listing API base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// StatusError is a non-2xx answer not covered by a domain sentinel.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("listing api: status %d", e.Status)
	}
	return fmt.Sprintf("listing api: status %d: %s", e.Status, e.Body)
}

// ---- Public API ----

func (c *Client) GetListing(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "get_listing", "/listings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return unwrapObject(out), nil
}

// GetMasterList tries /master/{kind} first and falls back to the legacy /{kind}.
func (c *Client) GetMasterList(ctx context.Context, kind domain.MasterKind) ([]map[string]any, error) {
	candidates := []string{
		"/master/" + url.PathEscape(string(kind)),
		"/" + url.PathEscape(string(kind)),
	}
	var last error
	for _, p := range candidates {
		var raw json.RawMessage
		err := c.do(ctx, http.MethodGet, "master_"+string(kind), p, nil, &raw)
		if errors.Is(err, domain.ErrNotFound) {
			last = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return decodeList(raw)
	}
	return nil, last
}

func (c *Client) PropertyNumberTaken(ctx context.Context, number, excludeListingID string) (bool, error) {
	q := url.Values{"propertyNo": {number}}
	if excludeListingID != "" {
		q.Set("excludeId", excludeListingID)
	}
	var out struct {
		Exists *bool `json:"exists"`
		Taken  *bool `json:"taken"`
	}
	if err := c.do(ctx, http.MethodGet, "check_property_no", "/listings/check-property-no?"+q.Encode(), nil, &out); err != nil {
		return false, err
	}
	switch {
	case out.Exists != nil:
		return *out.Exists, nil
	case out.Taken != nil:
		return *out.Taken, nil
	}
	return false, fmt.Errorf("%w: property number check returned no verdict", domain.ErrUpstream)
}

func (c *Client) CreateListing(ctx context.Context, w domain.WireListing) (string, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "create_listing", "/listings", w, &out); err != nil {
		return "", err
	}
	obj := unwrapObject(out)
	for _, k := range []string{"_id", "id"} {
		if s, ok := obj[k].(string); ok && s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: create listing returned no id", domain.ErrUpstream)
}

func (c *Client) UpdateListing(ctx context.Context, id string, w domain.WireListing) error {
	return c.do(ctx, http.MethodPut, "update_listing", "/listings/"+url.PathEscape(id), w, nil)
}

// ---- Internals ----

// unwrapObject accepts both a bare record and {"data": record}.
func unwrapObject(m map[string]any) map[string]any {
	if inner, ok := m["data"].(map[string]any); ok {
		return inner
	}
	if m == nil {
		return map[string]any{}
	}
	return m
}

func decodeList(raw json.RawMessage) ([]map[string]any, error) {
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode master list: %w", err)
	}
	return wrapped.Data, nil
}

// do performs one rate-limited request, JSON-encoding in and decoding into out.
func (c *Client) do(ctx context.Context, method, endpoint, path string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "listing-console/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %w", domain.ErrUpstream, endpoint, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: decode %s: %w", domain.ErrUpstream, endpoint, err)
		}
		return nil

	case http.StatusNoContent:
		return nil

	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", endpoint, domain.ErrNotFound)

	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: status %d: %w", endpoint, resp.StatusCode, domain.ErrForbidden)

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s: %w", domain.ErrUpstream, endpoint, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))})
	}
}
