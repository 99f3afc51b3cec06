// Package storeclient implements the overlay store boundary over its
// REST surface. It applies no retry policy; callers layer pkg/retry if
// they want resilience.
package storeclient

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

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"

	"go.uber.org/zap"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.SugaredLogger) ports.OverlayStore {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) List(ctx context.Context, ref domain.StreamRef) ([]domain.Overlay, error) {
	endpoint := fmt.Sprintf("%s/overlays?streamRef=%s", c.baseURL, url.QueryEscape(string(ref)))

	var overlays []domain.Overlay
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &overlays); err != nil {
		return nil, err
	}
	return overlays, nil
}

func (c *Client) Create(ctx context.Context, draft domain.Draft) (domain.Overlay, error) {
	var created domain.Overlay
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/overlays", draft, &created); err != nil {
		return domain.Overlay{}, err
	}
	return created, nil
}

func (c *Client) Update(ctx context.Context, id domain.OverlayID, overlay domain.Overlay) (domain.Overlay, error) {
	var updated domain.Overlay
	endpoint := c.baseURL + "/overlays/" + url.PathEscape(string(id))
	if err := c.do(ctx, http.MethodPut, endpoint, overlay, &updated); err != nil {
		return domain.Overlay{}, err
	}
	return updated, nil
}

// Delete treats a vanished id as success: the caller already removed
// the overlay locally and a second delete must not fail.
func (c *Client) Delete(ctx context.Context, id domain.OverlayID) error {
	endpoint := c.baseURL + "/overlays/" + url.PathEscape(string(id))

	err := c.do(ctx, http.MethodDelete, endpoint, nil, nil)
	if err != nil && !errors.Is(err, domain.ErrOverlayNotFound) {
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnw("overlay store request failed", "method", method, "url", endpoint, "error", err)
		return fmt.Errorf("%s %s: %w: %v", method, endpoint, domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w: %v", domain.ErrStoreUnavailable, err)
		}
	}
	return nil
}

// statusError maps the store's HTTP statuses onto the domain error
// taxonomy.
func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrOverlayNotFound
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrValidationRejected, readErrorBody(resp))
	default:
		return fmt.Errorf("%w: unexpected status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}
}

func readErrorBody(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err != nil || body.Error == "" {
		return "store rejected payload"
	}
	return body.Error
}
