package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
)

const (
	userAgent    = "quote-aggregator/1.0"
	maxErrorBody = 256
)

// DoJSON sends req with c and decodes a 2xx JSON response into out.
// Provider calls are never retried.
func DoJSON(ctx context.Context, c *http.Client, req *http.Request, out any) error {
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.Do(req.WithContext(ctx))
	if err != nil {
		return mapNetError(err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(apperrors.ErrProvider, "read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := buf
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return errors.Wrapf(apperrors.ErrProvider, "unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		return errors.Wrap(apperrors.ErrProvider, "empty response")
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return errors.Wrapf(apperrors.ErrProvider, "decode response: %v", err)
	}
	return nil
}

// GetJSON issues a GET with query and headers and decodes the JSON answer into out.
func GetJSON(ctx context.Context, c *http.Client, rawURL string, query url.Values, headers map[string]string, out any) error {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, "http.NewRequestWithContext")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return DoJSON(ctx, c, req, out)
}

// PostJSON issues a POST with body encoded as JSON and decodes the JSON answer into out.
func PostJSON(ctx context.Context, c *http.Client, rawURL string, body any, headers map[string]string, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "json.Marshal")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "http.NewRequestWithContext")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return DoJSON(ctx, c, req, out)
}

func mapNetError(err error) error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return errors.Wrapf(apperrors.ErrProvider, "timeout: %v", err)
	}
	return errors.Wrapf(apperrors.ErrProvider, "request: %v", err)
}
