package destination

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/kart-io/mediahook/pkg/errors"
	"github.com/kart-io/mediahook/pkg/logger"
)

// DefaultHTTPTimeout bounds one delivery attempt over HTTP.
const DefaultHTTPTimeout = 30 * time.Second

// NewHTTPClient returns the HTTP client destination kinds deliver with.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: DefaultHTTPTimeout,
		Transport: &http.Transport{
			IdleConnTimeout: 30 * time.Second,
		},
	}
}

// PostBody POSTs body to url with the given content type and extra headers.
// A header named Content-Type overrides contentType. Non-success responses
// are logged with method, URL, request body, response body and status code
// for diagnosability, then reported as transport errors; they are never
// retried.
func PostBody(ctx context.Context, client *http.Client, url, contentType string, headers map[string]string, body []byte, log logger.Logger) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.New(errors.ErrTransport, "failed to build request").WithCause(err)
	}
	req.Header.Set("Content-Type", contentType)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.New(errors.ErrTransport, "request failed").WithCause(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error("destination returned non-success status",
			"method", http.MethodPost,
			"url", url,
			"status", resp.StatusCode,
			"requestBody", string(body),
			"responseBody", string(respBody))
		return errors.Newf(errors.ErrTransport, "destination returned status %d", resp.StatusCode)
	}
	return nil
}
