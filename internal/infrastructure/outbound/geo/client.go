package geo_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"community-feed-service/internal/domain/custom_errors"
	ports "community-feed-service/internal/domain/ports/output"
)

const maxResponseBytes = 1 << 20

// newHTTPClient builds a client that gives up after timeout per attempt and
// retries at most retryMax times on connection errors and 5xx responses.
func newHTTPClient(timeout time.Duration, retryMax int, log ports.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = timeout
	client.RetryMax = retryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = log
	return client
}

// getJSON performs a GET and decodes a 200 response into dest. Transport
// failures and unexpected statuses are reported as upstream unavailability.
func getJSON(ctx context.Context, client *retryablehttp.Client, endpoint string, query url.Values, dest any, service string, log ports.Logger, metrics ports.MetricsProvider) (json.RawMessage, error) {
	start := time.Now()
	success := false
	defer func() {
		metrics.IncrementUpstreamRequests(service, success)
		metrics.RecordUpstreamRequestDuration(service, time.Since(start))
	}()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build %s request: %v", custom_errors.ErrUpstreamUnavailable, service, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Warn("Upstream request failed", slog.String("service", service), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s: %v", custom_errors.ErrUpstreamUnavailable, service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", custom_errors.ErrUpstreamUnavailable, service, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn("Upstream returned unexpected status",
			slog.String("service", service),
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s returned status %d", custom_errors.ErrUpstreamUnavailable, service, resp.StatusCode)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		log.Warn("Upstream returned malformed body", slog.String("service", service), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: decode %s response: %v", custom_errors.ErrUpstreamUnavailable, service, err)
	}

	success = true
	return body, nil
}
