package nsrdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/nsrdb-epw-service/internal/domain"
	"github.com/couchcryptid/nsrdb-epw-service/internal/observability"
)

// Default endpoints of the NSRDB PSM v4 GOES download API.
const (
	DefaultAggregatedURL = "https://developer.nrel.gov/api/nsrdb/v2/solar/nsrdb-GOES-aggregated-v4-0-0-download.csv"
	DefaultTypicalURL    = "https://developer.nrel.gov/api/nsrdb/v2/solar/nsrdb-GOES-tmy-v4-0-0-download.csv"
	DefaultTimeout       = 20 * time.Second
)

// maxErrorBody caps how much of a rejection body ends up in an error.
const maxErrorBody = 64 << 10

// RejectionError is a non-success HTTP status from the NSRDB.
// URL and Body never contain the API key.
type RejectionError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("NSRDB request failed (%d) for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Unwrap lets errors.Is match domain.ErrRemoteRejection.
func (e *RejectionError) Unwrap() error { return domain.ErrRemoteRejection }

// Client downloads point data from the NSRDB.
type Client struct {
	httpClient    *http.Client
	aggregatedURL string
	typicalURL    string
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewClient creates an NSRDB download client. Empty URLs fall back to the defaults.
func NewClient(aggregatedURL, typicalURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if aggregatedURL == "" {
		aggregatedURL = DefaultAggregatedURL
	}
	if typicalURL == "" {
		typicalURL = DefaultTypicalURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		aggregatedURL: aggregatedURL,
		typicalURL:    typicalURL,
		logger:        logger,
		metrics:       metrics,
	}
}

// Fetch performs one GET for a validated request and returns the CSV body.
func (c *Client) Fetch(ctx context.Context, plan domain.Plan, query domain.Query) ([]byte, error) {
	endpoint := string(plan.Endpoint)
	start := time.Now()

	body, err := c.fetch(ctx, plan, query)

	c.metrics.FetchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	c.metrics.FetchRequests.WithLabelValues(endpoint, fetchOutcome(err)).Inc()
	return body, err
}

func (c *Client) fetch(ctx context.Context, plan domain.Plan, query domain.Query) ([]byte, error) {
	base, err := c.endpointURL(plan.Endpoint)
	if err != nil {
		return nil, err
	}
	secret := query.Get(domain.CredentialParam)
	fullURL := base + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request for %s: %s", domain.ErrTransport,
			domain.SanitizeURL(fullURL), domain.ScrubSecret(err.Error(), secret))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-cache")

	c.logger.Debug("nsrdb request",
		"endpoint", plan.Endpoint,
		"url", domain.SanitizeURL(fullURL),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, sanitizeTransportError(err, secret))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RejectionError{
			StatusCode: resp.StatusCode,
			URL:        domain.SanitizeURL(fullURL),
			Body:       domain.ScrubSecret(errorPayload([]byte(domain.ScrubSecret(string(raw), secret))), secret),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrTransport, sanitizeTransportError(err, secret))
	}
	return body, nil
}

func (c *Client) endpointURL(e domain.Endpoint) (string, error) {
	switch e {
	case domain.EndpointAggregated:
		return c.aggregatedURL, nil
	case domain.EndpointTypical:
		return c.typicalURL, nil
	default:
		return "", fmt.Errorf("%w: unknown endpoint %q", domain.ErrInvalidRequest, e)
	}
}

// sanitizeTransportError strips the credential from the URL carried by
// net/http errors so the message can be logged.
func sanitizeTransportError(err error, secret string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = domain.SanitizeURL(urlErr.URL)
	}
	if secret != "" && strings.Contains(err.Error(), secret) {
		return errors.New(domain.ScrubSecret(err.Error(), secret))
	}
	return err
}

// errorPayload renders a rejection body: compact JSON as-is, anything else
// wrapped as {"message": "..."}.
func errorPayload(raw []byte) string {
	if json.Valid(raw) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	msg, _ := json.Marshal(map[string]string{"message": strings.TrimSpace(string(raw))})
	return string(msg)
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrRemoteRejection):
		return "rejected"
	case errors.Is(err, domain.ErrTransport):
		return "transport_error"
	default:
		return "error"
	}
}
