package mapbox

import (
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

// DefaultBaseURL is the Mapbox Geocoding v5 places endpoint.
const DefaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: DefaultBaseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// ReverseGeocode converts coordinates to place, region and country names.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	// Mapbox uses lon,lat order.
	coord := fmt.Sprintf("%.6f,%.6f", lon, lat)
	u := fmt.Sprintf("%s/%s.json", c.baseURL, coord)
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality,region,country"},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
	case result.FormattedAddress == "":
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("reverse geocode request: %w", c.redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.GeocodingResult{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		return domain.GeocodingResult{}, nil
	}

	f := mapboxResp.Features[0]
	result := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
	}
	// The feature itself may be the region or country when nothing finer matches.
	for _, ctxItem := range append([]contextItem{{ID: f.ID, Text: f.Text}}, f.Context...) {
		switch featureType(ctxItem.ID) {
		case "region":
			result.Region = ctxItem.Text
		case "country":
			result.Country = ctxItem.Text
		}
	}
	c.logger.Debug("reverse geocoded", "place", result.FormattedAddress, "region", result.Region, "country", result.Country)
	return result, nil
}

// redact removes the access token from transport errors.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if c.token != "" && errors.As(err, &urlErr) {
		urlErr.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(c.token), "REDACTED")
	}
	return err
}

func featureType(id string) string {
	t, _, _ := strings.Cut(id, ".")
	return t
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID        string        `json:"id"`     // "<type>.<id>", e.g. "place.123"
	Center    []float64     `json:"center"` // [lon, lat]
	PlaceName string        `json:"place_name"`
	Text      string        `json:"text"`
	Relevance float64       `json:"relevance"`
	Context   []contextItem `json:"context"`
}

type contextItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code"`
}
