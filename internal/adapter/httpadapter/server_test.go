package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nsrdb-epw-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/nsrdb-epw-service/internal/domain"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockConverter struct {
	dir   string
	err   error
	calls int
	spec  domain.RequestSpec
}

func (m *mockConverter) Convert(_ context.Context, spec domain.RequestSpec) (string, error) {
	m.calls++
	m.spec = spec
	if m.err != nil {
		return "", m.err
	}
	path := filepath.Join(m.dir, "Golden_39.74_-105.18_2012_2026.epw")
	if err := os.WriteFile(path, []byte("LOCATION,Golden\r\n"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func testDefaults() httpadapter.Defaults {
	return httpadapter.Defaults{
		Attributes: []string{"ghi", "dni"},
		Email:      "ops@example.com",
		APIKey:     "server-key",
	}
}

func newTestServer(t *testing.T, conv *mockConverter, readyErr error) *httpadapter.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", conv, testDefaults(), &mockReadiness{err: readyErr}, logger)
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(t, &mockConverter{}, nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(t, &mockConverter{}, nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(t, &mockConverter{}, fmt.Errorf("output directory not writable")), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(t, &mockConverter{}, nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestEPW_Success(t *testing.T) {
	conv := &mockConverter{dir: t.TempDir()}
	srv := newTestServer(t, conv, nil)

	rec := get(srv, "/v1/epw?lat=39.74&lon=-105.18&period=2012&location=Golden&interval=30&leap_year=true&utc=false")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LOCATION,Golden\r\n", rec.Body.String())
	assert.Equal(t, `attachment; filename="Golden_39.74_-105.18_2012_2026.epw"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	assert.Equal(t, 39.74, conv.spec.Latitude)
	assert.Equal(t, -105.18, conv.spec.Longitude)
	assert.Equal(t, "2012", conv.spec.Period)
	assert.Equal(t, "Golden", conv.spec.LocationLabel)
	assert.Equal(t, 30, conv.spec.IntervalMinutes)
	assert.True(t, conv.spec.LeapYear)
	assert.False(t, conv.spec.UTC)
	assert.Equal(t, []string{"ghi", "dni"}, conv.spec.Attributes)
	assert.Equal(t, "ops@example.com", conv.spec.Email)
	assert.Equal(t, "server-key", conv.spec.APIKey)
}

func TestEPW_DefaultInterval(t *testing.T) {
	conv := &mockConverter{dir: t.TempDir()}

	rec := get(newTestServer(t, conv, nil), "/v1/epw?lat=0&lon=0&period=tmy")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 60, conv.spec.IntervalMinutes)
}

func TestEPW_PropagatesRequestID(t *testing.T) {
	conv := &mockConverter{dir: t.TempDir()}
	req := httptest.NewRequest(http.MethodGet, "/v1/epw?lat=0&lon=0&period=2012", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()

	newTestServer(t, conv, nil).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestEPW_BadQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing lat", "lon=0&period=2012"},
		{"missing lon", "lat=0&period=2012"},
		{"bad lat", "lat=north&lon=0&period=2012"},
		{"missing period", "lat=0&lon=0"},
		{"bad interval", "lat=0&lon=0&period=2012&interval=hourly"},
		{"bad leap_year", "lat=0&lon=0&period=2012&leap_year=sometimes"},
		{"bad utc", "lat=0&lon=0&period=2012&utc=2"},
		{"year before archive", "lat=0&lon=0&period=1997"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &mockConverter{dir: t.TempDir()}

			rec := get(newTestServer(t, conv, nil), "/v1/epw?"+tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, conv.calls)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestEPW_ConversionErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid", fmt.Errorf("%w: period", domain.ErrInvalidRequest), http.StatusBadRequest},
		{"unavailable", fmt.Errorf("%w: 2025", domain.ErrUnavailableData), http.StatusBadRequest},
		{"rejected", fmt.Errorf("%w: 403", domain.ErrRemoteRejection), http.StatusBadGateway},
		{"empty", domain.ErrEmptyResponse, http.StatusBadGateway},
		{"malformed", domain.ErrMalformedResponse, http.StatusBadGateway},
		{"transport", fmt.Errorf("%w: timeout", domain.ErrTransport), http.StatusGatewayTimeout},
		{"other", fmt.Errorf("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &mockConverter{dir: t.TempDir(), err: tt.err}

			rec := get(newTestServer(t, conv, nil), "/v1/epw?lat=0&lon=0&period=2012")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestEPW_InternalErrorHidesDetail(t *testing.T) {
	conv := &mockConverter{dir: t.TempDir(), err: fmt.Errorf("open /secret/path: permission denied")}

	rec := get(newTestServer(t, conv, nil), "/v1/epw?lat=0&lon=0&period=2012")

	assert.NotContains(t, rec.Body.String(), "/secret/path")
}

func TestEPW_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, &mockConverter{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/epw", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
