package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/couchcryptid/nsrdb-epw-service/internal/domain"
)

const requestIDHeader = "X-Request-ID"

// Converter runs one conversion and returns the written file path.
type Converter interface {
	Convert(ctx context.Context, spec domain.RequestSpec) (string, error)
}

// Defaults fills the request fields a caller of the endpoint does not supply.
type Defaults struct {
	Attributes  []string
	FullName    string
	Email       string
	Affiliation string
	Reason      string
	MailingList bool
	APIKey      string
}

type epwHandler struct {
	conv     Converter
	defaults Defaults
	logger   *slog.Logger
}

func newEPWHandler(conv Converter, defaults Defaults, logger *slog.Logger) http.Handler {
	return &epwHandler{conv: conv, defaults: defaults, logger: logger}
}

// ServeHTTP handles GET /v1/epw?lat=&lon=&period=&location=&interval=&leap_year=&utc=.
func (h *epwHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)
	logger := h.logger.With("request_id", requestID)

	spec, err := h.specFromQuery(r)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	path, err := h.conv.Convert(r.Context(), spec)
	if err != nil {
		logger.Warn("conversion failed", "error", err)
		writeError(w, err, requestID)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Error("open converted file", "path", path, "error", err)
		writeError(w, err, requestID)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	name := filepath.Base(path)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (h *epwHandler) specFromQuery(r *http.Request) (domain.RequestSpec, error) {
	q := r.URL.Query()

	lat, err := requiredFloat(q.Get("lat"), "lat")
	if err != nil {
		return domain.RequestSpec{}, err
	}
	lon, err := requiredFloat(q.Get("lon"), "lon")
	if err != nil {
		return domain.RequestSpec{}, err
	}
	period := strings.TrimSpace(q.Get("period"))
	if period == "" {
		return domain.RequestSpec{}, fmt.Errorf("%w: period is required", domain.ErrInvalidRequest)
	}
	interval := 60
	if v := q.Get("interval"); v != "" {
		if interval, err = strconv.Atoi(v); err != nil {
			return domain.RequestSpec{}, fmt.Errorf("%w: interval %q is not an integer", domain.ErrInvalidRequest, v)
		}
	}
	leapYear, err := optionalBool(q.Get("leap_year"), "leap_year")
	if err != nil {
		return domain.RequestSpec{}, err
	}
	utc, err := optionalBool(q.Get("utc"), "utc")
	if err != nil {
		return domain.RequestSpec{}, err
	}

	if plan, err := domain.Validate(period, interval); err == nil {
		if err := domain.CheckMinimumYear(plan.Period); err != nil {
			return domain.RequestSpec{}, err
		}
	}

	return domain.RequestSpec{
		Longitude:       lon,
		Latitude:        lat,
		Period:          period,
		LocationLabel:   q.Get("location"),
		Attributes:      h.defaults.Attributes,
		IntervalMinutes: interval,
		UTC:             utc,
		FullName:        h.defaults.FullName,
		Email:           h.defaults.Email,
		Affiliation:     h.defaults.Affiliation,
		Reason:          h.defaults.Reason,
		MailingList:     h.defaults.MailingList,
		LeapYear:        leapYear,
		APIKey:          h.defaults.APIKey,
	}, nil
}

func requiredFloat(v, name string) (float64, error) {
	if v == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidRequest, name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", domain.ErrInvalidRequest, name, v)
	}
	return f, nil
}

func optionalBool(v, name string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s %q is not a boolean", domain.ErrInvalidRequest, name, v)
	}
	return b, nil
}

// StatusCode maps a conversion error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnavailableData):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRemoteRejection),
		errors.Is(err, domain.ErrEmptyResponse),
		errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrTransport):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	status := StatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{
		"error":      msg,
		"request_id": requestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort error response
}
