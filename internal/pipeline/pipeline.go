package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/nsrdb-epw-service/internal/domain"
	"github.com/couchcryptid/nsrdb-epw-service/internal/epw"
	"github.com/couchcryptid/nsrdb-epw-service/internal/observability"
)

// Extractor downloads the raw source response for a validated request.
type Extractor interface {
	Fetch(ctx context.Context, plan domain.Plan, query domain.Query) ([]byte, error)
}

// Transformer turns a raw source response into an EPW document.
type Transformer interface {
	Transform(ctx context.Context, body []byte, spec domain.RequestSpec, plan domain.Plan) (*epw.Document, error)
}

// Loader persists a document under the given file name and returns its path.
type Loader interface {
	Load(ctx context.Context, doc *epw.Document, name string) (string, error)
}

// Pipeline runs one NSRDB to EPW conversion per call.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
	}
}

// ReadinessChecker is implemented by loaders that can report whether they accept writes.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// CheckReadiness reports whether conversions can currently be written.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	if rc, ok := p.loader.(ReadinessChecker); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}

// Convert validates spec, downloads the data, maps it to EPW and writes the
// file. It returns the path of the written file. No file is written on error.
func (p *Pipeline) Convert(ctx context.Context, spec domain.RequestSpec) (path string, err error) {
	start := time.Now()
	p.metrics.ConversionsInFlight.Inc()
	defer func() {
		p.metrics.ConversionsInFlight.Dec()
		p.metrics.Conversions.WithLabelValues(Outcome(err)).Inc()
	}()

	logger := p.logger.With("request", spec)

	plan, err := domain.ValidateRequest(spec)
	if err != nil {
		logger.Warn("request rejected", "error", err)
		return "", err
	}

	query := domain.BuildQuery(spec, plan)
	body, err := p.extractor.Fetch(ctx, plan, query)
	// The key is not needed past the download.
	spec.APIKey = ""
	query = query.Redacted()
	if err != nil {
		logger.Error("fetch failed", "endpoint", plan.Endpoint, "error", err)
		return "", err
	}

	doc, err := p.transformer.Transform(ctx, body, spec, plan)
	if err != nil {
		logger.Error("transform failed", "error", err)
		return "", err
	}

	name := epw.FileName(spec.LocationLabel, spec.Latitude, spec.Longitude, plan.Period.Name, domain.Now())
	path, err = p.loader.Load(ctx, doc, name)
	if err != nil {
		logger.Error("write failed", "file", name, "error", err)
		return "", fmt.Errorf("write epw: %w", err)
	}

	p.metrics.RowsWritten.Add(float64(len(doc.Rows)))
	logger.Info("conversion complete",
		"path", path,
		"rows", len(doc.Rows),
		"interval", plan.Interval,
		"query", query.Encode(),
		"duration", time.Since(start),
	)
	return path, nil
}

// Outcome classifies a conversion error for metrics and status mapping.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrUnavailableData):
		return "unavailable"
	case errors.Is(err, domain.ErrRemoteRejection):
		return "rejected"
	case errors.Is(err, domain.ErrTransport):
		return "transport_error"
	case errors.Is(err, domain.ErrEmptyResponse):
		return "empty"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, os.ErrPermission), errors.Is(err, os.ErrNotExist):
		return "write_error"
	default:
		return "error"
	}
}
