package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/nsrdb-epw-service/internal/domain"
	"github.com/couchcryptid/nsrdb-epw-service/internal/epw"
	"github.com/couchcryptid/nsrdb-epw-service/internal/observability"
)

// EPWTransformer implements Transformer: it parses the NSRDB CSV, optionally
// enriches the site with a reverse geocode, and maps the result to EPW.
type EPWTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates an EPWTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *EPWTransformer {
	if geocoder != nil {
		metrics.GeocodeEnabled.Set(1)
	} else {
		metrics.GeocodeEnabled.Set(0)
	}
	return &EPWTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *EPWTransformer) Transform(ctx context.Context, body []byte, spec domain.RequestSpec, plan domain.Plan) (*epw.Document, error) {
	meta, table, err := domain.ParseResponse(body, plan)
	if err != nil {
		return nil, err
	}

	site := domain.EnrichSite(ctx, domain.NewSite(spec), t.geocoder, t.logger)

	t.logger.Debug("source parsed",
		"location_id", meta.LocationID,
		"rows", table.Len(),
		"geo_source", site.GeoSource,
	)
	return epw.FromSource(site, meta, table), nil
}
