package domain

import (
	"context"
	"log/slog"
)

// Geo source values recorded on a Site.
const (
	GeoSourceReverse  = "reverse"
	GeoSourceOriginal = "original"
	GeoSourceFailed   = "failed"
)

// Site is the point an EPW file describes.
type Site struct {
	Label     string
	State     string
	Country   string
	Latitude  float64
	Longitude float64
	GeoSource string
}

// NewSite builds a Site from a request, before any geocoding.
func NewSite(spec RequestSpec) Site {
	return Site{
		Label:     spec.LocationLabel,
		Latitude:  spec.Latitude,
		Longitude: spec.Longitude,
	}
}

// EnrichSite fills state and country from a reverse geocode. If geocoder is
// nil or the lookup fails, the site is returned with GeoSource set
// accordingly and the conversion carries on.
func EnrichSite(ctx context.Context, site Site, geocoder Geocoder, logger *slog.Logger) Site {
	if geocoder == nil {
		return site
	}

	result, err := geocoder.ReverseGeocode(ctx, site.Latitude, site.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", site.Latitude,
			"lon", site.Longitude,
			"error", err,
		)
		site.GeoSource = GeoSourceFailed
		return site
	}
	if result.FormattedAddress == "" {
		site.GeoSource = GeoSourceOriginal
		return site
	}

	site.State = result.Region
	site.Country = result.Country
	if site.Label == "" {
		site.Label = result.PlaceName
	}
	site.GeoSource = GeoSourceReverse
	return site
}
