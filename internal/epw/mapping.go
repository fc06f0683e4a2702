package epw

import "github.com/couchcryptid/nsrdb-epw-service/internal/domain"

const (
	// DataSourceFlag marks every generated record.
	DataSourceFlag = "'Created with NREL PSM v4 input data'"

	locationSource = "NREL PSM v4 SOURCE"
	locationWMO    = "XXX"
	defaultState   = "STATE"
	defaultCountry = "COUNTRY"
)

// FromSource maps a parsed source response onto an EPW document: a LOCATION
// block for the site, the template header blocks, and one row per record.
func FromSource(site domain.Site, meta domain.SourceMetadata, table domain.SourceTable) *Document {
	doc := &Document{
		Headers: append([]HeaderBlock{{Name: HeaderLocation, Fields: locationFields(site, meta)}}, TemplateHeaders()...),
		Rows:    make([]Row, 0, table.Len()),
	}
	for _, rec := range table.Records {
		doc.Rows = append(doc.Rows, mapRecord(rec))
	}
	return doc
}

func locationFields(site domain.Site, meta domain.SourceMetadata) []string {
	return []string{
		site.Label,
		orDefault(site.State, defaultState),
		orDefault(site.Country, defaultCountry),
		locationSource,
		locationWMO,
		formatFloat(site.Latitude),
		formatFloat(site.Longitude),
		orDefault(meta.TimeZone, "0"),
		orDefault(meta.Elevation, "0"),
	}
}

func mapRecord(rec domain.SourceRecord) Row {
	t := rec.Time
	return Row{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour() + 1,
		Minute: t.Minute(),

		DataSource: DataSourceFlag,

		DryBulb:          rec.Temperature,
		DewPoint:         rec.DewPoint,
		RelativeHumidity: rec.RelativeHumidity,
		Pressure:         float64(int64(rec.Pressure)) * 100,

		ExtraterrestrialHorizontal:   MissingExtraterrestrial,
		ExtraterrestrialDirectNormal: MissingExtraterrestrial,
		HorizontalInfrared:           MissingInfrared,
		GlobalHorizontal:             rec.GHI,
		DirectNormal:                 rec.DNI,
		DiffuseHorizontal:            rec.DHI,
		GlobalHorizontalIlluminance:  MissingIlluminance,
		DirectNormalIlluminance:      MissingIlluminance,
		DiffuseHorizontalIlluminance: MissingIlluminance,
		ZenithLuminance:              MissingZenithLuminance,

		WindDirection: rec.WindDirection,
		WindSpeed:     rec.WindSpeed,
		// The source has no sky cover; cloud type stands in for both.
		TotalSkyCover:  rec.CloudType,
		OpaqueSkyCover: rec.CloudType,
		Visibility:     MissingVisibility,
		CeilingHeight:  MissingCeilingHeight,

		PrecipitableWater:           rec.PrecipitableWater,
		AerosolOpticalDepth:         MissingAerosolDepth,
		SnowDepth:                   MissingSnowDepth,
		DaysSinceLastSnowfall:       MissingDaysSinceSnowfall,
		Albedo:                      rec.SurfaceAlbedo,
		LiquidPrecipitationDepth:    MissingPrecipDepth,
		LiquidPrecipitationQuantity: MissingPrecipQuantity,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
