package domain

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Source data column names.
const (
	ColTemperature       = "Temperature"
	ColDewPoint          = "Dew Point"
	ColRelativeHumidity  = "Relative Humidity"
	ColPressure          = "Pressure"
	ColGHI               = "GHI"
	ColDNI               = "DNI"
	ColDHI               = "DHI"
	ColWindDirection     = "Wind Direction"
	ColWindSpeed         = "Wind Speed"
	ColCloudType         = "Cloud Type"
	ColPrecipitableWater = "Precipitable Water"
	ColSurfaceAlbedo     = "Surface Albedo"

	ColYear   = "Year"
	ColMonth  = "Month"
	ColDay    = "Day"
	ColHour   = "Hour"
	ColMinute = "Minute"
)

// Source metadata field names.
const (
	MetaTimeZone   = "Local Time Zone"
	MetaElevation  = "Elevation"
	MetaLocationID = "Location ID"
)

// QuantityColumns are the data columns every response must carry.
var QuantityColumns = []string{
	ColTemperature, ColDewPoint, ColRelativeHumidity, ColPressure,
	ColGHI, ColDNI, ColDHI, ColWindDirection, ColWindSpeed,
	ColCloudType, ColPrecipitableWater, ColSurfaceAlbedo,
}

// TimeColumns are the per-row time fields of typical-year responses.
var TimeColumns = []string{ColYear, ColMonth, ColDay, ColHour, ColMinute}

// SourceMetadata is the site description from the first two response lines.
// Values are kept as the text the source sent.
type SourceMetadata struct {
	TimeZone   string
	Elevation  string
	LocationID string
	Fields     map[string]string
}

// SourceRecord is one interval of source data.
type SourceRecord struct {
	Time              time.Time
	Temperature       float64
	DewPoint          float64
	RelativeHumidity  float64
	Pressure          float64
	GHI               float64
	DNI               float64
	DHI               float64
	WindDirection     float64
	WindSpeed         float64
	CloudType         float64
	PrecipitableWater float64
	SurfaceAlbedo     float64
}

// SourceTable is the time-indexed data section of a response.
type SourceTable struct {
	Records []SourceRecord
}

// Len returns the number of records.
func (t SourceTable) Len() int { return len(t.Records) }

// rawRow is one data line keyed by column name. It exists only while decoding.
type rawRow map[string]string

// ParseResponse decodes a source CSV body into site metadata and a typed table.
func ParseResponse(body []byte, plan Plan) (SourceMetadata, SourceTable, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1

	var lines [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return SourceMetadata{}, SourceTable{}, fmt.Errorf("%w: read csv: %v", ErrMalformedResponse, err)
		}
		lines = append(lines, rec)
	}

	// Rows counted from the metadata values line: values, header, data...
	total := len(lines) - 1
	if total-2 <= 0 {
		return SourceMetadata{}, SourceTable{}, fmt.Errorf("%w: no data rows returned from NSRDB", ErrEmptyResponse)
	}

	meta := parseMetadata(lines[0], lines[1])
	header := lines[2]
	data := lines[3:]

	if err := requireColumns(header, QuantityColumns); err != nil {
		return SourceMetadata{}, SourceTable{}, err
	}
	if plan.Period.Typical {
		if err := requireColumns(header, TimeColumns); err != nil {
			return SourceMetadata{}, SourceTable{}, err
		}
	}

	start := time.Date(plan.Period.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := make([]SourceRecord, 0, len(data))
	for i, fields := range data {
		line := i + 4
		row := toRawRow(header, fields)

		rec, err := decodeQuantities(row, line)
		if err != nil {
			return SourceMetadata{}, SourceTable{}, err
		}
		if plan.Period.Typical {
			rec.Time, err = decodeTimestamp(row, line)
			if err != nil {
				return SourceMetadata{}, SourceTable{}, err
			}
		} else {
			rec.Time = start.Add(time.Duration(i) * time.Hour)
		}
		records = append(records, rec)
	}

	return meta, SourceTable{Records: records}, nil
}

func parseMetadata(names, values []string) SourceMetadata {
	fields := make(map[string]string, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, seen := fields[name]; seen {
			continue
		}
		if i < len(values) {
			fields[name] = strings.TrimSpace(values[i])
		} else {
			fields[name] = ""
		}
	}
	return SourceMetadata{
		TimeZone:   orDefault(fields[MetaTimeZone], "0"),
		Elevation:  orDefault(fields[MetaElevation], "0"),
		LocationID: fields[MetaLocationID],
		Fields:     fields,
	}
}

func requireColumns(header, want []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, c := range want {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required columns: %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}
	return nil
}

func toRawRow(header, fields []string) rawRow {
	row := make(rawRow, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, seen := row[name]; seen {
			continue
		}
		if i < len(fields) {
			row[name] = fields[i]
		} else {
			row[name] = ""
		}
	}
	return row
}

func decodeQuantities(row rawRow, line int) (SourceRecord, error) {
	var rec SourceRecord
	targets := []struct {
		col string
		dst *float64
	}{
		{ColTemperature, &rec.Temperature},
		{ColDewPoint, &rec.DewPoint},
		{ColRelativeHumidity, &rec.RelativeHumidity},
		{ColPressure, &rec.Pressure},
		{ColGHI, &rec.GHI},
		{ColDNI, &rec.DNI},
		{ColDHI, &rec.DHI},
		{ColWindDirection, &rec.WindDirection},
		{ColWindSpeed, &rec.WindSpeed},
		{ColCloudType, &rec.CloudType},
		{ColPrecipitableWater, &rec.PrecipitableWater},
		{ColSurfaceAlbedo, &rec.SurfaceAlbedo},
	}
	for _, t := range targets {
		v, err := parseNumber(row[t.col])
		if err != nil {
			return SourceRecord{}, fmt.Errorf("%w: line %d column %q: %v", ErrMalformedResponse, line, t.col, err)
		}
		*t.dst = v
	}
	return rec, nil
}

func decodeTimestamp(row rawRow, line int) (time.Time, error) {
	var parts [5]int
	for i, col := range TimeColumns {
		v, err := parseNumber(row[col])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: line %d column %q: %v", ErrMalformedResponse, line, col, err)
		}
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return time.Time{}, fmt.Errorf("%w: line %d column %q: %v is not an integer", ErrMalformedResponse, line, col, v)
		}
		parts[i] = int(v)
	}

	year, month, day, hour, minute := parts[0], parts[1], parts[2], parts[3], parts[4]
	ts := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes out-of-range values; a round trip exposes them.
	if year < 1 || ts.Year() != year || int(ts.Month()) != month || ts.Day() != day ||
		ts.Hour() != hour || ts.Minute() != minute {
		return time.Time{}, fmt.Errorf("%w: line %d: invalid timestamp %04d-%02d-%02d %02d:%02d",
			ErrMalformedResponse, line, year, month, day, hour, minute)
	}
	return ts, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not numeric", s)
	}
	return v, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
