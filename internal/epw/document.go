package epw

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Header block names.
const (
	HeaderLocation         = "LOCATION"
	HeaderDesignConditions = "DESIGN CONDITIONS"
	HeaderPeriods          = "TYPICAL/EXTREME PERIODS"
	HeaderGroundTemps      = "GROUND TEMPERATURES"
	HeaderHolidays         = "HOLIDAYS/DAYLIGHT SAVINGS"
	HeaderComments1        = "COMMENTS 1"
	HeaderComments2        = "COMMENTS 2"
	HeaderDataPeriods      = "DATA PERIODS"
)

// HeaderBlock is one header line: a name followed by its fields.
type HeaderBlock struct {
	Name   string
	Fields []string
}

// Document is an EPW file in memory.
type Document struct {
	Headers []HeaderBlock
	Rows    []Row
}

// Header returns the fields of the named block.
func (d *Document) Header(name string) ([]string, bool) {
	for _, h := range d.Headers {
		if h.Name == name {
			return h.Fields, true
		}
	}
	return nil, false
}

// SetHeader replaces the fields of an existing block in place, or appends a new one.
func (d *Document) SetHeader(name string, fields []string) {
	for i := range d.Headers {
		if d.Headers[i].Name == name {
			d.Headers[i].Fields = slices.Clone(fields)
			return
		}
	}
	d.Headers = append(d.Headers, HeaderBlock{Name: name, Fields: slices.Clone(fields)})
}

// Row is one EPW data record.
type Row struct {
	Year   int
	Month  int
	Day    int
	Hour   int // 1-24, hour ending
	Minute int

	DataSource string

	DryBulb          float64
	DewPoint         float64
	RelativeHumidity float64
	Pressure         float64 // Pa

	ExtraterrestrialHorizontal   float64
	ExtraterrestrialDirectNormal float64
	HorizontalInfrared           float64
	GlobalHorizontal             float64
	DirectNormal                 float64
	DiffuseHorizontal            float64
	GlobalHorizontalIlluminance  float64
	DirectNormalIlluminance      float64
	DiffuseHorizontalIlluminance float64
	ZenithLuminance              float64

	WindDirection  float64
	WindSpeed      float64
	TotalSkyCover  float64
	OpaqueSkyCover float64
	Visibility     float64
	CeilingHeight  float64

	PresentWeatherObservation string
	PresentWeatherCodes       string

	PrecipitableWater           float64
	AerosolOpticalDepth         float64
	SnowDepth                   float64
	DaysSinceLastSnowfall       float64
	Albedo                      float64
	LiquidPrecipitationDepth    float64
	LiquidPrecipitationQuantity float64
}

// Fields renders the row in column order.
func (r Row) Fields() []string {
	return []string{
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Month),
		strconv.Itoa(r.Day),
		strconv.Itoa(r.Hour),
		strconv.Itoa(r.Minute),
		r.DataSource,
		formatFloat(r.DryBulb),
		formatFloat(r.DewPoint),
		formatFloat(r.RelativeHumidity),
		formatFloat(r.Pressure),
		formatFloat(r.ExtraterrestrialHorizontal),
		formatFloat(r.ExtraterrestrialDirectNormal),
		formatFloat(r.HorizontalInfrared),
		formatFloat(r.GlobalHorizontal),
		formatFloat(r.DirectNormal),
		formatFloat(r.DiffuseHorizontal),
		formatFloat(r.GlobalHorizontalIlluminance),
		formatFloat(r.DirectNormalIlluminance),
		formatFloat(r.DiffuseHorizontalIlluminance),
		formatFloat(r.ZenithLuminance),
		formatFloat(r.WindDirection),
		formatFloat(r.WindSpeed),
		formatFloat(r.TotalSkyCover),
		formatFloat(r.OpaqueSkyCover),
		formatFloat(r.Visibility),
		formatFloat(r.CeilingHeight),
		r.PresentWeatherObservation,
		r.PresentWeatherCodes,
		formatFloat(r.PrecipitableWater),
		formatFloat(r.AerosolOpticalDepth),
		formatFloat(r.SnowDepth),
		formatFloat(r.DaysSinceLastSnowfall),
		formatFloat(r.Albedo),
		formatFloat(r.LiquidPrecipitationDepth),
		formatFloat(r.LiquidPrecipitationQuantity),
	}
}

// ParseRow decodes a 35-field record.
func ParseRow(fields []string) (Row, error) {
	if len(fields) != NumColumns {
		return Row{}, fmt.Errorf("expected %d fields, got %d", NumColumns, len(fields))
	}

	p := fieldParser{fields: fields}
	r := Row{
		Year:   p.integer(0),
		Month:  p.integer(1),
		Day:    p.integer(2),
		Hour:   p.integer(3),
		Minute: p.integer(4),

		DataSource: fields[5],

		DryBulb:          p.number(6),
		DewPoint:         p.number(7),
		RelativeHumidity: p.number(8),
		Pressure:         p.number(9),

		ExtraterrestrialHorizontal:   p.number(10),
		ExtraterrestrialDirectNormal: p.number(11),
		HorizontalInfrared:           p.number(12),
		GlobalHorizontal:             p.number(13),
		DirectNormal:                 p.number(14),
		DiffuseHorizontal:            p.number(15),
		GlobalHorizontalIlluminance:  p.number(16),
		DirectNormalIlluminance:      p.number(17),
		DiffuseHorizontalIlluminance: p.number(18),
		ZenithLuminance:              p.number(19),

		WindDirection:  p.number(20),
		WindSpeed:      p.number(21),
		TotalSkyCover:  p.number(22),
		OpaqueSkyCover: p.number(23),
		Visibility:     p.number(24),
		CeilingHeight:  p.number(25),

		PresentWeatherObservation: fields[26],
		PresentWeatherCodes:       fields[27],

		PrecipitableWater:           p.number(28),
		AerosolOpticalDepth:         p.number(29),
		SnowDepth:                   p.number(30),
		DaysSinceLastSnowfall:       p.number(31),
		Albedo:                      p.number(32),
		LiquidPrecipitationDepth:    p.number(33),
		LiquidPrecipitationQuantity: p.number(34),
	}
	if p.err != nil {
		return Row{}, p.err
	}
	return r, nil
}

// fieldParser keeps the first conversion error so ParseRow reads as a table.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) number(i int) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(p.fields[i]), 64)
	if err != nil {
		p.err = fmt.Errorf("column %q: %q is not numeric", Columns[i], p.fields[i])
		return 0
	}
	return v
}

func (p *fieldParser) integer(i int) int {
	v := p.number(i)
	if p.err != nil {
		return 0
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		p.err = fmt.Errorf("column %q: %q is not an integer", Columns[i], p.fields[i])
		return 0
	}
	return int(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
