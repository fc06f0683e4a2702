package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// TypicalIntervalMinutes is the only sampling interval typical-year products offer.
	TypicalIntervalMinutes = 60

	// MinSupportedYear is the earliest calendar year the caller-facing layers accept.
	MinSupportedYear = 1998

	redacted = "REDACTED"
)

// typicalPrefixes identify synthetic typical-year products:
// typical meteorological, typical GHI and typical DNI years.
var typicalPrefixes = []string{"tmy", "tgy", "tdy"}

// DefaultAttributes is the attribute set requested when the caller names none.
var DefaultAttributes = []string{
	"air_temperature", "clearsky_dhi", "clearsky_dni", "clearsky_ghi", "cloud_type",
	"dew_point", "dhi", "dni", "fill_flag", "ghi", "relative_humidity", "solar_zenith_angle",
	"surface_albedo", "surface_pressure", "total_precipitable_water", "wind_direction",
	"wind_speed", "ghuv-280-400", "ghuv-295-385",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// RequestSpec is everything one conversion needs from its caller.
type RequestSpec struct {
	Longitude       float64  `validate:"gte=-180,lte=180"`
	Latitude        float64  `validate:"gte=-90,lte=90"`
	Period          string   `validate:"required"`
	LocationLabel   string
	Attributes      []string `validate:"min=1,dive,required"`
	IntervalMinutes int      `validate:"gt=0"`
	UTC             bool
	FullName        string
	Email           string `validate:"omitempty,email"`
	Affiliation     string
	Reason          string
	MailingList     bool
	LeapYear        bool
	APIKey          string
}

// Redacted returns a copy of the request with the credential replaced.
func (s RequestSpec) Redacted() RequestSpec {
	if s.APIKey != "" {
		s.APIKey = redacted
	}
	return s
}

// String implements fmt.Stringer without exposing the credential.
func (s RequestSpec) String() string {
	r := s.Redacted()
	return fmt.Sprintf("RequestSpec{lon=%g lat=%g period=%q location=%q interval=%d api_key=%s}",
		r.Longitude, r.Latitude, r.Period, r.LocationLabel, r.IntervalMinutes, r.APIKey)
}

// LogValue implements slog.LogValuer without exposing the credential.
func (s RequestSpec) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("lon", s.Longitude),
		slog.Float64("lat", s.Latitude),
		slog.String("period", s.Period),
		slog.String("location", s.LocationLabel),
		slog.Int("interval", s.IntervalMinutes),
		slog.Int("attributes", len(s.Attributes)),
	)
}

// Endpoint selects which of the two NSRDB download products serves a request.
type Endpoint string

const (
	EndpointAggregated Endpoint = "aggregated"
	EndpointTypical    Endpoint = "typical"
)

// Period is a validated period designator.
type Period struct {
	Name    string // as sent in the "names" parameter
	Typical bool
	Year    int // zero for typical periods, math.MaxInt past the int range
}

// Plan is the outcome of validating a request: what to ask for and where.
type Plan struct {
	Period   Period
	Interval int
	Endpoint Endpoint
}

// IsTypicalYear reports whether a period names a typical-year product.
func IsTypicalYear(period string) bool {
	name := strings.ToLower(strings.TrimSpace(period))
	for _, p := range typicalPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Validate classifies a period and settles the sampling interval.
// Typical periods always resolve to a 60-minute interval. Calendar years must be
// all digits and must not be the current or the previous year.
func Validate(period string, interval int) (Plan, error) {
	name := strings.TrimSpace(period)

	if IsTypicalYear(name) {
		return Plan{
			Period:   Period{Name: name, Typical: true},
			Interval: TypicalIntervalMinutes,
			Endpoint: EndpointTypical,
		}, nil
	}

	if !isDigits(name) {
		return Plan{}, fmt.Errorf("%w: period %q must be a numeric year unless using a TMY/TGY/TDY dataset", ErrInvalidRequest, period)
	}
	// Years too large for an int are still forwarded; the source rejects them.
	year, err := strconv.Atoi(name)
	if err != nil {
		year = math.MaxInt
	}

	current := clock.Now().Year()
	if year == current || year == current-1 {
		return Plan{}, fmt.Errorf("%w: NSRDB does not provide data for %d; data for %d is also unlikely to be available yet",
			ErrUnavailableData, current, current-1)
	}

	return Plan{
		Period:   Period{Name: name, Year: year},
		Interval: interval,
		Endpoint: EndpointAggregated,
	}, nil
}

// ValidateRequest checks the request fields and then its period.
func ValidateRequest(spec RequestSpec) (Plan, error) {
	if err := validate.Struct(spec); err != nil {
		return Plan{}, fmt.Errorf("%w: %s", ErrInvalidRequest, describeValidation(err))
	}
	return Validate(spec.Period, spec.IntervalMinutes)
}

// CheckMinimumYear rejects calendar years older than the source archive.
// Caller-facing layers use it; the core itself forwards any year.
func CheckMinimumYear(p Period) error {
	if !p.Typical && p.Year < MinSupportedYear {
		return fmt.Errorf("%w: year %d is before %d", ErrInvalidRequest, p.Year, MinSupportedYear)
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
