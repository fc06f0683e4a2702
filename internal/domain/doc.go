// Package domain models requests to and responses from the NREL National Solar
// Radiation Database (NSRDB) PSM v4 GOES download API.
//
// # Data Source
//
// The NSRDB serves modeled solar irradiance and meteorology for a single point
// as CSV, from one of two endpoints:
//
//	aggregated: one calendar year, https://developer.nrel.gov/api/nsrdb/v2/solar/nsrdb-GOES-aggregated-v4-0-0-download.csv
//	typical:    one synthetic year, https://developer.nrel.gov/api/nsrdb/v2/solar/nsrdb-GOES-tmy-v4-0-0-download.csv
//
// # Period Conventions
//
// The "names" query parameter carries the period:
//
//	Calendar year: four digits, e.g. "2012". The source lags roughly two years,
//	  so the current and the previous calendar year are rejected up front
//	  ([ErrUnavailableData]). The caller-facing layers also refuse years below
//	  [MinSupportedYear]; the core forwards anything else and lets the API decide.
//	Typical year: a designator starting with "tmy", "tgy" or "tdy" (any case),
//	  e.g. "tmy-2024". Typical products are hourly only, so the interval is
//	  forced to 60 minutes.
//
// # Response Layout
//
// The CSV body is not a single table:
//
//	line 1: metadata column names (Source, Location ID, ..., Local Time Zone, Elevation, ...)
//	line 2: metadata values for the site
//	line 3: data column names (Year, Month, ..., Temperature, GHI, ...)
//	line 4+: one data row per interval
//
// Counting from the metadata values line, a response with N total rows holds
// N-2 data rows. Zero data rows is [ErrEmptyResponse].
//
// Timestamps:
//
//	Calendar-year responses are indexed by an hourly sequence starting at
//	  January 1st 00:00 UTC of the requested year, one step per data row. Whether
//	  February 29th is present depends only on how many rows the API returns
//	  (leap_day request flag); it is not checked here.
//	Typical-year responses carry their own Year/Month/Day/Hour/Minute columns,
//	  since each month may come from a different source year. All five columns
//	  must exist and hold integral, calendar-valid numbers ([ErrMalformedResponse]).
//
// Units of the quantities used downstream:
//
//	Temperature, Dew Point: °C
//	Relative Humidity: %
//	Pressure: mbar (hPa)
//	GHI, DNI, DHI: W/m²
//	Wind Speed: m/s, Wind Direction: degrees
//	Cloud Type: NSRDB cloud classification code (0–12)
//	Precipitable Water: cm
//	Surface Albedo: fraction
//
// # Credentials
//
// Every request carries an api_key query parameter. It is stripped from any URL
// before it reaches an error message or a log line (see [SanitizeURL]), and
// [RequestSpec] redacts it when formatted or logged.
package domain
