package epw

// NumColumns is the fixed width of an EPW data record.
const NumColumns = 35

// Columns are the EPW data column names in file order.
var Columns = [NumColumns]string{
	"Year",
	"Month",
	"Day",
	"Hour",
	"Minute",
	"Data Source and Uncertainty Flags",
	"Dry Bulb Temperature",
	"Dew Point Temperature",
	"Relative Humidity",
	"Atmospheric Station Pressure",
	"Extraterrestrial Horizontal Radiation",
	"Extraterrestrial Direct Normal Radiation",
	"Horizontal Infrared Radiation Intensity",
	"Global Horizontal Radiation",
	"Direct Normal Radiation",
	"Diffuse Horizontal Radiation",
	"Global Horizontal Illuminance",
	"Direct Normal Illuminance",
	"Diffuse Horizontal Illuminance",
	"Zenith Luminance",
	"Wind Direction",
	"Wind Speed",
	"Total Sky Cover",
	"Opaque Sky Cover",
	"Visibility",
	"Ceiling Height",
	"Present Weather Observation",
	"Present Weather Codes",
	"Precipitable Water",
	"Aerosol Optical Depth",
	"Snow Depth",
	"Days Since Last Snowfall",
	"Albedo",
	"Liquid Precipitation Depth",
	"Liquid Precipitation Quantity",
}

// Missing-value sentinels written for quantities the source does not provide.
const (
	MissingExtraterrestrial  = 9999
	MissingInfrared          = 9999
	MissingIlluminance       = 999999
	MissingZenithLuminance   = 9999
	MissingVisibility        = 9999
	MissingCeilingHeight     = 99999
	MissingAerosolDepth      = 0.999
	MissingSnowDepth         = 999
	MissingDaysSinceSnowfall = 99
	MissingPrecipDepth       = 999
	MissingPrecipQuantity    = 99
)
