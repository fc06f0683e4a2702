// Command epwfetch downloads one NSRDB period for a point and writes it as an
// EnergyPlus weather file.
//
// Usage:
//
//	go run ./cmd/epwfetch --lat 39.74 --lon -105.18 --period 2020 --location Golden
//	go run ./cmd/epwfetch --lat 39.74 --lon -105.18 --period tmy-2023 --out-dir weather
//
// The API key comes from --api-key, $SECRETS_DIR/APIKEY, the APIKEY
// environment variable, ./api_key or ./.env, in that order. Requester
// identity and endpoints default to the service environment variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/couchcryptid/nsrdb-epw-service/internal/adapter/mapbox"
	"github.com/couchcryptid/nsrdb-epw-service/internal/adapter/nsrdb"
	"github.com/couchcryptid/nsrdb-epw-service/internal/config"
	"github.com/couchcryptid/nsrdb-epw-service/internal/credential"
	"github.com/couchcryptid/nsrdb-epw-service/internal/domain"
	"github.com/couchcryptid/nsrdb-epw-service/internal/observability"
	"github.com/couchcryptid/nsrdb-epw-service/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	spec   domain.RequestSpec
	outDir string
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	var o options
	fs := pflag.NewFlagSet("epwfetch", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Float64Var(&o.spec.Longitude, "lon", 0, "longitude in decimal degrees (required)")
	fs.Float64Var(&o.spec.Latitude, "lat", 0, "latitude in decimal degrees (required)")
	fs.StringVarP(&o.spec.Period, "period", "p", "", "calendar year or tmy/tgy/tdy product name (required)")
	fs.StringVarP(&o.spec.LocationLabel, "location", "l", "", "location label for the LOCATION header and file name")
	fs.StringSliceVar(&o.spec.Attributes, "attributes", cfg.Attributes, "NSRDB attributes to request")
	fs.IntVar(&o.spec.IntervalMinutes, "interval", 60, "sampling interval in minutes (typical years are always 60)")
	fs.BoolVar(&o.spec.UTC, "utc", false, "request timestamps in UTC instead of local standard time")
	fs.StringVar(&o.spec.FullName, "name", cfg.FullName, "requester full name")
	fs.StringVar(&o.spec.Email, "email", cfg.Email, "requester email")
	fs.StringVar(&o.spec.Affiliation, "affiliation", cfg.Affiliation, "requester affiliation")
	fs.StringVar(&o.spec.Reason, "reason", cfg.Reason, "reason for the download")
	fs.BoolVar(&o.spec.MailingList, "mailing-list", cfg.MailingList, "join the NSRDB mailing list")
	fs.BoolVar(&o.spec.LeapYear, "leap-year", false, "include February 29 in leap years")
	fs.StringVar(&o.spec.APIKey, "api-key", "", "NSRDB API key (overrides all other sources)")
	fs.StringVarP(&o.outDir, "out-dir", "o", cfg.OutputDir, "directory for the weather file")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var missing []string
	for _, name := range []string{"lat", "lon", "period"} {
		if !fs.Changed(name) {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return options{}, fmt.Errorf("missing required flags: %v", missing)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: load config: %v\n", err)
		return 1
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger := observability.NewLoggerTo(stderr, cfg)
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())

	key, from, err := credential.Resolve(credential.DefaultChain(opts.spec.APIKey, cfg.SecretsDir, cfg.APIKeyFile, cfg.DotenvPath)...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	opts.spec.APIKey = key
	logger.Debug("api key loaded", "source", from, "fingerprint", credential.Fingerprint(key))

	plan, err := domain.Validate(opts.spec.Period, opts.spec.IntervalMinutes)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := domain.CheckMinimumYear(plan.Period); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		geocoder = mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
	}

	p := pipeline.New(
		nsrdb.NewClient(cfg.NSRDBAggregatedURL, cfg.NSRDBTypicalURL, cfg.NSRDBTimeout, logger, metrics),
		pipeline.NewTransformer(geocoder, logger, metrics),
		pipeline.NewFileLoader(opts.outDir),
		logger, metrics,
	)

	path, err := p.Convert(ctx, opts.spec)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, path)
	return 0
}
