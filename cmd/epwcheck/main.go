// Command epwcheck runs integrity checks on an EnergyPlus weather file: header
// blocks, record field ranges, calendar validity and the row count expected for
// the sampling interval.
//
// Usage:
//
//	go run ./cmd/epwcheck --file Golden_39.74_-105.18_2020_2026.epw
//	go run ./cmd/epwcheck --file site.epw --interval 30
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/couchcryptid/nsrdb-epw-service/internal/epw"
)

// requiredHeaders is the block order every weather file starts with.
var requiredHeaders = []string{
	epw.HeaderLocation,
	epw.HeaderDesignConditions,
	epw.HeaderPeriods,
	epw.HeaderGroundTemps,
	epw.HeaderHolidays,
	epw.HeaderComments1,
	epw.HeaderComments2,
	epw.HeaderDataPeriods,
}

const locationFieldCount = 9

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("epwcheck", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.StringP("file", "f", "", "EPW file to check (required)")
	interval := fs.Int("interval", 60, "sampling interval in minutes the file was produced with")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	if *file == "" || *interval <= 0 {
		fs.Usage()
		return 1
	}

	fmt.Fprintln(stdout, "=== EPW Integrity Check ===")
	fmt.Fprintln(stdout)

	doc, err := epw.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		checkHeaders(doc),
		checkFields(doc),
		checkCalendar(doc),
		checkRowCount(doc, *interval),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(stdout, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Records: %d rows, %d header blocks\n", len(doc.Rows), len(doc.Headers))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(stdout, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(stdout, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(stdout, "\nAll checks passed.")
		return 0
	}
	fmt.Fprintln(stdout, "\nCheck FAILED.")
	return 1
}

// ── Phase 1: Header blocks ──

func checkHeaders(doc *epw.Document) *phase {
	p := &phase{name: "Phase 1: Header blocks"}

	for i, name := range requiredHeaders {
		if i >= len(doc.Headers) {
			p.errorf("missing header block %q", name)
			continue
		}
		if got := doc.Headers[i].Name; got != name {
			p.errorf("header %d: got %q, want %q", i+1, got, name)
		}
	}

	loc, ok := doc.Header(epw.HeaderLocation)
	if !ok {
		return p
	}
	if len(loc) != locationFieldCount {
		p.errorf("LOCATION has %d fields, want %d", len(loc), locationFieldCount)
		return p
	}
	checkRange(p, "LOCATION latitude", loc[5], -90, 90)
	checkRange(p, "LOCATION longitude", loc[6], -180, 180)
	checkRange(p, "LOCATION time zone", loc[7], -12, 14)
	if _, err := strconv.ParseFloat(loc[8], 64); err != nil {
		p.errorf("LOCATION elevation %q is not numeric", loc[8])
	}
	return p
}

func checkRange(p *phase, what, v string, lo, hi float64) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errorf("%s %q is not numeric", what, v)
		return
	}
	if f < lo || f > hi {
		p.errorf("%s %g outside [%g, %g]", what, f, lo, hi)
	}
}

// ── Phase 2: Record fields ──

func checkFields(doc *epw.Document) *phase {
	p := &phase{name: "Phase 2: Record fields"}

	for i, r := range doc.Rows {
		n := i + 1
		if r.RelativeHumidity < 0 || r.RelativeHumidity > 110 {
			p.errorf("row %d: relative humidity %g outside [0, 110]", n, r.RelativeHumidity)
		}
		if r.Pressure <= 0 {
			p.errorf("row %d: station pressure %g Pa is not positive", n, r.Pressure)
		}
		if r.GlobalHorizontal < 0 || r.DirectNormal < 0 || r.DiffuseHorizontal < 0 {
			p.errorf("row %d: negative radiation (GHI=%g DNI=%g DHI=%g)", n,
				r.GlobalHorizontal, r.DirectNormal, r.DiffuseHorizontal)
		}
		if r.WindDirection < 0 || r.WindDirection > 360 {
			p.errorf("row %d: wind direction %g outside [0, 360]", n, r.WindDirection)
		}
		if r.WindSpeed < 0 {
			p.errorf("row %d: negative wind speed %g", n, r.WindSpeed)
		}
		if r.DataSource == "" {
			p.errorf("row %d: empty data source flags", n)
		}
	}
	return p
}

// ── Phase 3: Calendar ──
// Rows must carry real dates and hour-ending hours 1-24, in chronological
// order by month, day, hour and minute. Years may differ between rows of a
// typical-year file.

func checkCalendar(doc *epw.Document) *phase {
	p := &phase{name: "Phase 3: Calendar validity"}

	var prev time.Time
	for i, r := range doc.Rows {
		n := i + 1
		if r.Hour < 1 || r.Hour > 24 {
			p.errorf("row %d: hour %d outside [1, 24]", n, r.Hour)
			continue
		}
		if r.Minute < 0 || r.Minute > 59 {
			p.errorf("row %d: minute %d outside [0, 59]", n, r.Minute)
			continue
		}
		d := time.Date(r.Year, time.Month(r.Month), r.Day, 0, 0, 0, 0, time.UTC)
		if r.Month < 1 || r.Month > 12 || d.Month() != time.Month(r.Month) || d.Day() != r.Day {
			p.errorf("row %d: invalid date %04d-%02d-%02d", n, r.Year, r.Month, r.Day)
			continue
		}

		// Position within a leap reference year, so Feb 29 orders correctly.
		pos := time.Date(2000, time.Month(r.Month), r.Day, r.Hour-1, r.Minute, 0, 0, time.UTC)
		if !prev.IsZero() && !pos.After(prev) {
			p.errorf("row %d: %02d-%02d hour %d minute %d is not after the previous row", n, r.Month, r.Day, r.Hour, r.Minute)
		}
		prev = pos
	}
	return p
}

// ── Phase 4: Row count ──

func checkRowCount(doc *epw.Document, interval int) *phase {
	p := &phase{name: "Phase 4: Row count"}

	perHour := 60 / interval
	if 60%interval != 0 || perHour == 0 {
		p.errorf("interval %d does not divide an hour", interval)
		return p
	}
	common, leap := 8760*perHour, 8784*perHour
	if n := len(doc.Rows); n != common && n != leap {
		p.errorf("%d rows, want %d or %d for a %d-minute interval", n, common, leap, interval)
	}
	return p
}
