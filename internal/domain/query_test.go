package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	freezeClock(t, 2025)

	spec := validSpec()
	spec.Attributes = []string{"ghi", "dni"}
	spec.LeapYear = true
	spec.FullName = "Jane Doe"
	spec.Reason = "beta testing"
	plan, err := ValidateRequest(spec)
	require.NoError(t, err)

	q := BuildQuery(spec, plan)

	keys := make([]string, 0, len(q))
	for _, p := range q {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{
		"names", "leap_day", "interval", "utc", "full_name", "email", "affiliation",
		"mailing_list", "reason", "attributes", "wkt", "api_key",
	}, keys)
	assert.Equal(t, "2012", q.Get("names"))
	assert.Equal(t, "true", q.Get("leap_day"))
	assert.Equal(t, "60", q.Get("interval"))
	assert.Equal(t, "false", q.Get("utc"))
	assert.Equal(t, "ghi,dni", q.Get("attributes"))
	assert.Equal(t, "POINT(-105.2 39.74)", q.Get("wkt"))
	assert.Equal(t, "secret-key-123", q.Get("api_key"))
	assert.Empty(t, q.Get("missing"))
}

func TestBuildQuery_TypicalUsesForcedInterval(t *testing.T) {
	spec := validSpec()
	spec.Period = "tmy-2024"
	spec.IntervalMinutes = 15
	plan, err := ValidateRequest(spec)
	require.NoError(t, err)

	q := BuildQuery(spec, plan)

	assert.Equal(t, "60", q.Get("interval"))
	assert.Equal(t, "tmy-2024", q.Get("names"))
}

func TestQuery_Encode(t *testing.T) {
	q := Query{{"names", "2012"}, {"wkt", "POINT(-105.2 39.74)"}, {"full_name", "Jane Doe"}}

	assert.Equal(t, "names=2012&wkt=POINT%28-105.2+39.74%29&full_name=Jane+Doe", q.Encode())
}

func TestQuery_Redacted(t *testing.T) {
	q := Query{{"names", "2012"}, {"api_key", "secret"}, {"utc", "false"}}

	r := q.Redacted()

	assert.Equal(t, Query{{"names", "2012"}, {"utc", "false"}}, r)
	assert.Len(t, q, 3, "original untouched")
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "key in the middle",
			in:   "https://example.com/data.csv?names=2012&api_key=secret&wkt=POINT%280+0%29",
			want: "https://example.com/data.csv?names=2012&wkt=POINT%280+0%29",
		},
		{
			name: "key last",
			in:   "https://example.com/data.csv?names=2012&api_key=secret",
			want: "https://example.com/data.csv?names=2012",
		},
		{
			name: "only the key",
			in:   "https://example.com/data.csv?api_key=secret",
			want: "https://example.com/data.csv",
		},
		{
			name: "escaped key name",
			in:   "https://example.com/data.csv?api%5Fkey=secret&utc=false",
			want: "https://example.com/data.csv?utc=false",
		},
		{
			name: "similar names are kept",
			in:   "https://example.com/data.csv?api_key_hint=x&my_api_key=y",
			want: "https://example.com/data.csv?api_key_hint=x&my_api_key=y",
		},
		{
			name: "no query",
			in:   "https://example.com/data.csv",
			want: "https://example.com/data.csv",
		},
		{
			name: "fragment preserved",
			in:   "https://example.com/data.csv?api_key=secret&a=1#top",
			want: "https://example.com/data.csv?a=1#top",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeURL(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "secret")
		})
	}
}

func TestSanitizeURL_EncodedQuery(t *testing.T) {
	spec := validSpec()
	plan, err := Validate("1999", 60)
	require.NoError(t, err)

	raw := "https://example.com/nsrdb.csv?" + BuildQuery(spec, plan).Encode()
	got := SanitizeURL(raw)

	assert.NotContains(t, got, spec.APIKey)
	assert.True(t, strings.HasSuffix(got, "wkt=POINT%28-105.2+39.74%29"))
	assert.Equal(t, "https://example.com/nsrdb.csv?"+BuildQuery(spec, plan).Redacted().Encode(), got)
}

func TestScrubSecret(t *testing.T) {
	assert.Equal(t, "key REDACTED rejected", ScrubSecret("key abc rejected", "abc"))
	assert.Equal(t, "REDACTED", ScrubSecret("a%2Fb", "a/b"))
	assert.Equal(t, "unchanged", ScrubSecret("unchanged", ""))
}
