package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CredentialParam is the query parameter that carries the API key.
const CredentialParam = "api_key"

// Param is one query parameter.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered parameter list. Order is kept through encoding so that
// request URLs are reproducible.
type Query []Param

// BuildQuery assembles the source parameters for a validated request.
func BuildQuery(spec RequestSpec, plan Plan) Query {
	return Query{
		{"names", plan.Period.Name},
		{"leap_day", strconv.FormatBool(spec.LeapYear)},
		{"interval", strconv.Itoa(plan.Interval)},
		{"utc", strconv.FormatBool(spec.UTC)},
		{"full_name", spec.FullName},
		{"email", spec.Email},
		{"affiliation", spec.Affiliation},
		{"mailing_list", strconv.FormatBool(spec.MailingList)},
		{"reason", spec.Reason},
		{"attributes", strings.Join(spec.Attributes, ",")},
		{"wkt", fmt.Sprintf("POINT(%s %s)", formatCoord(spec.Longitude), formatCoord(spec.Latitude))},
		{CredentialParam, spec.APIKey},
	}
}

// Get returns the first value for key, or "".
func (q Query) Get(key string) string {
	for _, p := range q {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Encode renders the parameters as a form-encoded string in order.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Redacted returns the parameters without the credential.
func (q Query) Redacted() Query {
	out := make(Query, 0, len(q))
	for _, p := range q {
		if p.Key != CredentialParam {
			out = append(out, p)
		}
	}
	return out
}

// SanitizeURL removes the credential parameter from a URL. The other
// parameters keep their order and encoding.
func SanitizeURL(raw string) string {
	base, rest, ok := strings.Cut(raw, "?")
	if !ok {
		return raw
	}
	query, fragment, hasFragment := strings.Cut(rest, "#")

	kept := make([]string, 0, strings.Count(query, "&")+1)
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if isCredentialKey(key) {
			continue
		}
		kept = append(kept, pair)
	}

	out := base
	if len(kept) > 0 {
		out += "?" + strings.Join(kept, "&")
	}
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

// ScrubSecret replaces every occurrence of secret in s.
func ScrubSecret(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, secret, redacted)
	if escaped := url.QueryEscape(secret); escaped != secret {
		s = strings.ReplaceAll(s, escaped, redacted)
	}
	return s
}

func isCredentialKey(key string) bool {
	if key == CredentialParam {
		return true
	}
	unescaped, err := url.QueryUnescape(key)
	return err == nil && unescaped == CredentialParam
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
