package legacy

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// dateLayouts are tried in fixed order; the first successful parse wins.
// Month-first layouts come before the day-first one because that is the
// order the legacy exporter mixed them in.
var dateLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	"2006-01-02",
	"2/1/2006",
}

// ParseDate normalizes the heterogeneous date strings found in the export.
// It returns nil when no supported layout matches; callers that need a
// non-null value substitute the current time instead of failing the row.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DecodePasswordHash recovers the stored credential from the legacy SENHA
// payload: a hex string (optionally prefixed with "0x") whose decoded bytes
// are a UTF-8 JSON object carrying the hash under the "hash" property.
// Every failure mode returns a nil hash with a descriptive error; the error
// is for the caller's warning log only and never fails the row.
func DecodePasswordHash(payload string) (*string, error) {
	s := strings.TrimSpace(payload)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("password payload is not valid hex: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("password payload is not valid UTF-8")
	}
	var doc struct {
		Hash *string `json:"hash"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("password payload is not a JSON object: %w", err)
	}
	if doc.Hash == nil {
		return nil, fmt.Errorf("password payload has no hash property")
	}
	return doc.Hash, nil
}

// ParseModelYear normalizes the combined ANO_MODELO field. The legacy value
// is often "fabrication/model" ("2011/2012"); only the first year token is
// kept. An empty or unparseable result becomes nil rather than an invalid
// year.
func ParseModelYear(s string) *int {
	first, _, _ := strings.Cut(strings.TrimSpace(s), "/")
	first = strings.TrimSpace(first)
	if first == "" {
		return nil
	}
	year := 0
	for _, r := range first {
		if r < '0' || r > '9' {
			return nil
		}
		year = year*10 + int(r-'0')
	}
	return &year
}

// ParseMileage parses KM_APLICACAO, stripping the thousands separators the
// exporter emits ("12.345", "12 345"). Anything that still fails to parse
// defaults to zero; a bad odometer reading is not worth dropping a warranty.
func ParseMileage(s string) int {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if clean == "" {
		return 0
	}
	km := 0
	for _, r := range clean {
		if r < '0' || r > '9' {
			return 0
		}
		km = km*10 + int(r-'0')
	}
	return km
}
