// Package normalize converts raw spreadsheet text into typed values. The
// exports this system ingests are human-authored: currency symbols and
// thousands separators in prices, day-first dates in several formats, phone
// numbers with local prefixes and float-coercion artifacts. Every function
// here absorbs malformed input locally and reports "unknown" (nil pointer or
// empty string) instead of failing, so a bad cell never aborts a row.
package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// sentinel reports whether the trimmed text is one of the spreadsheet "no
// value" markers.
func sentinel(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "-":
		return true
	}
	return false
}

// stripNumeric keeps digits, dots and minus signs, then collapses malformed
// multi-decimal text by treating only the first dot as the decimal point.
func stripNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	parts := strings.Split(cleaned, ".")
	if len(parts) > 2 {
		cleaned = parts[0] + "." + strings.Join(parts[1:], "")
	}
	return cleaned
}

// ParseMoney parses a currency amount such as "AED 1,200,000" or "1,25,000".
// Returns nil for empty/sentinel text or on irrecoverable parse failure.
func ParseMoney(text string) *float64 {
	s := strings.TrimSpace(text)
	if sentinel(s) {
		return nil
	}

	f, err := strconv.ParseFloat(stripNumeric(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseNumber parses a generic numeric field such as area or bed count, with
// the same stripping rules as ParseMoney. Returns nil on failure.
func ParseNumber(text string) *float64 {
	return ParseMoney(text)
}

// dateLayouts are tried in order. Ambiguous numeric dates are listed in their
// day-first reading only, so 21-10-2023 is 21 October 2023. Datetime layouts
// cover Excel exports that carry a time-of-day suffix.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02-01-2006",
	"02-01-2006 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"2/1/2006",
	"02.01.2006",
	"2006/01/02",
	"2-1-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a calendar date and returns it as "YYYY-MM-DD".
// Ambiguous numeric dates are interpreted day-first. Returns the empty string
// when the text is absent or unparseable; callers treat "" as unknown, not as
// a calendar date.
func ParseDate(text string) string {
	s := strings.TrimSpace(text)
	if sentinel(s) {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// CleanPhone normalizes a phone number: keeps digits and '+', strips the
// trailing ".0" float-coercion artifact, rewrites a leading "00" to "+" and a
// leading local UAE mobile prefix "05…" to its international "+9715…" form.
// Returns the empty string if nothing usable remains.
func CleanPhone(text string) string {
	s := strings.TrimSpace(text)
	if sentinel(s) {
		return ""
	}

	// Spreadsheet float coercion turns 0501234567 into "501234567.0".
	s = strings.TrimSuffix(s, ".0")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	if strings.HasPrefix(s, "05") {
		s = "+971" + s[1:]
	}
	return s
}

// contactSeparator reports whether a rune separates numbers within one
// contact cell.
func contactSeparator(r rune) bool {
	switch r {
	case ';', ',', '/', '|', '&':
		return true
	}
	return unicode.IsSpace(r)
}

// SplitContacts splits a contact cell that may hold several numbers, cleans
// each fragment, and de-duplicates while preserving first-seen order.
func SplitContacts(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.FieldsFunc(text, contactSeparator) {
		c := CleanPhone(part)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
