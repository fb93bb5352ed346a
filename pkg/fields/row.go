// Package fields extracts logical field values from raw spreadsheet rows.
// Header names are human-authored and inconsistent across export files, so
// each logical field carries a list of known header variants and extraction
// prefers an exact (case-insensitive) header match over a looser substring
// match.
package fields

import "strings"

// Row is one raw spreadsheet row: the header list in source column order plus
// the header → raw text mapping. Column order is preserved so substring
// matching is deterministic.
type Row struct {
	Headers []string
	Values  map[string]string
}

// NewRow builds a Row from parallel header and cell slices. Cells beyond the
// header width are dropped; missing trailing cells read as empty.
func NewRow(headers, cells []string) Row {
	values := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			values[h] = cells[i]
		} else {
			values[h] = ""
		}
	}
	return Row{Headers: headers, Values: values}
}

// Get returns the trimmed value for an exact header, or "".
func (r Row) Get(header string) string {
	return strings.TrimSpace(r.Values[header])
}

// Empty reports whether every cell in the row is blank.
func (r Row) Empty() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Pick returns the first non-empty trimmed value for a logical field, trying
// candidate header names in order. Matching is two-pass: a case-insensitive
// exact header match always wins over a substring match (candidate contained
// in a header), even when the substring match appears earlier among the
// headers. Returns "" when no candidate yields a value.
func (r Row) Pick(candidates ...string) string {
	lower := make(map[string]string, len(r.Headers))
	for _, h := range r.Headers {
		key := strings.ToLower(h)
		if _, dup := lower[key]; !dup {
			lower[key] = h
		}
	}

	// Pass 1: exact case-insensitive header match.
	for _, cand := range candidates {
		if header, ok := lower[strings.ToLower(cand)]; ok {
			if v := r.Get(header); v != "" {
				return v
			}
		}
	}

	// Pass 2: candidate name contained in a header, in source column order.
	for _, cand := range candidates {
		key := strings.ToLower(cand)
		for _, header := range r.Headers {
			if strings.Contains(strings.ToLower(header), key) {
				if v := r.Get(header); v != "" {
					return v
				}
			}
		}
	}

	return ""
}
