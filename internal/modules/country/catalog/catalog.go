// Package catalog holds the static country list used by the directory picker.
package catalog

import "strings"

// AllCode is the sentinel entry meaning "no country filter".
const AllCode = "all"

// regionalIndicatorOffset turns 'A' (65) into U+1F1E6.
const regionalIndicatorOffset = 127397

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

func init() {
	for i := range entries {
		if entries[i].Code != AllCode {
			entries[i].Flag = Flag(entries[i].Code)
		}
	}
}

// All returns a copy of the catalog in display order.
func All() []Country {
	out := make([]Country, len(entries))
	copy(out, entries)
	return out
}

// Filter returns the entries whose name or code contains term, ignoring case.
// An empty term matches everything.
func Filter(term string) []Country {
	needle := strings.ToLower(term)
	out := make([]Country, 0, len(entries))
	for _, c := range entries {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Code), needle) {
			out = append(out, c)
		}
	}
	return out
}

func Lookup(code string) (Country, bool) {
	for _, c := range entries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// Flag maps a two-letter country code to its regional-indicator glyph.
func Flag(code string) string {
	if code == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		b.WriteRune(r + regionalIndicatorOffset)
	}
	return b.String()
}
