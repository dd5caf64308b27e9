package parse

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var spaceRe = regexp.MustCompile(`\s+`)

// missingValues are cells a spreadsheet export writes for "no value".
var missingValues = map[string]bool{
	"":    true,
	"nan": true,
	"n/a": true,
	"na":  true,
	"-":   true,
}

// Text trims a cell and collapses inner runs of whitespace.
func Text(raw string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
}

// Sector canonicalizes the case of the two known sectors and keeps anything else as-is.
func Sector(raw string) string {
	s := Text(raw)
	switch strings.ToLower(s) {
	case "public":
		return "Public"
	case "private":
		return "Private"
	}
	return s
}

// YesNo canonicalizes yes/no cells. Unknown values are returned trimmed.
func YesNo(raw string) string {
	s := Text(raw)
	switch strings.ToLower(s) {
	case "yes", "y", "true":
		return "Yes"
	case "no", "n", "false":
		return "No"
	}
	return s
}

// DateParser parses "Established Since" cells against a list of layouts.
type DateParser struct {
	layouts []string
	loc     *time.Location
}

// NewDateParser builds a parser for the given layouts in the named timezone.
func NewDateParser(layouts []string, timezone string) (*DateParser, error) {
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no date layouts configured")
	}
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
		}
		loc = l
	}
	return &DateParser{layouts: layouts, loc: loc}, nil
}

// Established returns the parsed date, or nil when the cell is missing or matches no layout.
func (p *DateParser) Established(raw string) *time.Time {
	s := Text(raw)
	if missingValues[strings.ToLower(s)] {
		return nil
	}
	// Numeric exports sometimes carry a trailing ".0" on bare years.
	s = strings.TrimSuffix(s, ".0")

	for _, layout := range p.layouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return &t
		}
	}
	return nil
}
