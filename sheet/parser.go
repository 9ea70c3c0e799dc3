package sheet

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	intFields = map[string]bool{
		"organicKeywords": true,
		"organicTraffic":  true,
		"paidKeywords":    true,
		"paidTraffic":     true,
		"refDomains":      true,
		"authorityScore":  true,
		"authorityChange": true,
	}

	floatFields = map[string]bool{
		"keywordsTrend":    true,
		"trafficTrend":     true,
		"paidTrend":        true,
		"paidTrafficTrend": true,
		"refTrend":         true,
	}

	boolFields = map[string]bool{
		"isOwn":     true,
		"highlight": true,
	}

	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Parse converts comma separated sheet text into rows. The first non-blank
// line names the columns. Quoted cells are not supported: a comma inside a
// value shifts every following column, same as the export it reads.
func Parse(text string) []Row {
	lines := splitLines(text)
	if len(lines) == 0 {
		return []Row{}
	}

	headers := splitCells(lines[0])
	rows := make([]Row, 0, len(lines)-1)

	for _, line := range lines[1:] {
		cells := splitCells(line)
		row := make(Row, 0, len(headers))
		for i, header := range headers {
			raw := ""
			if i < len(cells) {
				raw = cells[i]
			}
			row = row.set(header, Coerce(header, raw))
		}
		rows = append(rows, row)
	}

	return rows
}

// Coerce converts a raw cell according to the column it belongs to
func Coerce(field, raw string) Value {
	raw = strings.TrimSpace(raw)
	switch {
	case intFields[field]:
		return Value{Kind: KindInt, Int: parseInt(raw)}
	case floatFields[field]:
		return Value{Kind: KindFloat, Float: parseFloat(raw)}
	case boolFields[field]:
		return Value{Kind: KindBool, Bool: strings.EqualFold(raw, "true")}
	default:
		return Value{Kind: KindString, Str: raw}
	}
}

// parseInt reads the leading integer of s, ignoring anything after it
func parseInt(s string) int64 {
	m := intPrefix.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseFloat reads the leading decimal of s, so "12.5%" is 12.5
func parseFloat(s string) float64 {
	m := floatPrefix.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}
