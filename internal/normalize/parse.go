// internal/normalize/parse.go
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Number parses a locale-tolerant decimal: a comma is accepted as the decimal
// separator. Unparsable or empty input yields 0 so a bad cell never fails the
// row.
func Number(raw string) float64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0
	}
	v = strings.Replace(v, ",", ".", 1)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

var dateSeparators = []string{".", "/", "-"}

// Date parses a calendar date. Day-first forms (31.01.2024, 31/01/2024,
// 31-01-2024) are tried before ISO layouts. Returns nil when the value is
// empty or unparsable.
func Date(raw string) *time.Time {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}

	for _, sep := range dateSeparators {
		parts := strings.Split(v, sep)
		if len(parts) != 3 {
			continue
		}
		if len(strings.TrimSpace(parts[0])) > 2 {
			// Year-first forms fall through to the ISO layouts below.
			break
		}
		day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
		if errD != nil || errM != nil || errY != nil {
			return nil
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// Reject normalized overflow like 32.01 -> 01.02.
		if d.Day() != day || int(d.Month()) != month {
			return nil
		}
		return &d
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if d, err := time.Parse(layout, v); err == nil {
			d = d.UTC()
			return &d
		}
	}
	return nil
}
