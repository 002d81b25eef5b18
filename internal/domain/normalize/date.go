package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const isoDateLayout = "2006-01-02"

// Date is a calendar date without time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as an ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO date string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d = Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	return nil
}

// Date patterns in the order they are tried. All are anchored at the start.
var datePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // compiled once
	regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`),
	regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})`),
	regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})`),
	regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})`),
	regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日`),
}

// NormalizeDate parses the supported date layouts. A pattern that matches but
// does not form a valid calendar date falls through to the next pattern.
func NormalizeDate(text string) (Date, bool) {
	s := strings.TrimSpace(norm.NFKC.String(text))
	if s == "" {
		return Date{}, false
	}
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		year, month, day := m[1], m[2], m[3]
		if len(m[1]) != 4 {
			month, day, year = m[1], m[2], m[3]
		}
		if d, ok := calendarDate(year, month, day); ok {
			return d, true
		}
	}
	return Date{}, false
}

func calendarDate(year, month, day string) (Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil || y < 1 {
		return Date{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return Date{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 {
		return Date{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return Date{}, false
	}
	return Date{Year: y, Month: time.Month(m), Day: d}, true
}
