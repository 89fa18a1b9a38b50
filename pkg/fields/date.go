package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a civil calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// String returns the ISO form YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// MarshalJSON encodes the date in ISO form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes an ISO-form date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	d.Year, d.Month, d.Day = t.Year(), t.Month(), t.Day()
	return nil
}

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

var spanishDatePattern = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+([a-záéíóúñ]+)(?:\s+de\s+(\d{4}))?`)

// ParseSpanishDate parses a prose date such as «12 de mayo de 2025». When the
// year is omitted it is inferred from the academic year: the application
// window opens in the autumn of the start year, so months August through
// December belong to the start year and January through July to the end year.
func ParseSpanishDate(raw, academicYear string) (Date, error) {
	m := spanishDatePattern.FindStringSubmatch(raw)
	if m == nil {
		return Date{}, fmt.Errorf("no date in %q", raw)
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return Date{}, fmt.Errorf("invalid day in %q", raw)
	}

	month, ok := spanishMonths[strings.ToLower(m[2])]
	if !ok {
		return Date{}, fmt.Errorf("unknown month %q", m[2])
	}

	var year int
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	} else {
		start, end, err := SplitAcademicYear(academicYear)
		if err != nil {
			return Date{}, fmt.Errorf("date %q has no year and academic year is unusable: %w", raw, err)
		}
		if month >= time.August {
			year = start
		} else {
			year = end
		}
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// SplitAcademicYear splits a token such as «2025-2026» into its two calendar
// years.
func SplitAcademicYear(token string) (start, end int, err error) {
	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed academic year %q", token)
	}
	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed academic year %q", token)
	}
	end, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed academic year %q", token)
	}
	if end == start%100+1 {
		// Short form «2025-26».
		end = start - start%100 + end
	}
	if end != start+1 {
		return 0, 0, fmt.Errorf("academic year %q does not span consecutive years", token)
	}
	return start, end, nil
}
