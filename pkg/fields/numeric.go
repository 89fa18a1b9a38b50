package fields

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount converts a Spanish-formatted number («1.811,00», «2.700», «300»)
// into a canonical decimal. Dots are thousands separators when a decimal comma
// is present or when they group exactly three digits. Negative amounts are
// rejected: scholarship amounts and thresholds are non-negative by law, so a
// minus sign always indicates a mis-located match.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	if strings.Contains(s, ",") {
		// Decimal comma form: dots can only be thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Contains(s, ".") {
		// No comma: a final group of exactly three digits is a thousands
		// separator («14.112»), anything else is a decimal point.
		lastDot := strings.LastIndex(s, ".")
		if len(s)-lastDot-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		} else {
			head := strings.ReplaceAll(s[:lastDot], ".", "")
			s = head + s[lastDot:]
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %q", raw)
	}
	return v, nil
}

// ParseGrade parses a grade-point value written with a decimal comma
// («8,00», «9,50»).
func ParseGrade(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing grade %q: %w", raw, err)
	}
	if v < 0 || v > 10 {
		return 0, fmt.Errorf("grade %q outside [0,10]", raw)
	}
	return v, nil
}

// ParsePercent parses a percentage and validates it against [0,100].
// Out-of-range values are a parse failure, never clamped.
func ParsePercent(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing percentage %q: %w", raw, err)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("percentage %q outside [0,100]", raw)
	}
	return v, nil
}

// ParseCredits parses a whole credit count.
func ParseCredits(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parsing credit count %q: %w", raw, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative credit count %q", raw)
	}
	return n, nil
}
