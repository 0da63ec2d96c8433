package doctype

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coercion helpers for payload fields. Extracted values legitimately arrive
// as formatted strings ("$1,234.56", "85.5%", "01/15/2024") and must be
// converted to strict numeric/date types before they touch a target schema.

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// Float coerces a numeric-looking value to float64. Strings are stripped of
// every character except digits, '.' and '-' before parsing.
func Float(v interface{}) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		s := stripNonNumeric(t)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot coerce %q to number", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to number", v)
	}
}

// Int coerces a value to int, truncating fractional parts.
func Int(v interface{}) (int, error) {
	f, err := Float(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Date coerces a date-like value to canonical YYYY-MM-DD form. Already
// canonical strings pass through unchanged.
func Date(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case time.Time:
		return t.Format("2006-01-02"), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.Format("2006-01-02"), nil
			}
		}
		return "", fmt.Errorf("cannot parse date %q", t)
	default:
		return "", fmt.Errorf("cannot coerce %T to date", v)
	}
}

// Str coerces a value to its string form, formatting numbers without
// scientific notation.
func Str(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
