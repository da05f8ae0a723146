package astro

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var sexagesimal = regexp.MustCompile(`^(\d+(?:\.\d+)?)([nsew])(\d+(?:\.\d+)?)?$`)

// ParseCoordinate converts a coordinate given as decimal degrees or as a
// sexagesimal hemisphere token ("32n43", "117w09") into signed decimal
// degrees. South and west are negative.
func ParseCoordinate(coord any) (float64, error) {
	switch v := coord.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if m := sexagesimal.FindStringSubmatch(s); m != nil {
			degrees, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return 0, fmt.Errorf("invalid coordinate %q", v)
			}
			var minutes float64
			if m[3] != "" {
				minutes, err = strconv.ParseFloat(m[3], 64)
				if err != nil {
					return 0, fmt.Errorf("invalid coordinate %q", v)
				}
			}
			value := degrees + minutes/60.0
			if m[2] == "s" || m[2] == "w" {
				value = -value
			}
			return value, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		}
		return 0, fmt.Errorf("invalid coordinate %q", v)
	default:
		return 0, fmt.Errorf("coordinate must be a string or number, got %T", coord)
	}
}

// datetime layouts accepted for chart subjects, in precedence order.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime parses a chart datetime in ISO form, treating zoneless
// values as UTC.
func ParseDateTime(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date_time %q: expected ISO format (YYYY-MM-DD HH:MM:SS)", value)
}
