package timesheet

import (
	"strconv"
	"strings"
)

// ParseClockHours converts a duration cell to decimal hours. Scheduling
// exports mix clock-style "H:MM" text with plain numeric values, so both are
// accepted. Empty, "00:00", and unparseable values all resolve to zero; a bad
// duration drops that week's hours rather than failing the load.
func ParseClockHours(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || s == "00:00" {
		return 0
	}

	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		hours, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0
		}
		minutes, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0
		}
		return hours + minutes/60
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}
