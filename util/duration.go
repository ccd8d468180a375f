package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatDurationWords formats a duration as words, e.g. "0 days 1 hour 2 minutes 3 seconds".
// Sub-second precision is dropped.
func FormatDurationWords(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	units := []struct {
		name  string
		value int64
	}{
		{"day", seconds / 86400},
		{"hour", seconds % 86400 / 3600},
		{"minute", seconds % 3600 / 60},
		{"second", seconds % 60},
	}
	parts := make([]string, 0, len(units))
	for _, u := range units {
		if u.value == 1 {
			parts = append(parts, fmt.Sprintf("%d %s", u.value, u.name))
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", u.value, u.name))
		}
	}
	return strings.Join(parts, " ")
}
