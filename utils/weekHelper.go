package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Weeks are stored as plain integers; the "Week N" label exists only at
// the HTTP and report boundary.

func FormatWeekLabel(week int) string {
	return fmt.Sprintf("Week %d", week)
}

// ParseWeekLabel accepts "Week 3", "week 3" or a bare "3".
func ParseWeekLabel(label string) (int, error) {
	s := strings.TrimSpace(label)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	fields := strings.Fields(s)
	if len(fields) == 2 && strings.EqualFold(fields[0], "week") {
		n, err := strconv.Atoi(fields[1])
		if err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid week label: " + label)
}

func ClampWeek(week int, maxWeek int) int {
	if week < 1 {
		return 1
	}
	if week > maxWeek {
		return maxWeek
	}
	return week
}
