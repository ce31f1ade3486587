package describe

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthsLong = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// parseDate splits a plain "YYYY-MM-DD" string into components without
// going through a timestamp, so no timezone conversion can shift the day.
func parseDate(s string) (year, month, day int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, false
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, false
	}
	day, err = strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// formatDateShort renders "Mar 1, 2024".
func formatDateShort(year, month, day int) string {
	return fmt.Sprintf("%s %d, %d", time.Month(month).String()[:3], day, year)
}

// formatDateLong renders "March 1, 2024".
func formatDateLong(year, month, day int) string {
	return fmt.Sprintf("%s %d, %d", monthsLong[month-1], day, year)
}
