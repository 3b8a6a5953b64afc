// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return BeginningOfDay(t.AddDate(0, 0, -int(t.Weekday())))
}

// BucketLabel formats a timestamp as a chart bucket key for the given
// time frame: "M/D" per day, "Week of M/D" per week, "M/YYYY" per month.
func BucketLabel(t time.Time, timeFrame string) string {
	switch timeFrame {
	case "week":
		start := StartOfWeek(t)
		return fmt.Sprintf("Week of %d/%d", int(start.Month()), start.Day())
	case "month":
		return fmt.Sprintf("%d/%d", int(t.Month()), t.Year())
	default: // day
		return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
	}
}
