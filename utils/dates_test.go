package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketLabel(t *testing.T) {
	// Wednesday 2026-03-18
	ts := time.Date(2026, 3, 18, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "3/18", BucketLabel(ts, "day"))
	assert.Equal(t, "Week of 3/15", BucketLabel(ts, "week")) // Sunday of that week
	assert.Equal(t, "3/2026", BucketLabel(ts, "month"))

	// Unknown frames fall back to day
	assert.Equal(t, "3/18", BucketLabel(ts, ""))
}

func TestStartOfWeek(t *testing.T) {
	sunday := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	for d := 0; d < 7; d++ {
		day := sunday.AddDate(0, 0, d).Add(9 * time.Hour)
		assert.Equal(t, sunday, StartOfWeek(day), "offset %d", d)
	}
}

func TestBeginningOfDay(t *testing.T) {
	ts := time.Date(2026, 1, 2, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), BeginningOfDay(ts))
}
