package model

import "time"

// DailyStatistics aggregates link clicks per calendar day (UTC).
type DailyStatistics struct {
	Day        time.Time
	LinkClicks int
}
