// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Epoch is day zero of the Jet/Access date encoding.
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// TimestampLayout is the output form of a converted date.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	secondsPerDay = 86400

	// MinDays and MaxDays bound the encodings Access accepts
	// (0100-01-01 through 9999-12-31 23:59:59). MinDays bounds the day
	// part only; the fraction of a negative value is a time of day.
	MinDays = -657434.0
	MaxDays = 2958465.99999
)

// DecodeDays converts a fractional day count to a time. The integer part,
// truncated toward zero, is a day offset from Epoch. The absolute value of
// the remainder is the time of day, rounded to the nearest second; a
// remainder that rounds to a full day lands on midnight of the next day.
//
// Negative values therefore follow the Access convention: -1.25 is
// 1899-12-29 06:00:00, not 1899-12-28 18:00:00.
func DecodeDays(d float64) time.Time {
	whole := math.Trunc(d)
	frac := math.Abs(d - whole)
	secs := math.Round(frac * secondsPerDay)
	return Epoch.AddDate(0, 0, int(whole)).Add(time.Duration(secs) * time.Second)
}

// EncodeDays is the inverse of DecodeDays. Dates before Epoch produce a
// negative day part with the time of day subtracted, matching how Access
// stores them.
func EncodeDays(t time.Time) float64 {
	secs := t.Unix() - Epoch.Unix()
	day := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		day--
	}
	rem := float64(secs-day*secondsPerDay) + float64(t.Nanosecond())/1e9
	frac := rem / secondsPerDay
	if day < 0 {
		return float64(day) - frac
	}
	return float64(day) + frac
}

// FormatTimestamp renders t as YYYY-MM-DD HH:MM:SS without a zone.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseDays parses a textual day count and checks that it is finite and
// within the supported range. Surrounding spaces are ignored.
func ParseDays(s string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, ErrNotFinite
	}
	if math.Trunc(d) < MinDays || d > MaxDays {
		return 0, ErrOutOfRange
	}
	return d, nil
}

// ConvertValue parses an encoded day count and returns the formatted timestamp.
func ConvertValue(s string) (string, error) {
	d, err := ParseDays(s)
	if err != nil {
		return "", err
	}
	return FormatTimestamp(DecodeDays(d)), nil
}
