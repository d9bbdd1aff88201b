// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"math"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "epoch", input: "0", want: "1899-12-30 00:00:00"},
		{name: "day and a half", input: "1.5", want: "1899-12-31 12:00:00"},
		{name: "surrounding spaces", input: "  1.5 ", want: "1899-12-31 12:00:00"},
		{name: "exponent form", input: "1e3", want: "1902-09-26 00:00:00"},
		{name: "modern date", input: "43831", want: "2020-01-01 00:00:00"},
		{name: "noon", input: "43831.5", want: "2020-01-01 12:00:00"},
		{name: "one second before midnight", input: "43831.999988", want: "2020-01-01 23:59:59"},
		{name: "rounds up into next day", input: "43831.9999999", want: "2020-01-02 00:00:00"},
		{name: "just under half a second rounds down", input: "0.0000057", want: "1899-12-30 00:00:00"},
		{name: "just over half a second rounds up", input: "0.0000058", want: "1899-12-30 00:00:01"},
		{name: "negative uses absolute fraction", input: "-1.25", want: "1899-12-29 06:00:00"},
		{name: "negative fraction only", input: "-0.25", want: "1899-12-30 06:00:00"},
		{name: "upper bound", input: "2958465.99999", want: "9999-12-31 23:59:59"},
		{name: "lower bound", input: "-657434", want: "0100-01-01 00:00:00"},
		{name: "lower bound day at noon", input: "-657434.5", want: "0100-01-01 12:00:00"},
		{name: "last second of lower bound day", input: "-657434.99999", want: "0100-01-01 23:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertValue(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertValue_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "not a number", input: "abc"},
		{name: "empty", input: ""},
		{name: "nan", input: "NaN", wantErr: ErrNotFinite},
		{name: "infinity", input: "+Inf", wantErr: ErrNotFinite},
		{name: "too large", input: "2958466", wantErr: ErrOutOfRange},
		{name: "too small", input: "-657435", wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertValue(tt.input)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				var numErr *strconv.NumError
				assert.ErrorAs(t, err, &numErr)
			}
		})
	}
}

func TestEncodeDays(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want float64
	}{
		{name: "epoch", in: Epoch, want: 0},
		{name: "day and a half", in: time.Date(1899, 12, 31, 12, 0, 0, 0, time.UTC), want: 1.5},
		{name: "modern date", in: time.Date(2020, 1, 1, 6, 0, 0, 0, time.UTC), want: 43831.25},
		{name: "before epoch", in: time.Date(1899, 12, 29, 6, 0, 0, 0, time.UTC), want: -1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EncodeDays(tt.in), 1e-9)
		})
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	// Rounding to the nearest second moves a value by at most half a second.
	const tolerance = 0.5/secondsPerDay + 1e-9

	rng := rand.New(rand.NewSource(1))
	values := []float64{0, 0.5, 1, 1.5, 43831.999988, 43831.9999999, 60, 61, 100000.123456}
	for i := 0; i < 1000; i++ {
		values = append(values, rng.Float64()*200000)
	}

	for _, d := range values {
		got := EncodeDays(DecodeDays(d))
		if math.Abs(got-d) > tolerance {
			t.Errorf("EncodeDays(DecodeDays(%v)) = %v, off by %v days", d, got, math.Abs(got-d))
		}
	}
}

func TestDecodeDays_WholeSeconds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		d := rng.Float64() * 50000
		assert.Zero(t, DecodeDays(d).Nanosecond(), "DecodeDays(%v) kept sub-second precision", d)
	}
}
