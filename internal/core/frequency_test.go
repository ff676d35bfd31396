package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFrequencyJump(t *testing.T) {
	cases := []struct {
		name string
		freq Frequency
		from time.Time
		n    int
		want time.Time
	}{
		{"daily", Daily, date(2024, 1, 15), 3, date(2024, 1, 18)},
		{"weekly", Weekly, date(2024, 1, 1), 2, date(2024, 1, 15)},
		{"biweekly", Biweekly, date(2024, 1, 1), 1, date(2024, 1, 15)},
		{"monthly plain", Monthly, date(2024, 1, 15), 1, date(2024, 2, 15)},
		{"monthly clamps to february", Monthly, date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"monthly recovers day from anchor", Monthly, date(2024, 1, 31), 2, date(2024, 3, 31)},
		{"yearly", Yearly, date(2024, 3, 15), 1, date(2025, 3, 15)},
		{"yearly leap day clamps", Yearly, date(2024, 2, 29), 1, date(2025, 2, 28)},
		{"zero steps", Monthly, date(2024, 1, 31), 0, date(2024, 1, 31)},
		{"unknown frequency is terminal", Frequency("hourly"), date(2024, 1, 1), 5, date(2024, 1, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.freq.Jump(tc.from, tc.n)
			if !got.Equal(tc.want) {
				t.Errorf("Jump(%v, %d) = %v, want %v", tc.from, tc.n, got, tc.want)
			}
		})
	}
}

func TestFrequencyStepsUntil(t *testing.T) {
	cases := []struct {
		name   string
		freq   Frequency
		from   time.Time
		target time.Time
		want   int
	}{
		{"already at target", Monthly, date(2024, 3, 1), date(2024, 3, 1), 0},
		{"target behind", Daily, date(2024, 3, 5), date(2024, 3, 1), 0},
		{"daily", Daily, date(2024, 1, 1), date(2024, 1, 10), 9},
		{"weekly partial period rounds up", Weekly, date(2024, 1, 1), date(2024, 1, 10), 2},
		{"monthly across year boundary", Monthly, date(2023, 11, 15), date(2024, 2, 1), 3},
		{"monthly clamp still reaches window", Monthly, date(2024, 1, 31), date(2024, 2, 1), 1},
		{"yearly", Yearly, date(2020, 6, 1), date(2024, 1, 1), 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.freq.StepsUntil(tc.from, tc.target)
			if !ok {
				t.Fatal("StepsUntil returned not ok for valid frequency")
			}
			if got != tc.want {
				t.Errorf("StepsUntil = %d, want %d", got, tc.want)
			}
			if got > 0 {
				if tc.freq.Jump(tc.from, tc.want).Before(tc.target) {
					t.Error("Jump(from, n) still before target")
				}
				if !tc.freq.Jump(tc.from, tc.want-1).Before(tc.target) {
					t.Error("n is not minimal")
				}
			}
		})
	}

	if _, ok := Frequency("fortnightly").StepsUntil(date(2024, 1, 1), date(2024, 2, 1)); ok {
		t.Error("unknown frequency should report not ok")
	}
}
