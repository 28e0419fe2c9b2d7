package dispatch

import (
	"testing"
	"time"
)

func TestEligible(t *testing.T) {
	resolved := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name         string
		now          time.Time
		delayMinutes int
		want         bool
	}{
		{"before delay", resolved.Add(60 * time.Minute), 120, false},
		{"exactly at delay", resolved.Add(120 * time.Minute), 120, true},
		{"after delay", resolved.Add(130 * time.Minute), 120, true},
		{"zero delay immediate", resolved, 0, true},
		{"negative delay treated as zero", resolved, -10, true},
		{"one minute short", resolved.Add(119 * time.Minute), 120, false},
	}
	for _, tc := range cases {
		if got := Eligible(resolved, tc.now, tc.delayMinutes); got != tc.want {
			t.Fatalf("%s: Eligible = %v, want %v", tc.name, got, tc.want)
		}
	}
}
