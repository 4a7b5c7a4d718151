package store

import (
	"testing"
	"time"
)

func TestScoreTimeLayoutSortsChronologically(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	// Sub-second ties are the hazard: a truncating format renders 100ms as
	// "…0.1Z" which sorts after "…0.12Z" lexically.
	times := []time.Time{
		base,
		base.Add(1 * time.Nanosecond),
		base.Add(100 * time.Millisecond),
		base.Add(120 * time.Millisecond),
		base.Add(time.Second),
	}
	for i := 1; i < len(times); i++ {
		earlier := times[i-1].Format(scoreTimeLayout)
		later := times[i].Format(scoreTimeLayout)
		if !(earlier < later) {
			t.Fatalf("formatted order inverted: %q should sort before %q", earlier, later)
		}
	}

	// TopScores reads the stored strings back with a permissive parse.
	for _, ts := range times {
		parsed, err := time.Parse(time.RFC3339Nano, ts.Format(scoreTimeLayout))
		if err != nil {
			t.Fatalf("parse stored timestamp: %v", err)
		}
		if !parsed.Equal(ts) {
			t.Fatalf("round trip changed the instant: %v vs %v", parsed, ts)
		}
	}
}
