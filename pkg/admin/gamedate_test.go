package admin

import "testing"

func TestGamedateUnset(t *testing.T) {
	for _, v := range []uint32{0, 1, 365} {
		if got := gamedateToTime(v); !got.IsZero() {
			t.Fatalf("gamedateToTime(%d) = %v, want zero time", v, got)
		}
	}
}

func TestGamedateRoundTrip(t *testing.T) {
	for _, v := range []uint32{366, 1000, 700000, 800000} {
		tm := gamedateToTime(v)
		if tm.IsZero() {
			t.Fatalf("gamedateToTime(%d) unexpectedly zero", v)
		}
		if got := timeToGamedate(tm); got != v {
			t.Fatalf("timeToGamedate(gamedateToTime(%d)) = %d", v, got)
		}
	}
}
