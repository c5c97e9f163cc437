package assethost

import (
	"net/http"
	"testing"
	"time"
)

func TestParseRetryAfter(t *testing.T) {
	cases := []struct {
		name string
		in   string
		min  time.Duration
		max  time.Duration
	}{
		{name: "empty", in: "", min: 0, max: 0},
		{name: "delta seconds", in: "7", min: 7 * time.Second, max: 7 * time.Second},
		{name: "negative delta", in: "-3", min: 0, max: 0},
		{name: "garbage", in: "soon", min: 0, max: 0},
		{
			name: "http date",
			in:   time.Now().Add(10 * time.Second).UTC().Format(http.TimeFormat),
			// the format truncates to whole seconds
			min: 8 * time.Second,
			max: 10 * time.Second,
		},
		{
			name: "http date in the past",
			in:   time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat),
			min:  0,
			max:  0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseRetryAfter(tc.in)
			if got < tc.min || got > tc.max {
				t.Fatalf("parseRetryAfter(%q) = %s, want between %s and %s", tc.in, got, tc.min, tc.max)
			}
		})
	}
}
