package format

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{2 * time.Minute, "2m"},
		{90 * time.Second, "1m30s"},
		{3 * time.Hour, "3h0m"},
		{3*time.Hour + 12*time.Minute, "3h12m"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcd", 4); got != "abcd" {
		t.Fatalf("Truncate = %q, want %q", got, "abcd")
	}
	if got := Truncate("abcdef", 4); got != "abc~" {
		t.Fatalf("Truncate = %q, want %q", got, "abc~")
	}
}

func TestMakeProgressBar(t *testing.T) {
	cases := []struct {
		in     float64
		filled int
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{150, 10},
		{-5, 0},
	}

	for _, tc := range cases {
		bar := MakeProgressBar(tc.in)
		count := 0
		for _, r := range bar {
			if r == '█' {
				count++
			}
		}
		if count != tc.filled {
			t.Fatalf("MakeProgressBar(%.0f) filled %d cells, want %d", tc.in, count, tc.filled)
		}
	}
}
