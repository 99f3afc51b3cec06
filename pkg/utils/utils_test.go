package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateIDUsesPrefix(t *testing.T) {
	id := GenerateID("ov")
	if !strings.HasPrefix(id, "ov_") {
		t.Errorf("expected prefix 'ov_', got %s", id)
	}
	if id == GenerateID("ov") {
		t.Error("expected distinct ids across calls")
	}
}

func TestGenerateRequestIDIsUnique(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	if a == b {
		t.Errorf("expected distinct request ids, got %s twice", a)
	}
	if !strings.HasPrefix(a, "req_") {
		t.Errorf("expected 'req_' prefix, got %s", a)
	}
}

func TestGenerateTraceIDLength(t *testing.T) {
	id := GenerateTraceID()
	if len(id) != 32 {
		t.Errorf("expected 32 hex chars, got %d: %s", len(id), id)
	}
}

func TestSanitizeString(t *testing.T) {
	in := "  LIVE\x00 from\tthe studio\x07  "
	want := "LIVE from\tthe studio"
	if got := SanitizeString(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("breaking news ticker", 10); got != "breakin..." {
		t.Errorf("got %q", got)
	}
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty("   \t ") {
		t.Error("whitespace-only string should be empty")
	}
	if IsEmpty("LIVE") {
		t.Error("non-blank string should not be empty")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{2500 * time.Millisecond, "2.50s"},
		{90 * time.Second, "1m30s"},
		{90 * time.Minute, "1h30m"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatPlaybackClock(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{65, "1:05"},
		{3599, "59:59"},
		{3725, "1:02:05"},
		{-3, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatPlaybackClock(tc.seconds); got != tc.want {
			t.Errorf("FormatPlaybackClock(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseDurationSafe(t *testing.T) {
	if got := ParseDurationSafe("150ms", time.Second); got != 150*time.Millisecond {
		t.Errorf("got %v", got)
	}
	if got := ParseDurationSafe("garbage", time.Second); got != time.Second {
		t.Errorf("expected fallback, got %v", got)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	parsed, err := ParseTimestamp(FormatTimestamp(now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(now) {
		t.Errorf("round trip mismatch: %v != %v", parsed, now)
	}
}
