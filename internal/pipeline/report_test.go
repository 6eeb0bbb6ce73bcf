package pipeline

import (
	"strings"
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h := ContentHashHex(nil); h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 min 0 sec"},
		{999 * time.Millisecond, "0 min 0 sec"},
		{59 * time.Second, "0 min 59 sec"},
		{60 * time.Second, "1 min 0 sec"},
		{2*time.Minute + 5*time.Second + 700*time.Millisecond, "2 min 5 sec"},
		{75 * time.Minute, "75 min 0 sec"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEncodeULID_Extremes(t *testing.T) {
	var zero [16]byte
	if got := encodeULID(zero); got != strings.Repeat("0", 26) {
		t.Errorf("zero ULID encoded as %q", got)
	}

	var ones [16]byte
	for i := range ones {
		ones[i] = 0xFF
	}
	if got := encodeULID(ones); got != "7"+strings.Repeat("Z", 25) {
		t.Errorf("max ULID encoded as %q", got)
	}
}

func TestNewRunID_TimestampPrefixAndUniqueness(t *testing.T) {
	now := time.UnixMilli(1469918176385) // 01ARYZ6S41 in the ULID reference
	a := newRunID(now)
	b := newRunID(now)

	if len(a) != 26 {
		t.Fatalf("expected 26 chars, got %d", len(a))
	}
	if !strings.HasPrefix(a, "01ARYZ6S41") {
		t.Errorf("expected timestamp prefix 01ARYZ6S41, got %q", a[:10])
	}
	if a == b {
		t.Error("IDs from the same millisecond must differ")
	}
	later := newRunID(now.Add(time.Second))
	if later <= a {
		t.Errorf("later ID %q does not sort after %q", later, a)
	}
}
