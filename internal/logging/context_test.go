package logging

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBuildRID(t *testing.T) {
	if got := BuildRID(42, -100500, 7); got != "42:-100500:7" {
		t.Fatalf("rid = %q", got)
	}
}

func TestRIDRoundTrip(t *testing.T) {
	ctx := WithRID(context.Background(), "1:2:3")
	if got := RIDFrom(ctx); got != "1:2:3" {
		t.Fatalf("rid = %q", got)
	}
	if got := RIDFrom(context.Background()); got != "" {
		t.Fatalf("rid on empty ctx = %q", got)
	}
	if got := RIDFrom(nil); got != "" { //nolint:staticcheck
		t.Fatalf("rid on nil ctx = %q", got)
	}
}

func TestUpdateMetaRoundTrip(t *testing.T) {
	ctx := WithUpdateMeta(context.Background(), 10, 20, 30)
	if got := UpdateIDFrom(ctx); got != 10 {
		t.Fatalf("update id = %d", got)
	}
	if got := UserIDFrom(ctx); got != 20 {
		t.Fatalf("user id = %d", got)
	}
	if got := ChatIDFrom(ctx); got != 30 {
		t.Fatalf("chat id = %d", got)
	}
}

func TestSanitizeStripsControlRunes(t *testing.T) {
	in := "hello\x00\x1bworld\tok\nline​"
	got := Sanitize(in)
	want := "helloworld\tok\nline"
	if got != want {
		t.Fatalf("sanitized = %q, want %q", got, want)
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("привет мир", 6); got != "привет" {
		t.Fatalf("limited = %q", got)
	}
	if got := SanitizeLimit("short", 100); got != "short" {
		t.Fatalf("limited = %q", got)
	}
	if got := SanitizeLimit("anything", 0); got != "" {
		t.Fatalf("zero limit = %q", got)
	}
}

func TestStatus(t *testing.T) {
	if got := Status(nil); got != "ok" {
		t.Fatalf("status = %q", got)
	}
	if got := Status(errors.New("boom")); got != "error" {
		t.Fatalf("status = %q", got)
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(1500 * time.Microsecond); got != 2*time.Millisecond {
		t.Fatalf("rounded = %v", got)
	}
	if got := RoundMS(-time.Second); got != 0 {
		t.Fatalf("negative = %v", got)
	}
}
