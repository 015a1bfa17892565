package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValueRedactsSensitiveKeys(t *testing.T) {
	cases := []string{"api_key", "openai_api_key", "authorization", "refresh_token", "participant_name"}
	for _, key := range cases {
		got := sanitizeValue(key, "raw-value")
		if got != "[REDACTED]" {
			t.Fatalf("sanitizeValue(%q): want [REDACTED] got %v", key, got)
		}
	}
}

func TestSanitizeValueHashesSessionID(t *testing.T) {
	got := sanitizeValue("session_id", "b2f9c2de-1111-2222-3333-444455556666")
	s, ok := got.(string)
	if !ok {
		t.Fatalf("expected string, got %T", got)
	}
	if !strings.HasPrefix(s, "hash:") {
		t.Fatalf("session_id not hashed: %v", got)
	}
	if strings.Contains(s, "b2f9c2de") {
		t.Fatal("raw session id leaked into hashed value")
	}
}

func TestSanitizeValuePassesOrdinaryKeys(t *testing.T) {
	if got := sanitizeValue("agenda_id", "abc"); got != "abc" {
		t.Fatalf("ordinary key mangled: %v", got)
	}
}

func TestHashValueStable(t *testing.T) {
	a := hashValue("same-input")
	b := hashValue("same-input")
	if a != b {
		t.Fatalf("hash not stable: %s vs %s", a, b)
	}
	if hashValue("other-input") == a {
		t.Fatal("distinct inputs collided")
	}
}

func TestWithPreservesWrapper(t *testing.T) {
	log, err := New("development")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	child := log.With("service", "test")
	if child == nil || child.SugaredLogger == nil {
		t.Fatal("With returned unusable logger")
	}
}
