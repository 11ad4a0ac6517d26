package logging

import (
	"log/slog"
	"testing"
)

func TestAnonymizeEmail(t *testing.T) {
	hashed := AnonymizeEmail("alice@company.com")

	if hashed == "" {
		t.Fatal("AnonymizeEmail() returned empty string")
	}
	if hashed == "alice@company.com" {
		t.Error("AnonymizeEmail() must not return the raw email")
	}
	if hashed[:5] != "user:" {
		t.Errorf("AnonymizeEmail() = %q, want user: prefix", hashed)
	}

	// Same input hashes to the same value so log entries correlate.
	if AnonymizeEmail("alice@company.com") != hashed {
		t.Error("AnonymizeEmail() is not deterministic")
	}
	if AnonymizeEmail("bob@company.com") == hashed {
		t.Error("different emails must hash differently")
	}
}

func TestAnonymizeEmailEmpty(t *testing.T) {
	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(\"\") = %q, want empty", got)
	}
}

func TestErrNilSafe(t *testing.T) {
	attr := Err(nil)
	if attr.Value.Kind() != slog.KindGroup {
		t.Errorf("Err(nil) kind = %v, want group", attr.Value.Kind())
	}
	if len(attr.Value.Group()) != 0 {
		t.Error("Err(nil) should produce an empty group that slog omits")
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", "<empty>"},
		{"abcd", "[token:4 chars]"},
		{"supersecretbearertoken", "[token:22 chars]"},
	}

	for _, tt := range tests {
		if got := SanitizeToken(tt.token); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestAttributeKeys(t *testing.T) {
	if got := Operation("create_event"); got.Key != KeyOperation || got.Value.String() != "create_event" {
		t.Errorf("Operation() = %v", got)
	}
	if got := Intent("schedule"); got.Key != KeyIntent {
		t.Errorf("Intent() key = %q, want %q", got.Key, KeyIntent)
	}
	if got := Status("success"); got.Key != KeyStatus {
		t.Errorf("Status() key = %q, want %q", got.Key, KeyStatus)
	}
}
