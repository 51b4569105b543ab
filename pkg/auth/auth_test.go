package auth

import (
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("test-secret-at-least-32-bytes-long!")

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(testSecret, "ci-bot", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if parts := strings.Count(token, "."); parts != 2 {
		t.Fatalf("token has %d dots, want 2: %q", parts, token)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "ci-bot" {
		t.Fatalf("subject=%q want=%q", claims.Subject, "ci-bot")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(testSecret, "ci-bot", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken([]byte("other-secret"), token); err == nil {
		t.Fatal("expected error for wrong secret, got nil")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(testSecret, "ci-bot", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(testSecret, token); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ParseToken(testSecret, tok); err == nil {
			t.Fatalf("expected error for token %q, got nil", tok)
		}
	}
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := GenerateToken(nil, "x", time.Hour); err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
}
