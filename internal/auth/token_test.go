package auth

import "testing"

func TestGenerateSessionToken(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := GenerateSessionToken()
		if err != nil {
			t.Fatalf("GenerateSessionToken failed: %v", err)
		}
		if !ValidTokenFormat(token) {
			t.Fatalf("token %q has invalid format", token)
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}

func TestValidTokenFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  bool
	}{
		{"", false},
		{"abc", false},
		{"ZZZZ000000000000000000000000000000000000000000000000000000000000", false},
		{"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", true},
	}

	for _, tt := range tests {
		if got := ValidTokenFormat(tt.token); got != tt.want {
			t.Errorf("ValidTokenFormat(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestTokenKey(t *testing.T) {
	t.Parallel()

	a := TokenKey("token-a")
	if a != TokenKey("token-a") {
		t.Error("TokenKey should be deterministic")
	}
	if a == TokenKey("token-b") {
		t.Error("different tokens should have different keys")
	}
	if len(a) != 32 {
		t.Errorf("TokenKey length = %d, want 32", len(a))
	}
}
