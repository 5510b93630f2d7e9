package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateApiKey(t *testing.T) {
	key, prefix, err := GenerateApiKey()
	if err != nil {
		t.Fatalf("GenerateApiKey: %v", err)
	}
	if !strings.HasPrefix(key, ApiKeyPrefix) || len(key) != len(ApiKeyPrefix)+32 {
		t.Errorf("key = %q", key)
	}
	if !strings.HasPrefix(key, prefix) || len(prefix) != 10 {
		t.Errorf("prefix = %q", prefix)
	}

	other, _, _ := GenerateApiKey()
	if other == key {
		t.Error("keys repeat")
	}
}

func TestHashKey(t *testing.T) {
	h := HashKey("fs_abc")
	if len(h) != 64 || h != HashKey("fs_abc") {
		t.Errorf("HashKey = %q", h)
	}
	if h == HashKey("fs_abd") {
		t.Error("different keys share a hash")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "42", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "42" || claims.Issuer != tokenIssuer {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ValidateToken("other", token); err == nil {
		t.Error("token accepted with the wrong secret")
	}

	expired, _ := GenerateToken("secret", "42", -time.Minute)
	if _, err := ValidateToken("secret", expired); err == nil {
		t.Error("expired token accepted")
	}
}
