package app

import (
	"strings"
	"testing"

	"quill/cmd/security/token"
)

func TestValidateSecurityConfigOffByDefault(t *testing.T) {
	if err := ValidateSecurityConfig(Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSecurityConfigRequiresKey(t *testing.T) {
	t.Setenv(token.HMACEnvKey, "")
	err := ValidateSecurityConfig(Config{RequireTokenHMAC: true})
	if err == nil {
		t.Fatal("expected error with HMAC required and no key set")
	}
	if !strings.Contains(err.Error(), "QUILL_REQUIRE_TOKEN_HMAC") {
		t.Errorf("error should name the policy flag: %v", err)
	}
}

func TestValidateSecurityConfigRejectsShortKey(t *testing.T) {
	t.Setenv(token.HMACEnvKey, "too-short")
	if err := ValidateSecurityConfig(Config{RequireTokenHMAC: true}); err == nil {
		t.Fatal("expected error for short HMAC key")
	}
}

func TestValidateSecurityConfigAcceptsStrongKey(t *testing.T) {
	t.Setenv(token.HMACEnvKey, strings.Repeat("k", 48))
	if err := ValidateSecurityConfig(Config{RequireTokenHMAC: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
