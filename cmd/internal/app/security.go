package app

import (
	"fmt"

	"quill/cmd/security/token"
)

// ValidateSecurityConfig enforces the startup security policy. Misconfigured
// deployments fail fast instead of serving weakened auth.
func ValidateSecurityConfig(cfg Config) error {
	if !cfg.RequireTokenHMAC {
		return nil
	}
	if _, err := token.HMACKeyFromEnv(32); err != nil {
		return fmt.Errorf("QUILL_REQUIRE_TOKEN_HMAC is set: %w", err)
	}
	return nil
}
