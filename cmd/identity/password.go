package identity

import (
	"quill/cmd/security/password"
)

// HashPassword hashes a plaintext password with the environment-configured
// Argon2id parameters. The result is a self-describing PHC string.
func HashPassword(plain string) (string, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		return "", err
	}
	return cfg.Hash(plain)
}

// VerifyPassword checks plain against an encoded Argon2id hash.
// It never reveals whether the hash or the password was at fault.
func VerifyPassword(encoded, plain string) (bool, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		return false, err
	}
	return cfg.Verify(encoded, plain)
}
