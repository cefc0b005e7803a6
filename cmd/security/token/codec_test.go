package token

import (
	"errors"
	"testing"
	"time"
)

func testPairConfig() PairConfig {
	return PairConfig{
		AccessSecret:  []byte("access-secret-0123456789-0123456789-ab"),
		RefreshSecret: []byte("refresh-secret-0123456789-0123456789-a"),
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    60 * time.Minute,
		Issuer:        "quill-test",
	}
}

func TestPairCodec_SignAndVerify(t *testing.T) {
	p, err := NewPairCodec(testPairConfig())
	if err != nil {
		t.Fatalf("NewPairCodec: %v", err)
	}

	now := time.Now().UTC()
	access, accessExp, err := p.SignAccess("01HZZZZZZZZZZZZZZZZZZZZZZZ", now)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}
	if !accessExp.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("access exp = %v, want now+30m", accessExp)
	}

	sub, err := p.VerifyAccess(access, now.Add(time.Second))
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if sub != "01HZZZZZZZZZZZZZZZZZZZZZZZ" {
		t.Fatalf("subject = %q", sub)
	}

	refresh, refreshExp, err := p.SignRefresh("01HZZZZZZZZZZZZZZZZZZZZZZZ", now)
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}
	if !refreshExp.Equal(now.Add(60 * time.Minute)) {
		t.Fatalf("refresh exp = %v, want now+60m", refreshExp)
	}
	if _, err := p.VerifyRefresh(refresh, now.Add(time.Second)); err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
}

func TestPairCodec_WrongPurposeRejected(t *testing.T) {
	p, err := NewPairCodec(testPairConfig())
	if err != nil {
		t.Fatalf("NewPairCodec: %v", err)
	}

	now := time.Now().UTC()
	refresh, _, err := p.SignRefresh("01HZZZZZZZZZZZZZZZZZZZZZZZ", now)
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	// A refresh credential must never pass the access check, even though both
	// are structurally valid JWTs.
	if _, err := p.VerifyAccess(refresh, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	access, _, err := p.SignAccess("01HZZZZZZZZZZZZZZZZZZZZZZZ", now)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}
	if _, err := p.VerifyRefresh(access, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPairCodec_SamePurposeDifferentSecretRejected(t *testing.T) {
	cfg := testPairConfig()
	a, err := NewPairCodec(cfg)
	if err != nil {
		t.Fatalf("NewPairCodec: %v", err)
	}

	cfg.AccessSecret = []byte("another-access-secret-0123456789-01234")
	b, err := NewPairCodec(cfg)
	if err != nil {
		t.Fatalf("NewPairCodec: %v", err)
	}

	now := time.Now().UTC()
	access, _, err := a.SignAccess("01HZZZZZZZZZZZZZZZZZZZZZZZ", now)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}
	if _, err := b.VerifyAccess(access, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_ExpiryAgainstSuppliedClock(t *testing.T) {
	p, err := NewPairCodec(testPairConfig())
	if err != nil {
		t.Fatalf("NewPairCodec: %v", err)
	}

	now := time.Now().UTC()
	access, _, err := p.SignAccess("01HZZZZZZZZZZZZZZZZZZZZZZZ", now)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	// Still valid one minute before expiry.
	if _, err := p.VerifyAccess(access, now.Add(29*time.Minute)); err != nil {
		t.Fatalf("VerifyAccess before expiry: %v", err)
	}
	// Expired one minute after the TTL, signature notwithstanding.
	if _, err := p.VerifyAccess(access, now.Add(31*time.Minute)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after TTL, got %v", err)
	}
}

func TestCodec_MalformedInput(t *testing.T) {
	p, err := NewPairCodec(testPairConfig())
	if err != nil {
		t.Fatalf("NewPairCodec: %v", err)
	}

	now := time.Now().UTC()
	for _, tok := range []string{"", "   ", "not.a.jwt", "a.b"} {
		if _, err := p.VerifyAccess(tok, now); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestNewCodec_ConfigValidation(t *testing.T) {
	if _, err := NewCodec(PurposeAccess, []byte("short"), time.Minute, "quill"); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for short secret, got %v", err)
	}
	if _, err := NewCodec(PurposeAccess, []byte("access-secret-0123456789-0123456789-ab"), 0, "quill"); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for zero TTL, got %v", err)
	}
	if _, err := NewCodec(Purpose("session"), []byte("access-secret-0123456789-0123456789-ab"), time.Minute, "quill"); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for unknown purpose, got %v", err)
	}

	cfg := testPairConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	if _, err := NewPairCodec(cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for shared secret, got %v", err)
	}
}

func TestHashRefreshTokenHex_Modes(t *testing.T) {
	t.Setenv(HMACEnvKey, "")
	plain := HashRefreshTokenHex("some-refresh-token")
	if len(plain) != 64 {
		t.Fatalf("digest length = %d, want 64", len(plain))
	}
	if plain != HashSHA256Hex("some-refresh-token") {
		t.Fatalf("expected SHA-256 fallback without HMAC key")
	}

	t.Setenv(HMACEnvKey, "0123456789abcdef0123456789abcdef")
	keyed := HashRefreshTokenHex("some-refresh-token")
	if len(keyed) != 64 {
		t.Fatalf("digest length = %d, want 64", len(keyed))
	}
	if keyed == plain {
		t.Fatalf("HMAC digest must differ from plain SHA-256")
	}
}
