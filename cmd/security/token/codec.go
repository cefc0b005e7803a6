package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose names the role a credential plays. Every signed token embeds its
// purpose, and verification rejects tokens presented under the wrong one.
type Purpose string

const (
	// PurposeAccess is the short-lived credential checked on every request.
	PurposeAccess Purpose = "access"
	// PurposeRefresh is the longer-lived credential exchanged for a new pair.
	PurposeRefresh Purpose = "refresh"
)

// minSecretBytes is the minimum accepted HMAC secret size.
// 32 bytes matches the HS256 output width; anything shorter weakens the MAC.
const minSecretBytes = 32

// Claims is the signed payload of a Quill credential.
type Claims struct {
	Purpose string `json:"pur"`
	jwt.RegisteredClaims
}

// Codec signs and verifies credentials for exactly one purpose.
//
// Codec is a pure function of its configuration plus the caller-supplied
// clock; it holds no mutable state and is safe for concurrent use.
type Codec struct {
	purpose Purpose
	secret  []byte
	ttl     time.Duration
	issuer  string
}

// NewCodec builds a Codec for one purpose.
//
// The secret must be at least 32 bytes and the TTL positive; both are
// validated here so misconfiguration fails at startup, not per request.
func NewCodec(purpose Purpose, secret []byte, ttl time.Duration, issuer string) (*Codec, error) {
	switch purpose {
	case PurposeAccess, PurposeRefresh:
	default:
		return nil, ErrConfig
	}
	if len(secret) < minSecretBytes {
		return nil, ErrConfig
	}
	if ttl <= 0 {
		return nil, ErrConfig
	}

	return &Codec{
		purpose: purpose,
		secret:  secret,
		ttl:     ttl,
		issuer:  strings.TrimSpace(issuer),
	}, nil
}

// TTL returns the configured credential lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Sign mints a credential for subjectID issued at now.
// The expiry is now + the purpose-specific TTL.
func (c *Codec) Sign(subjectID string, now time.Time) (signed string, exp time.Time, err error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return "", time.Time{}, ErrConfig
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	exp = now.Add(c.ttl)

	claims := Claims{
		Purpose: string(c.purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature, expiry, issuer, and purpose against now and
// returns the subject id. Every failure maps to ErrInvalidToken.
func (c *Codec) Verify(tokenStr string, now time.Time) (string, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	// Bound pathological inputs before handing them to the parser.
	if tokenStr == "" || len(tokenStr) > 4096 {
		return "", ErrInvalidToken
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if c.issuer != "" {
		options = append(options, jwt.WithIssuer(c.issuer))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Purpose != string(c.purpose) {
		return "", ErrInvalidToken
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// PairConfig configures a PairCodec. Access and refresh secrets must be
// independent values; reusing one secret for both purposes is rejected.
type PairConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// PairCodec signs and verifies the access/refresh credential pair.
type PairCodec struct {
	access  *Codec
	refresh *Codec
}

// NewPairCodec builds the two purpose codecs from one configuration.
func NewPairCodec(cfg PairConfig) (*PairCodec, error) {
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, ErrConfig
	}

	access, err := NewCodec(PurposeAccess, cfg.AccessSecret, cfg.AccessTTL, cfg.Issuer)
	if err != nil {
		return nil, err
	}
	refresh, err := NewCodec(PurposeRefresh, cfg.RefreshSecret, cfg.RefreshTTL, cfg.Issuer)
	if err != nil {
		return nil, err
	}
	return &PairCodec{access: access, refresh: refresh}, nil
}

// SignAccess mints a short-lived access credential for subjectID.
func (p *PairCodec) SignAccess(subjectID string, now time.Time) (string, time.Time, error) {
	return p.access.Sign(subjectID, now)
}

// SignRefresh mints a refresh credential for subjectID.
func (p *PairCodec) SignRefresh(subjectID string, now time.Time) (string, time.Time, error) {
	return p.refresh.Sign(subjectID, now)
}

// VerifyAccess verifies an access credential and returns its subject id.
func (p *PairCodec) VerifyAccess(tokenStr string, now time.Time) (string, error) {
	return p.access.Verify(tokenStr, now)
}

// VerifyRefresh verifies a refresh credential and returns its subject id.
func (p *PairCodec) VerifyRefresh(tokenStr string, now time.Time) (string, error) {
	return p.refresh.Verify(tokenStr, now)
}

// AccessTTL returns the access credential lifetime.
func (p *PairCodec) AccessTTL() time.Duration { return p.access.TTL() }

// RefreshTTL returns the refresh credential lifetime.
func (p *PairCodec) RefreshTTL() time.Duration { return p.refresh.TTL() }
