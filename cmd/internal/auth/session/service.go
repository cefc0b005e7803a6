package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"quill/cmd/identity"
	"quill/cmd/security/token"
)

// Service implements the high-level session operations for Quill.
//
// It registers accounts, issues credential pairs at login, rotates them at
// refresh, revokes them at logout, and verifies access credentials statelessly
// for request authentication.
type Service struct {
	cfg      Config
	codec    *token.PairCodec
	accounts identity.Repository
	store    Store
	log      *slog.Logger

	// dummyHash is verified against when the username is unknown, so a login
	// miss costs the same as a password mismatch.
	dummyHash string
}

// Issued is the result of issuing or rotating a session.
type Issued struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// RegisterInput is a registration request before validation.
type RegisterInput struct {
	Username        string
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginInput is a login request before validation.
type LoginInput struct {
	Username string
	Password string
}

// NewService constructs a Service. The logger is used for internal audit
// records only; it never changes what callers observe.
func NewService(cfg Config, accounts identity.Repository, store Store, log *slog.Logger) (*Service, error) {
	codec, err := cfg.NewCodec()
	if err != nil {
		return nil, err
	}
	if accounts == nil || store == nil {
		return nil, ErrConfig
	}
	if log == nil {
		log = slog.Default()
	}

	// Precompute the decoy hash once; Argon2id is deliberately expensive.
	dummy, err := identity.HashPassword("Decoy1Decoy1")
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:       cfg,
		codec:     codec,
		accounts:  accounts,
		store:     store,
		log:       log,
		dummyHash: dummy,
	}, nil
}

// Register validates the input, creates the account, and issues the first
// credential pair.
//
// Validation short-circuits on the first failing field and nothing is
// persisted before it passes. Uniqueness is decided by the repository insert;
// when the username constraint trips but the email is also taken, the email
// conflict is the one reported.
//
// Persisting the refresh record is best-effort here: the account already
// exists and the credentials are already signed, so a storage hiccup is
// logged and registration still succeeds. The client simply has to log in
// again once the refresh credential goes stale.
func (s *Service) Register(ctx context.Context, now time.Time, in RegisterInput) (identity.Profile, Issued, error) {
	if err := s.validateRegister(in); err != nil {
		return identity.Profile{}, Issued{}, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	pwHash, err := identity.HashPassword(in.Password)
	if err != nil {
		return identity.Profile{}, Issued{}, err
	}

	acc, err := s.accounts.Create(ctx, identity.CreateAccountInput{
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: pwHash,
		Now:          now,
	})
	if err != nil {
		return identity.Profile{}, Issued{}, s.resolveConflict(ctx, in, err)
	}

	issued, err := s.issue(acc.ID, now)
	if err != nil {
		return identity.Profile{}, Issued{}, err
	}

	if err := s.persistRefresh(ctx, acc.ID, issued, now); err != nil {
		s.audit(ctx, "register", "refresh_persist_failed", acc.ID, err)
	}

	return acc.Safe(), issued, nil
}

// resolveConflict applies the email-first conflict rule. The insert reports
// whichever constraint tripped first; if that was the username but the email
// is also taken, the email conflict wins.
func (s *Service) resolveConflict(ctx context.Context, in RegisterInput, err error) error {
	if !identity.IsConflict(err) {
		return err
	}

	var ce identity.ConflictError
	if errors.As(err, &ce) && ce.Field == "username" {
		taken, exErr := s.accounts.ExistsByEmail(ctx, in.Email)
		if exErr == nil && taken {
			return identity.ConflictError{Op: ce.Op, Field: "email"}
		}
	}
	return err
}

// Login verifies the credentials and issues a fresh pair. The new refresh
// record displaces any previous one for the account, so the older session can
// no longer refresh.
//
// Every failure past input validation is ErrUnauthorized; unknown usernames
// burn a hash verification so they are not distinguishable by timing.
func (s *Service) Login(ctx context.Context, now time.Time, in LoginInput) (identity.Profile, Issued, error) {
	if err := identity.ValidateUsername(in.Username); err != nil {
		return identity.Profile{}, Issued{}, err
	}
	if err := identity.ValidatePassword(in.Password); err != nil {
		return identity.Profile{}, Issued{}, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	acc, err := s.accounts.FindByUsername(ctx, in.Username)
	if err != nil {
		if identity.IsNotFound(err) {
			_, _ = identity.VerifyPassword(s.dummyHash, in.Password)
			s.audit(ctx, "login", "unknown_username", "", nil)
			return identity.Profile{}, Issued{}, ErrUnauthorized
		}
		return identity.Profile{}, Issued{}, err
	}

	ok, err := identity.VerifyPassword(acc.PasswordHash, in.Password)
	if err != nil {
		return identity.Profile{}, Issued{}, err
	}
	if !ok {
		s.audit(ctx, "login", "password_mismatch", acc.ID, nil)
		return identity.Profile{}, Issued{}, ErrUnauthorized
	}

	issued, err := s.issue(acc.ID, now)
	if err != nil {
		return identity.Profile{}, Issued{}, err
	}
	if err := s.persistRefresh(ctx, acc.ID, issued, now); err != nil {
		return identity.Profile{}, Issued{}, err
	}

	return acc.Safe(), issued, nil
}

// Refresh exchanges a refresh credential for a new pair.
//
// The credential must verify cryptographically AND match the account's live
// server-side record; either check failing is ErrUnauthorized. On success the
// new record replaces the old one, so each refresh credential works exactly
// once.
func (s *Service) Refresh(ctx context.Context, now time.Time, refreshToken string) (identity.Profile, Issued, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	subjectID, err := s.codec.VerifyRefresh(refreshToken, now)
	if err != nil {
		s.audit(ctx, "refresh", "invalid_token", "", nil)
		return identity.Profile{}, Issued{}, ErrUnauthorized
	}

	hash := token.HashRefreshTokenHex(refreshToken)
	live, err := s.store.Exists(ctx, subjectID, hash)
	if err != nil {
		return identity.Profile{}, Issued{}, err
	}
	if !live {
		s.audit(ctx, "refresh", "no_live_record", subjectID, nil)
		return identity.Profile{}, Issued{}, ErrUnauthorized
	}

	acc, err := s.accounts.GetByID(ctx, subjectID)
	if err != nil {
		if identity.IsNotFound(err) {
			s.audit(ctx, "refresh", "account_gone", subjectID, nil)
			return identity.Profile{}, Issued{}, ErrUnauthorized
		}
		return identity.Profile{}, Issued{}, err
	}

	issued, err := s.issue(acc.ID, now)
	if err != nil {
		return identity.Profile{}, Issued{}, err
	}
	if err := s.persistRefresh(ctx, acc.ID, issued, now); err != nil {
		return identity.Profile{}, Issued{}, err
	}

	return acc.Safe(), issued, nil
}

// Logout revokes the session that owns this refresh credential. Logging out
// an unknown or already-revoked credential is a successful no-op.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.store.DeleteByToken(ctx, token.HashRefreshTokenHex(refreshToken))
}

// Authenticate verifies an access credential statelessly and returns the
// subject (account) id. No storage is consulted.
func (s *Service) Authenticate(accessToken string, now time.Time) (string, error) {
	subjectID, err := s.codec.VerifyAccess(accessToken, now)
	if err != nil {
		return "", ErrUnauthorized
	}
	return subjectID, nil
}

// Profile loads the safe projection for an authenticated subject.
func (s *Service) Profile(ctx context.Context, subjectID string) (identity.Profile, error) {
	acc, err := s.accounts.GetByID(ctx, subjectID)
	if err != nil {
		return identity.Profile{}, err
	}
	return acc.Safe(), nil
}

// AccessTTL returns the configured access credential lifetime.
func (s *Service) AccessTTL() time.Duration { return s.codec.AccessTTL() }

func (s *Service) validateRegister(in RegisterInput) error {
	if err := identity.ValidateUsername(in.Username); err != nil {
		return err
	}
	if err := identity.ValidateName(in.Name); err != nil {
		return err
	}
	if err := identity.ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := identity.ValidatePassword(in.Password); err != nil {
		return err
	}
	return identity.ValidateConfirmation(in.Password, in.ConfirmPassword)
}

func (s *Service) issue(subjectID string, now time.Time) (Issued, error) {
	access, accessExp, err := s.codec.SignAccess(subjectID, now)
	if err != nil {
		return Issued{}, err
	}
	refresh, refreshExp, err := s.codec.SignRefresh(subjectID, now)
	if err != nil {
		return Issued{}, err
	}
	return Issued{
		AccessToken:  access,
		AccessExp:    accessExp,
		RefreshToken: refresh,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *Service) persistRefresh(ctx context.Context, subjectID string, issued Issued, now time.Time) error {
	return s.store.Upsert(ctx, Record{
		SubjectID: subjectID,
		TokenHash: token.HashRefreshTokenHex(issued.RefreshToken),
		IssuedAt:  now,
		ExpiresAt: issued.RefreshExp,
	})
}

// audit records the real reason an operation failed (or degraded) without
// exposing it to the caller. subjectID may be empty.
func (s *Service) audit(ctx context.Context, op, reason, subjectID string, err error) {
	attrs := []any{
		slog.String("op", op),
		slog.String("reason", reason),
	}
	if subjectID != "" {
		attrs = append(attrs, slog.String("subject_id", subjectID))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.log.WarnContext(ctx, "auth audit", attrs...)
}
