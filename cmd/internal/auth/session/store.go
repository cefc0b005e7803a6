package session

import (
	"context"
	"time"
)

// Record is one live refresh credential for one account. The credential is
// stored only as a 64-char hex hash; the plaintext never reaches storage.
type Record struct {
	SubjectID string
	TokenHash string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Store abstracts persistence for refresh-credential state.
//
// Contract:
//   - At most one record exists per subject. Upsert replaces any previous
//     record for the same subject, which is what displaces an older session
//     when the account logs in again or refreshes.
//   - Exists matches on BOTH subject and token hash; a credential that
//     verifies cryptographically but has been rotated away or logged out
//     has no matching record.
//   - DeleteByToken is idempotent: deleting an absent token is not an error.
type Store interface {
	Upsert(ctx context.Context, rec Record) error
	Exists(ctx context.Context, subjectID, tokenHash string) (bool, error)
	DeleteByToken(ctx context.Context, tokenHash string) error
}
