package session

import (
	"context"
	"crypto/subtle"
	"sync"
)

// MemoryStore is an in-memory refresh-credential store for tests and for
// running the server without a database.
type MemoryStore struct {
	mu sync.RWMutex

	bySubject map[string]Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bySubject: make(map[string]Record)}
}

// Upsert stores rec, replacing any previous record for the same subject.
func (s *MemoryStore) Upsert(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bySubject[rec.SubjectID] = rec
	return nil
}

// Exists reports whether the subject's live record carries this token hash.
func (s *MemoryStore) Exists(ctx context.Context, subjectID, tokenHash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.bySubject[subjectID]
	if !ok {
		return false, nil
	}
	return ctEqHex64(rec.TokenHash, tokenHash), nil
}

// DeleteByToken removes whichever record carries this token hash. Absent
// tokens are a no-op.
func (s *MemoryStore) DeleteByToken(ctx context.Context, tokenHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for subject, rec := range s.bySubject {
		if ctEqHex64(rec.TokenHash, tokenHash) {
			delete(s.bySubject, subject)
			return nil
		}
	}
	return nil
}

// ctEqHex64 compares two expected 64-char hex strings in constant time.
// Rejects if either length != 64 to keep timing stable.
func ctEqHex64(a, b string) bool {
	if len(a) != 64 || len(b) != 64 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
