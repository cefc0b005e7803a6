package session

import (
	"context"
	"strings"
	"testing"
	"time"
)

func hashOf(s string) string {
	// Stand-in 64-char "hash" values; the store treats them opaquely.
	return strings.Repeat("0", 64-len(s)) + s
}

func TestMemoryStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	rec := Record{SubjectID: "sub-1", TokenHash: hashOf("aaa"), IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := st.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	ok, err := st.Exists(ctx, "sub-1", hashOf("aaa"))
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}

	// Second upsert for the same subject replaces the first record.
	rec.TokenHash = hashOf("bbb")
	if err := st.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if ok, _ := st.Exists(ctx, "sub-1", hashOf("aaa")); ok {
		t.Fatal("old hash still live after upsert")
	}
	if ok, _ := st.Exists(ctx, "sub-1", hashOf("bbb")); !ok {
		t.Fatal("new hash not live after upsert")
	}
}

func TestMemoryStoreExistsRequiresBothMatch(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	if err := st.Upsert(ctx, Record{SubjectID: "sub-1", TokenHash: hashOf("aaa"), IssuedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if ok, _ := st.Exists(ctx, "sub-2", hashOf("aaa")); ok {
		t.Fatal("hash matched under the wrong subject")
	}
	if ok, _ := st.Exists(ctx, "sub-1", hashOf("ccc")); ok {
		t.Fatal("wrong hash matched")
	}
}

func TestMemoryStoreDeleteByTokenIdempotent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Now().UTC()

	if err := st.Upsert(ctx, Record{SubjectID: "sub-1", TokenHash: hashOf("aaa"), IssuedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := st.DeleteByToken(ctx, hashOf("aaa")); err != nil {
		t.Fatalf("DeleteByToken: %v", err)
	}
	if ok, _ := st.Exists(ctx, "sub-1", hashOf("aaa")); ok {
		t.Fatal("record still live after delete")
	}

	// Deleting again, or deleting something never stored, is a no-op.
	if err := st.DeleteByToken(ctx, hashOf("aaa")); err != nil {
		t.Fatalf("second DeleteByToken: %v", err)
	}
	if err := st.DeleteByToken(ctx, hashOf("zzz")); err != nil {
		t.Fatalf("DeleteByToken of unknown hash: %v", err)
	}
}
