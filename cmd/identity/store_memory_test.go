package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedInput(username, email string) CreateAccountInput {
	return CreateAccountInput{
		Username:     username,
		Email:        email,
		Name:         "Test Account",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		Now:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	acc, err := repo.Create(ctx, seedInput("Quill_Writer", "writer@example.com"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if acc.ID == "" {
		t.Fatal("expected generated id")
	}
	if acc.Username != "Quill_Writer" {
		t.Fatalf("username mangled: %q", acc.Username)
	}

	// Lookup is case-insensitive via normalization.
	got, err := repo.FindByUsername(ctx, "quill_writer")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got.ID != acc.ID {
		t.Fatalf("id mismatch: %q != %q", got.ID, acc.ID)
	}

	byID, err := repo.GetByID(ctx, acc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Email != "writer@example.com" {
		t.Fatalf("email mismatch: %q", byID.Email)
	}

	if _, err := repo.FindByUsername(ctx, "nobody_here"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryRepositoryConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if _, err := repo.Create(ctx, seedInput("firstuser", "first@example.com")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		name      string
		username  string
		email     string
		wantField string
	}{
		{"email taken", "otheruser", "first@example.com", "email"},
		{"email taken different case", "otheruser", "FIRST@example.com", "email"},
		{"username taken", "FirstUser", "other@example.com", "username"},
		{"both taken reports email", "firstuser", "first@example.com", "email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(ctx, seedInput(tc.username, tc.email))
			if !IsConflict(err) {
				t.Fatalf("expected conflict, got %v", err)
			}
			var ce ConflictError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConflictError, got %T", err)
			}
			if ce.Field != tc.wantField {
				t.Fatalf("conflict field = %q, want %q", ce.Field, tc.wantField)
			}
		})
	}
}

func TestMemoryRepositoryExists(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if _, err := repo.Create(ctx, seedInput("existing", "exists@example.com")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ok, err := repo.ExistsByEmail(ctx, "EXISTS@example.com")
	if err != nil || !ok {
		t.Fatalf("ExistsByEmail = %v, %v; want true, nil", ok, err)
	}
	ok, err = repo.ExistsByUsername(ctx, "Existing")
	if err != nil || !ok {
		t.Fatalf("ExistsByUsername = %v, %v; want true, nil", ok, err)
	}
	ok, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	if err != nil || ok {
		t.Fatalf("ExistsByEmail = %v, %v; want false, nil", ok, err)
	}
}

func TestAccountSafeProjection(t *testing.T) {
	acc := Account{
		ID:           "01J0",
		Username:     "quillwriter",
		Email:        "writer@example.com",
		Name:         "Writer",
		PasswordHash: "secret-hash",
		CreatedAt:    time.Now().UTC(),
	}

	p := acc.Safe()
	if p.ID != acc.ID || p.Username != acc.Username || p.Email != acc.Email || p.Name != acc.Name {
		t.Fatalf("projection dropped fields: %+v", p)
	}
}
