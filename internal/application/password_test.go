package application

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var cheapArgon2idParams = Argon2idParams{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  8,
	KeyLength:   16,
}

func TestCreatePasswordHash_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := CreatePasswordHash("password123", cheapArgon2idParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", hash)
	}
	if err := VerifyPassword(hash, "password123"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := VerifyPassword(hash, "Password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	other, err := HasherWithParams(cheapArgon2idParams)("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if other == hash {
		t.Fatalf("expected distinct salts to produce distinct digests")
	}
}

func TestVerifyPassword_RejectsMalformedDigests(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=x$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA",
	}
	for _, digest := range cases {
		if err := VerifyPassword(digest, "pw"); !errors.Is(err, ErrInvalidPasswordHash) {
			t.Fatalf("digest %q: expected ErrInvalidPasswordHash, got %v", digest, err)
		}
	}

	if err := VerifyPassword("$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA", "pw"); !errors.Is(err, ErrIncompatiblePasswordVersion) {
		t.Fatalf("expected ErrIncompatiblePasswordVersion, got %v", err)
	}
}

func TestStore_AuthenticateWithArgon2(t *testing.T) {
	t.Parallel()

	store := NewStoreWithConfig(StoreConfig{
		Slot:         newSlotStub(),
		HashPassword: HasherWithParams(cheapArgon2idParams),
	})
	if err := store.Seed(context.Background(), AdminSeed("admin123", "")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.Authenticate(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("expected login, got %v", err)
	}
	if _, err := store.Authenticate(context.Background(), "admin", "admin"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
