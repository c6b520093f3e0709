package security

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "testPassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "" {
		t.Error("HashPassword() returned empty string")
	}
	if hash == password {
		t.Error("HashPassword() returned the plaintext password")
	}

	// Same password should produce a different hash each time (random salt)
	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == hash2 {
		t.Error("HashPassword() produced identical hashes for the same input")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "testPassword123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !CheckPassword(password, hash) {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword("wrongPassword", hash) {
		t.Error("CheckPassword() accepted a wrong password")
	}
	if CheckPassword(password, "not-a-hash") {
		t.Error("CheckPassword() accepted a malformed hash")
	}
}

func TestGenerateSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateSessionID()
		if id == "" {
			t.Fatal("GenerateSessionID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("GenerateSessionID() produced a duplicate: %s", id)
		}
		seen[id] = true
	}
}
