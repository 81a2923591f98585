package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Fatal("correct password does not verify")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Fatal("wrong password verifies")
	}
	if VerifyPassword("not-a-bcrypt-hash", "hunter22") {
		t.Fatal("garbage hash verifies")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestRandomPassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		p, err := RandomPassword()
		if err != nil {
			t.Fatalf("RandomPassword: %v", err)
		}
		if len(p) < 8 || len(p) > 12 {
			t.Fatalf("length %d for %q, want 8..12", len(p), p)
		}
		if strings.ContainsAny(p, "/+=") {
			t.Fatalf("password %q contains punctuation", p)
		}
		seen[p] = true
	}
	if len(seen) < 2 {
		t.Fatal("RandomPassword keeps returning the same value")
	}
}
