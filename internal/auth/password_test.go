package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("password1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "password1" {
		t.Fatal("hash equals plaintext")
	}

	if err := ComparePassword(hash, "password1"); err != nil {
		t.Errorf("ComparePassword with correct password: %v", err)
	}
	if err := ComparePassword(hash, "password2"); err == nil {
		t.Error("ComparePassword accepted a wrong password")
	}
}

func TestComparePasswordCaseSensitive(t *testing.T) {
	hash, err := HashPassword("Password1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "password1"); err == nil {
		t.Error("ComparePassword ignored case")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("password1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("password1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical; salt missing")
	}
}
