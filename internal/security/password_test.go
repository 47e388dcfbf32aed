package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == password {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if !CheckPassword(password, hash) {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword() accepted a wrong password")
	}
	if CheckPassword("Correct horse battery staple", hash) {
		t.Error("CheckPassword() should be case-sensitive")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}

func TestCheckPasswordBadHash(t *testing.T) {
	if CheckPassword("secret", "not-a-bcrypt-hash") {
		t.Error("CheckPassword() accepted a malformed hash")
	}
	if CheckPassword("secret", "") {
		t.Error("CheckPassword() accepted an empty hash")
	}
}
