package utils

import "testing"

// TestHashPwdRoundTrip tests hashing and verification.
func TestHashPwdRoundTrip(t *testing.T) {
	hash, err := HashPwd("correct_pwd")
	if err != nil {
		t.Fatalf("HashPwd failed: %v", err)
	}
	if hash == "correct_pwd" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPwd("correct_pwd", hash) {
		t.Fatal("CheckPwd should accept the original password")
	}
	if CheckPwd("wrong_pwd", hash) {
		t.Fatal("CheckPwd should reject a wrong password")
	}
}

// TestHashPwdSalted tests that equal passwords hash differently.
func TestHashPwdSalted(t *testing.T) {
	first, err := HashPwd("same")
	if err != nil {
		t.Fatalf("HashPwd failed: %v", err)
	}
	second, err := HashPwd("same")
	if err != nil {
		t.Fatalf("HashPwd failed: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password should differ")
	}
}
