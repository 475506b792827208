package common

import (
  "testing"
)

func TestPasswordRoundTrip(t *testing.T) {
  salt := GenerateSalt()
  if len(salt) != 32 {
    t.Fatalf("salt should be 16 hex bytes, got %d chars", len(salt))
  }
  hashed := HashPassword("hunter2", salt)
  if !VerifyPassword("hunter2", salt, hashed) {
    t.Fatalf("correct password should verify")
  }
  if VerifyPassword("hunter3", salt, hashed) {
    t.Fatalf("wrong password should not verify")
  }
  if VerifyPassword("hunter2", GenerateSalt(), hashed) {
    t.Fatalf("wrong salt should not verify")
  }
}

func TestHashPasswordDeterministic(t *testing.T) {
  salt := GenerateSalt()
  if HashPassword("secret", salt) != HashPassword("secret", salt) {
    t.Fatalf("same password and salt must hash identically")
  }
}
