package common

import (
  "crypto/rand"
  "crypto/subtle"
  "encoding/hex"

  "golang.org/x/crypto/scrypt"
)

func GenerateSalt() string {
  buf := make([]byte, 16)
  rand.Read(buf)
  return hex.EncodeToString(buf)
}

func HashPassword(password string, salt string) string {
  hash, err := scrypt.Key([]byte(password), []byte(salt), 32768, 8, 1, 32)
  if err != nil {
    panic(err)
  }
  return hex.EncodeToString(hash)
}

func VerifyPassword(password string, salt string, hashed string) bool {
  return subtle.ConstantTimeCompare(
    []byte(HashPassword(password, salt)),
    []byte(hashed),
  ) == 1
}
