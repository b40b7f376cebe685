package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes, so keys are pre-hashed to a fixed
// 64-character digest.
func digest(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return []byte(hex.EncodeToString(sum[:]))
}

// HashKey hashes an admin key for storage in memory
func HashKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(digest(key), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckKey compares an admin key with a hash
func CheckKey(key, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), digest(key))
	return err == nil
}
