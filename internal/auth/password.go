package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// KDF parameters. Changing either invalidates stored credentials, so they are
// versioned here rather than read from config at verification time.
const (
	kdfIterations = 100000
	saltLength    = 16
	keyLength     = 32
)

// HashPassword derives a key from the password with a fresh random salt.
func HashPassword(password string) (salt, key []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, err
	}
	key = pbkdf2.Key([]byte(password), salt, kdfIterations, keyLength, sha256.New)
	return salt, key, nil
}

// VerifyPassword recomputes the derived key for the candidate and compares in
// constant time. Malformed input yields false, never an error.
func VerifyPassword(salt, key []byte, candidate string) bool {
	if len(salt) == 0 || len(key) == 0 {
		return false
	}
	derived := pbkdf2.Key([]byte(candidate), salt, kdfIterations, len(key), sha256.New)
	return hmac.Equal(key, derived)
}
