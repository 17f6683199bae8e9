// Package cryptox implements password hashing for stored credentials.
//
// Passwords are stretched with argon2id using a per-user random salt; only the
// salt and the derived key are persisted.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Changing them invalidates every stored hash.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32

	SaltSize = 16
)

// PasswordHash is what gets stored for a user instead of the password.
type PasswordHash struct {
	Salt []byte
	Key  []byte
}

// DeriveKey stretches password with salt.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword derives a key for password under a fresh random salt.
func HashPassword(password []byte) *PasswordHash {
	salt := common.GenerateRandByteArray(SaltSize)
	return &PasswordHash{Salt: salt, Key: DeriveKey(password, salt)}
}

// CheckPassword reports whether password matches the stored salt and key.
// The comparison runs in constant time.
func CheckPassword(password []byte, h *PasswordHash) bool {
	if h == nil || len(h.Key) == 0 {
		return false
	}
	candidate := DeriveKey(password, h.Salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(h.Key, candidate) == 1
}
