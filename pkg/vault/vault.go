// Package vault turns a generated key string into authenticated encryption.
//
// The key string is stretched with PBKDF2-SHA256 into 32 bytes of key
// material and used with AES-256-GCM. Each box is self-contained: the random
// salt and nonce are prepended to the ciphertext, so Open needs only the key
// string and the box.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	crand "crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen = 16
	keyLen  = 32
	// PBKDF2 iteration count. Boxes do not record it, so changing this
	// breaks compatibility with previously sealed boxes.
	iterations = 210_000
)

// ErrEmptyKey is returned when sealing or opening with an empty key string.
var ErrEmptyKey = errors.New("vault key is empty")

// ErrDecrypt covers malformed boxes and failed authentication alike, so a
// caller cannot distinguish tampering from a wrong key.
var ErrDecrypt = errors.New("decryption failed")

// Seal encrypts plaintext under the given key string.
// Output layout: salt(16) || nonce(12) || ciphertext+tag.
func Seal(key string, plaintext []byte) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	salt := make([]byte, saltLen)
	if _, err := crand.Read(salt); err != nil {
		return nil, fmt.Errorf("vault: read salt: %w", err)
	}

	aead, err := newAEAD(key, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := crand.Read(nonce); err != nil {
		return nil, fmt.Errorf("vault: read nonce: %w", err)
	}

	box := make([]byte, 0, saltLen+len(nonce)+len(plaintext)+aead.Overhead())
	box = append(box, salt...)
	box = append(box, nonce...)
	return aead.Seal(box, nonce, plaintext, nil), nil
}

// Open decrypts a box produced by Seal. Returns ErrDecrypt for any malformed
// or tampered box and for a wrong key.
func Open(key string, box []byte) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if len(box) < saltLen {
		return nil, ErrDecrypt
	}

	salt := box[:saltLen]
	aead, err := newAEAD(key, salt)
	if err != nil {
		return nil, err
	}

	rest := box[saltLen:]
	if len(rest) < aead.NonceSize() {
		return nil, ErrDecrypt
	}
	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newAEAD(key string, salt []byte) (cipher.AEAD, error) {
	material := pbkdf2.Key([]byte(key), salt, iterations, keyLen, sha256.New)

	block, err := aes.NewCipher(material)
	if err != nil {
		return nil, fmt.Errorf("vault: init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: init gcm: %w", err)
	}
	return aead, nil
}
