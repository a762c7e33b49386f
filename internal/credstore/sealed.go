package credstore

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

// Sealed credential files start with this magic so a plain-JSON file is never
// mistaken for a sealed one.
var sealedMagic = []byte("kickoffsealed:v1:")

const (
	saltSize  = 16
	nonceSize = 24
)

func deriveKey(secret string, salt []byte) (*[32]byte, error) {
	raw, err := scrypt.Key([]byte(secret), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

// seal encrypts plaintext with a key derived from secret. Layout:
// magic || salt || nonce || ciphertext.
func seal(secret string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveKey(secret, salt)
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(sealedMagic)+saltSize+nonceSize+len(plaintext)+secretbox.Overhead)
	out = append(out, sealedMagic...)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plaintext, &nonce, key), nil
}

// open decrypts data produced by seal. Wrong secrets and truncated or
// tampered files all fail with an error.
func open(secret string, data []byte) ([]byte, error) {
	if len(data) < len(sealedMagic)+saltSize+nonceSize {
		return nil, fmt.Errorf("sealed credential file is truncated")
	}
	if string(data[:len(sealedMagic)]) != string(sealedMagic) {
		return nil, fmt.Errorf("credential file is not sealed")
	}
	data = data[len(sealedMagic):]

	key, err := deriveKey(secret, data[:saltSize])
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], data[saltSize:saltSize+nonceSize])

	plaintext, ok := secretbox.Open(nil, data[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("failed to decrypt credential file")
	}
	return plaintext, nil
}
