package krypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// NonceLen is the AES-GCM nonce length in bytes (96 bits).
const NonceLen = 12

// Encrypt seals plaintext with AES-256-GCM under the given key and nonce.
// The 128-bit authentication tag is appended to the returned ciphertext.
// No associated data is bound. The nonce must come from NewNonce and must
// never be reused under the same key; the engine guarantees this by pairing
// every encryption with a fresh salt-derived key and a fresh nonce.
func Encrypt(plaintext []byte, key *SecureKey, nonce []byte) ([]byte, error) {
	if key.Len() != KeyLen {
		return nil, ErrInvalidKey
	}
	if len(nonce) != NonceLen {
		return nil, ErrEncryptionFailed
	}

	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, ErrInvalidKey
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrEncryptionFailed
	}

	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// Decrypt opens an AES-256-GCM ciphertext produced by Encrypt. Any tag
// mismatch returns ErrDecryptionFailed with no further detail: a wrong
// passphrase, corruption and tampering are deliberately indistinguishable.
func Decrypt(ciphertext []byte, key *SecureKey, nonce []byte) ([]byte, error) {
	if key.Len() != KeyLen {
		return nil, ErrInvalidKey
	}
	if len(nonce) != NonceLen {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, ErrInvalidKey
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// NewNonce returns a fresh cryptographically random nonce.
func NewNonce() ([]byte, error) {
	nonce := make([]byte, NonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return nonce, nil
}
