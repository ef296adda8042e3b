package krypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltLen is the enforced salt length in bytes. Salts are always fresh
	// random bytes, never derived from the passphrase or vault content.
	SaltLen = 16

	// KeyLen is the derived key length in bytes (256-bit AES key).
	KeyLen = 32
)

// KDFName identifies the key-derivation algorithm in the container header.
const KDFName = "argon2id"

// Params captures the tunable Argon2id cost parameters. They are persisted
// alongside the ciphertext so a vault written under one set of defaults stays
// decryptable if the defaults ever change.
type Params struct {
	Time        uint32 `json:"time"`
	MemoryKB    uint32 `json:"memoryKB"`
	Parallelism uint8  `json:"parallelism"`
	KeyLen      uint32 `json:"keyLen"`
}

// DefaultParams returns the cost parameters used for new saves:
// 2 iterations over 64 MiB with a single lane, 256-bit output.
func DefaultParams() Params {
	return Params{
		Time:        2,
		MemoryKB:    64 * 1024,
		Parallelism: 1,
		KeyLen:      KeyLen,
	}
}

func (p Params) validate() error {
	if p.Time == 0 {
		return &KDFError{Reason: "time parameter must be positive"}
	}
	if p.MemoryKB == 0 {
		return &KDFError{Reason: "memory parameter must be positive"}
	}
	if p.Parallelism == 0 {
		return &KDFError{Reason: "parallelism must be positive"}
	}
	if p.KeyLen != KeyLen {
		return &KDFError{Reason: "unsupported key length"}
	}
	return nil
}

// DeriveKey derives a symmetric key from the passphrase and salt using
// Argon2id. The result is deterministic for a fixed (passphrase, salt, params)
// triple. The returned SecureKey is the sole owner of the key bytes; the
// caller must Wipe it when done.
func DeriveKey(passphrase string, salt []byte, p Params) (*SecureKey, error) {
	if passphrase == "" {
		return nil, &KDFError{Reason: "passphrase is required"}
	}
	if len(salt) != SaltLen {
		return nil, &KDFError{Reason: "unexpected salt length"}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	key := argon2.IDKey([]byte(passphrase), salt, p.Time, p.MemoryKB, p.Parallelism, p.KeyLen)
	return NewSecureKey(key), nil
}

// NewSalt returns a fresh cryptographically random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}
