package krypto

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey indicates a key of the wrong length reached the cipher.
	// This is an internal contract violation, not a user-facing condition.
	ErrInvalidKey = errors.New("invalid key")

	// ErrEncryptionFailed indicates the plaintext or nonce was rejected at
	// encryption time.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed indicates the authentication tag did not verify.
	// A wrong passphrase, a corrupted container and deliberate tampering all
	// surface here and are indistinguishable by design.
	ErrDecryptionFailed = errors.New("incorrect passphrase or corrupted vault")
)

// KDFError reports a key-derivation failure: bad cost parameters or a salt
// the primitive rejects.
type KDFError struct {
	Reason string
}

func (e *KDFError) Error() string {
	return fmt.Sprintf("kdf: %s", e.Reason)
}
