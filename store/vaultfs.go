// Package store implements the vault container format and the save/load
// engine: serialize, derive, encrypt, encode and persist atomically, plus the
// exact inverse. Decryption failure is the expected way an incorrect
// passphrase is detected; there is no separate verification step.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coffre/coffre/internal/vault"
	"github.com/coffre/coffre/krypto"
)

// SaveVault serializes, encrypts and persists the vault to path. A fresh salt
// and nonce are generated for every save, so no (key, nonce) pair is ever
// reused. The file is replaced atomically: the previous container stays
// intact unless the new one was fully prepared and written.
func SaveVault(v *vault.Vault, path, passphrase string) error {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serialize vault: %w", err)
	}

	salt, err := krypto.NewSalt()
	if err != nil {
		return err
	}
	nonce, err := krypto.NewNonce()
	if err != nil {
		return err
	}

	params := krypto.DefaultParams()
	key, err := krypto.DeriveKey(passphrase, salt, params)
	if err != nil {
		return err
	}
	defer key.Wipe()

	ciphertext, err := krypto.Encrypt(plaintext, key, nonce)
	if err != nil {
		return err
	}

	container := Container{
		Version:    FormatVersion,
		KDF:        krypto.KDFName,
		KDFParams:  params,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}
	data, err := container.Encode()
	if err != nil {
		return err
	}

	return writeAtomic(path, data)
}

// LoadVault reads and decrypts the container at path. A tag-verification
// failure surfaces as krypto.ErrDecryptionFailed; the engine cannot tell a
// wrong passphrase from corruption and does not claim to.
func LoadVault(path, passphrase string) (*vault.Vault, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vault: %w", err)
	}

	container, err := DecodeContainer(data)
	if err != nil {
		return nil, err
	}
	if container.KDF != krypto.KDFName {
		return nil, fmt.Errorf("%w: unsupported kdf", ErrMalformedContainer)
	}

	key, err := krypto.DeriveKey(passphrase, container.Salt, container.KDFParams)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	plaintext, err := krypto.Decrypt(container.Ciphertext, key, container.Nonce)
	if err != nil {
		return nil, err
	}

	var v vault.Vault
	if err := json.Unmarshal(plaintext, &v); err != nil {
		// The tag verified, so this indicates an internal inconsistency
		// rather than a user error.
		return nil, fmt.Errorf("deserialize vault: %w", err)
	}
	return &v, nil
}

// writeAtomic writes data to a temp file in the target directory with
// restrictive permissions, then renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "vault-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp vault: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp vault: %w", err)
	}

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp vault: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp vault: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace vault: %w", err)
	}

	return nil
}

// Exists reports whether a regular file is present at path.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat vault: %w", err)
	}
	return info.Mode().IsRegular(), nil
}
