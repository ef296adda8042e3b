package krypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffre/coffre/krypto"
)

func TestDeriveKeyIsDeterministic(t *testing.T) {
	salt, err := krypto.NewSalt()
	require.NoError(t, err)

	key1, err := krypto.DeriveKey("test_passphrase", salt, krypto.DefaultParams())
	require.NoError(t, err)
	defer key1.Wipe()

	key2, err := krypto.DeriveKey("test_passphrase", salt, krypto.DefaultParams())
	require.NoError(t, err)
	defer key2.Wipe()

	assert.Len(t, key1.Bytes(), krypto.KeyLen)
	assert.Equal(t, key1.Bytes(), key2.Bytes(), "same passphrase and salt must produce the same key")
}

func TestDeriveKeyDifferentSalts(t *testing.T) {
	salt1, err := krypto.NewSalt()
	require.NoError(t, err)
	salt2, err := krypto.NewSalt()
	require.NoError(t, err)
	require.NotEqual(t, salt1, salt2)

	key1, err := krypto.DeriveKey("test_passphrase", salt1, krypto.DefaultParams())
	require.NoError(t, err)
	defer key1.Wipe()

	key2, err := krypto.DeriveKey("test_passphrase", salt2, krypto.DefaultParams())
	require.NoError(t, err)
	defer key2.Wipe()

	assert.NotEqual(t, key1.Bytes(), key2.Bytes(), "different salts must produce different keys")
}

func TestDeriveKeyRejectsBadInputs(t *testing.T) {
	salt, err := krypto.NewSalt()
	require.NoError(t, err)

	var kdfErr *krypto.KDFError

	_, err = krypto.DeriveKey("", salt, krypto.DefaultParams())
	require.ErrorAs(t, err, &kdfErr)

	_, err = krypto.DeriveKey("pw", salt[:8], krypto.DefaultParams())
	require.ErrorAs(t, err, &kdfErr)

	bad := krypto.DefaultParams()
	bad.Time = 0
	_, err = krypto.DeriveKey("pw", salt, bad)
	require.ErrorAs(t, err, &kdfErr)

	bad = krypto.DefaultParams()
	bad.MemoryKB = 0
	_, err = krypto.DeriveKey("pw", salt, bad)
	require.ErrorAs(t, err, &kdfErr)

	bad = krypto.DefaultParams()
	bad.KeyLen = 16
	_, err = krypto.DeriveKey("pw", salt, bad)
	require.ErrorAs(t, err, &kdfErr)
}

func TestNewSaltLengthAndFreshness(t *testing.T) {
	salt1, err := krypto.NewSalt()
	require.NoError(t, err)
	salt2, err := krypto.NewSalt()
	require.NoError(t, err)

	assert.Len(t, salt1, krypto.SaltLen)
	assert.NotEqual(t, salt1, salt2)
}
