package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffre/coffre/internal/vault"
	"github.com/coffre/coffre/krypto"
	"github.com/coffre/coffre/store"
)

const testPassphrase = "correct horse battery staple"

func vaultPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "vault.json")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := vaultPath(t)

	v := vault.New()
	entry := vault.NewEntry("Example", "user@example.com", "s3cret!")
	entry.URL = "https://example.com"
	entry.Tags = []string{"demo"}
	v.Add(entry)
	v.Add(vault.NewEntry("Other", "someone@example.org", "pw2"))

	require.NoError(t, store.SaveVault(v, path, testPassphrase))

	loaded, err := store.LoadVault(path, testPassphrase)
	require.NoError(t, err)

	require.Len(t, loaded.Entries, len(v.Entries))
	for i := range v.Entries {
		want, got := v.Entries[i], loaded.Entries[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Login, got.Login)
		assert.Equal(t, want.Password, got.Password)
		assert.Equal(t, want.URL, got.URL)
		assert.Equal(t, want.Tags, got.Tags)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, want.ModifiedAt.Equal(got.ModifiedAt))
	}
}

func TestLoadSingleEntryScenario(t *testing.T) {
	path := vaultPath(t)

	v := vault.New()
	v.Add(vault.NewEntry("Example", "user@example.com", "generated-secret"))
	require.NoError(t, store.SaveVault(v, path, testPassphrase))

	loaded, err := store.LoadVault(path, testPassphrase)
	require.NoError(t, err)

	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, "Example", loaded.Entries[0].Name)
	assert.Equal(t, "user@example.com", loaded.Entries[0].Login)
	assert.NotEmpty(t, loaded.Entries[0].Password)
}

func TestLoadWrongPassphrase(t *testing.T) {
	path := vaultPath(t)

	v := vault.New()
	v.Add(vault.NewEntry("Example", "user@example.com", "pw"))
	require.NoError(t, store.SaveVault(v, path, testPassphrase))

	_, err := store.LoadVault(path, "not the passphrase")
	require.ErrorIs(t, err, krypto.ErrDecryptionFailed)
}

func TestLoadCorruptedCiphertext(t *testing.T) {
	path := vaultPath(t)

	v := vault.New()
	v.Add(vault.NewEntry("Example", "user@example.com", "pw"))
	require.NoError(t, store.SaveVault(v, path, testPassphrase))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	container, err := store.DecodeContainer(data)
	require.NoError(t, err)

	container.Ciphertext[len(container.Ciphertext)-1] ^= 0x01
	mutated, err := container.Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, mutated, 0o600))

	_, err = store.LoadVault(path, testPassphrase)
	require.ErrorIs(t, err, krypto.ErrDecryptionFailed, "corruption must never yield a partial vault")
}

func TestSaveUsesFreshSaltAndNonce(t *testing.T) {
	path := vaultPath(t)
	v := vault.New()

	require.NoError(t, store.SaveVault(v, path, testPassphrase))
	data1, err := os.ReadFile(path)
	require.NoError(t, err)
	c1, err := store.DecodeContainer(data1)
	require.NoError(t, err)

	require.NoError(t, store.SaveVault(v, path, testPassphrase))
	data2, err := os.ReadFile(path)
	require.NoError(t, err)
	c2, err := store.DecodeContainer(data2)
	require.NoError(t, err)

	assert.NotEqual(t, c1.Salt, c2.Salt, "salts are never reused across saves")
	assert.NotEqual(t, c1.Nonce, c2.Nonce, "nonces are never reused across saves")
}

func TestSaveFailureLeavesPreviousContainer(t *testing.T) {
	path := vaultPath(t)
	v := vault.New()

	require.NoError(t, store.SaveVault(v, path, testPassphrase))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// An empty passphrase fails key derivation before anything is written.
	var kdfErr *krypto.KDFError
	err = store.SaveVault(v, path, "")
	require.ErrorAs(t, err, &kdfErr)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed save must not touch the previous container")
}

func TestSavedContainerShape(t *testing.T) {
	path := vaultPath(t)
	require.NoError(t, store.SaveVault(vault.New(), path, testPassphrase))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.EqualValues(t, 1, doc["version"])
	assert.Equal(t, "argon2id", doc["kdf"])
	for _, field := range []string{"salt", "nonce", "ciphertext", "kdfParams"} {
		assert.Contains(t, doc, field)
	}

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := store.LoadVault(filepath.Join(t.TempDir(), "absent.json"), testPassphrase)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsUnknownKDF(t *testing.T) {
	path := vaultPath(t)
	require.NoError(t, store.SaveVault(vault.New(), path, testPassphrase))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["kdf"] = "scrypt"
	mutated, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, mutated, 0o600))

	_, err = store.LoadVault(path, testPassphrase)
	require.ErrorIs(t, err, store.ErrMalformedContainer)
}
