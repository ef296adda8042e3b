// Package session owns an open vault on behalf of the embedding application:
// it holds the master passphrase between saves, serializes access to the
// container file across processes, and keeps the audit trail. The engine
// itself takes no locks; one session per vault file is the mutual-exclusion
// contract.
package session

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/coffre/coffre/auth"
	"github.com/coffre/coffre/internal/vault"
	"github.com/coffre/coffre/store"
)

var (
	// ErrVaultInUse indicates another session holds the lock on the vault file.
	ErrVaultInUse = errors.New("vault is in use by another session")

	// ErrLocked indicates the session has been locked and holds no vault.
	ErrLocked = errors.New("session is locked")

	// ErrEntryNotFound indicates no entry carries the requested ID.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrVaultExists indicates Create would overwrite an existing container.
	ErrVaultExists = errors.New("vault already exists")
)

// Session is the application-side owner of one open vault.
type Session struct {
	path       string
	passphrase string
	vault      *vault.Vault
	lock       *flock.Flock
	audit      []AuditEntry
}

// Create initializes a new empty vault at path, protected by passphrase, and
// returns the session owning it. The passphrase must satisfy the master
// passphrase policy. Fails if a container already exists at path.
func Create(path, passphrase string) (*Session, error) {
	if err := auth.ValidatePassphrase(passphrase); err != nil {
		return nil, err
	}

	exists, err := store.Exists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrVaultExists
	}

	lock, err := acquireLock(path)
	if err != nil {
		return nil, err
	}

	v := vault.New()
	if err := store.SaveVault(v, path, passphrase); err != nil {
		releaseLock(lock)
		return nil, err
	}

	s := &Session{path: path, passphrase: passphrase, vault: v, lock: lock}
	s.record(ActionVaultCreated, "")
	return s, nil
}

// Open decrypts the container at path and returns the session owning the
// vault. A wrong passphrase surfaces as krypto.ErrDecryptionFailed.
func Open(path, passphrase string) (*Session, error) {
	lock, err := acquireLock(path)
	if err != nil {
		return nil, err
	}

	v, err := store.LoadVault(path, passphrase)
	if err != nil {
		releaseLock(lock)
		return nil, err
	}

	s := &Session{path: path, passphrase: passphrase, vault: v, lock: lock}
	s.record(ActionVaultOpened, "")
	return s, nil
}

func acquireLock(path string) (*flock.Flock, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock vault: %w", err)
	}
	if !ok {
		return nil, ErrVaultInUse
	}
	return lock, nil
}

func releaseLock(lock *flock.Flock) {
	if lock != nil {
		_ = lock.Unlock()
	}
}

// Save persists the current vault state to the container file.
func (s *Session) Save() error {
	if s.vault == nil {
		return ErrLocked
	}
	if err := store.SaveVault(s.vault, s.path, s.passphrase); err != nil {
		return err
	}
	s.record(ActionVaultSaved, "")
	return nil
}

// Lock drops the vault and passphrase and releases the file lock. The
// session records the action but accepts no further vault operations.
func (s *Session) Lock() {
	if s.vault == nil {
		return
	}
	s.vault = nil
	s.passphrase = ""
	releaseLock(s.lock)
	s.lock = nil
	s.record(ActionVaultLocked, "")
}

// Close releases all session resources. Unsaved changes are discarded.
func (s *Session) Close() {
	s.Lock()
}

// Vault exposes the open vault for read access, or nil when locked.
func (s *Session) Vault() *vault.Vault {
	return s.vault
}

// Path returns the container path this session is bound to.
func (s *Session) Path() string {
	return s.path
}

// Add creates and stores a new entry, returning its ID.
func (s *Session) Add(e vault.Entry) (uuid.UUID, error) {
	if s.vault == nil {
		return uuid.Nil, ErrLocked
	}
	s.vault.Add(e)
	s.record(ActionEntryCreated, e.Name)
	return e.ID, nil
}

// Update replaces the entry with the given ID.
func (s *Session) Update(id uuid.UUID, e vault.Entry) error {
	if s.vault == nil {
		return ErrLocked
	}
	if !s.vault.Update(id, e) {
		return ErrEntryNotFound
	}
	s.record(ActionEntryUpdated, e.Name)
	return nil
}

// Delete removes the entry with the given ID.
func (s *Session) Delete(id uuid.UUID) error {
	if s.vault == nil {
		return ErrLocked
	}
	e := s.vault.Get(id)
	if e == nil {
		return ErrEntryNotFound
	}
	// Delete shifts entries in place, invalidating e.
	name := e.Name
	if !s.vault.Delete(id) {
		return ErrEntryNotFound
	}
	s.record(ActionEntryDeleted, name)
	return nil
}

// Get returns the entry with the given ID, or ErrEntryNotFound.
func (s *Session) Get(id uuid.UUID) (vault.Entry, error) {
	if s.vault == nil {
		return vault.Entry{}, ErrLocked
	}
	e := s.vault.Get(id)
	if e == nil {
		return vault.Entry{}, ErrEntryNotFound
	}
	return *e, nil
}

// Search returns the entries matching the query.
func (s *Session) Search(query string) ([]vault.Entry, error) {
	if s.vault == nil {
		return nil, ErrLocked
	}
	return s.vault.Search(query), nil
}

// Export writes the vault as CSV. The secret column is masked unless
// plaintext is true.
func (s *Session) Export(path string, plaintext bool) error {
	if s.vault == nil {
		return ErrLocked
	}
	if err := store.ExportCSV(s.vault, path, plaintext); err != nil {
		return err
	}
	if plaintext {
		s.record(ActionExportPlaintext, path)
	} else {
		s.record(ActionExportMasked, path)
	}
	return nil
}

// Import adds entries from a CSV file and reports how many were added.
func (s *Session) Import(path string) (int, error) {
	if s.vault == nil {
		return 0, ErrLocked
	}
	entries, err := store.ImportCSV(path)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		s.vault.Add(e)
	}
	s.record(ActionImportCSV, path)
	return len(entries), nil
}

// Audit returns a copy of the append-only action log.
func (s *Session) Audit() []AuditEntry {
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *Session) record(action Action, detail string) {
	s.audit = append(s.audit, newAuditEntry(action, detail))
}
