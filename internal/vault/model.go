// Package vault holds the in-memory credential model: entries, the vault
// collection that owns them, and the search predicate. Persistence and
// encryption live in the store package.
package vault

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is a single credential record. The ID is generated at creation and
// never reused or recomputed.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Login      string    `json:"login"`
	Password   string    `json:"password"`
	URL        string    `json:"url,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// NewEntry creates an entry with a fresh ID and both timestamps set to now.
func NewEntry(name, login, password string) Entry {
	now := time.Now().UTC()
	return Entry{
		ID:         uuid.New(),
		Name:       name,
		Login:      login,
		Password:   password,
		Tags:       []string{},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Touch refreshes the entry's modification timestamp.
func (e *Entry) Touch() {
	e.ModifiedAt = time.Now().UTC()
}

// Matches reports whether the query is a case-insensitive substring of the
// entry's name, login, URL or any tag. An empty query matches everything.
func (e *Entry) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(e.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Login), q) {
		return true
	}
	if e.URL != "" && strings.Contains(strings.ToLower(e.URL), q) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Vault is the ordered collection of entries. Insertion order is preserved
// but carries no meaning; lookup is always by ID, and IDs are unique within
// a vault.
type Vault struct {
	Entries    []Entry   `json:"entries"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// New returns an empty vault with both timestamps set to now.
func New() *Vault {
	now := time.Now().UTC()
	return &Vault{
		Entries:    []Entry{},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Add appends the entry and bumps the vault's modification timestamp.
func (v *Vault) Add(e Entry) {
	v.Entries = append(v.Entries, e)
	v.ModifiedAt = time.Now().UTC()
}

// Update replaces the entry with the given ID, preserving its identity and
// creation time, and bumps both modification timestamps. It reports whether
// the ID was found.
func (v *Vault) Update(id uuid.UUID, updated Entry) bool {
	for i := range v.Entries {
		if v.Entries[i].ID != id {
			continue
		}
		updated.ID = id
		updated.CreatedAt = v.Entries[i].CreatedAt
		updated.Touch()
		v.Entries[i] = updated
		v.ModifiedAt = time.Now().UTC()
		return true
	}
	return false
}

// Delete removes the entry with the given ID and bumps the vault's
// modification timestamp. It reports whether the ID was found.
func (v *Vault) Delete(id uuid.UUID) bool {
	for i := range v.Entries {
		if v.Entries[i].ID != id {
			continue
		}
		v.Entries = append(v.Entries[:i], v.Entries[i+1:]...)
		v.ModifiedAt = time.Now().UTC()
		return true
	}
	return false
}

// Get returns a pointer to the entry with the given ID, or nil.
func (v *Vault) Get(id uuid.UUID) *Entry {
	for i := range v.Entries {
		if v.Entries[i].ID == id {
			return &v.Entries[i]
		}
	}
	return nil
}

// Search returns the entries matching the query, in vault order.
func (v *Vault) Search(query string) []Entry {
	var out []Entry
	for i := range v.Entries {
		if v.Entries[i].Matches(query) {
			out = append(out, v.Entries[i])
		}
	}
	return out
}
