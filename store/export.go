package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/coffre/coffre/internal/vault"
)

// maskedPassword replaces the secret column when a plaintext export was not
// explicitly requested.
const maskedPassword = "***"

var csvHeader = []string{"name", "login", "password", "url", "notes", "tags"}

// ExportCSV writes the vault's records as a delimited-text table. The secret
// column is emitted in cleartext only when plaintext is true; otherwise it is
// masked. Tags are joined with ';'.
func ExportCSV(v *vault.Vault, path string, plaintext bool) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for i := range v.Entries {
		e := &v.Entries[i]
		password := maskedPassword
		if plaintext {
			password = e.Password
		}
		record := []string{e.Name, e.Login, password, e.URL, e.Notes, strings.Join(e.Tags, ";")}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

// ImportCSV reads entries from a delimited-text table in the ExportCSV
// layout. Rows with fewer than three fields or an empty name or login are
// skipped. Imported entries get fresh IDs and timestamps.
func ImportCSV(path string) ([]vault.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}

	var entries []vault.Entry
	for i, row := range rows {
		if i == 0 && isCSVHeader(row) {
			continue
		}
		if len(row) < 3 {
			continue
		}
		name, login, password := row[0], row[1], row[2]
		if name == "" || login == "" {
			continue
		}

		entry := vault.NewEntry(name, login, password)
		if len(row) > 3 && row[3] != "" {
			entry.URL = row[3]
		}
		if len(row) > 4 && row[4] != "" {
			entry.Notes = row[4]
		}
		if len(row) > 5 && row[5] != "" {
			for _, tag := range strings.Split(row[5], ";") {
				if tag = strings.TrimSpace(tag); tag != "" {
					entry.Tags = append(entry.Tags, tag)
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func isCSVHeader(row []string) bool {
	if len(row) < 3 {
		return false
	}
	return strings.EqualFold(row[0], "name") && strings.EqualFold(row[1], "login")
}
