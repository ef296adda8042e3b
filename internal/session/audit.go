package session

import "time"

// Action identifies an audited session operation.
type Action string

const (
	ActionVaultCreated    Action = "vault-created"
	ActionVaultOpened     Action = "vault-opened"
	ActionVaultSaved      Action = "vault-saved"
	ActionVaultLocked     Action = "vault-locked"
	ActionEntryCreated    Action = "entry-created"
	ActionEntryUpdated    Action = "entry-updated"
	ActionEntryDeleted    Action = "entry-deleted"
	ActionExportPlaintext Action = "export-plaintext"
	ActionExportMasked    Action = "export-masked"
	ActionImportCSV       Action = "import-csv"
)

// AuditEntry is one timestamped action record. The log is append-only and
// owned by the session; the engine never writes to it.
type AuditEntry struct {
	Time   time.Time
	Action Action
	Detail string
}

func newAuditEntry(action Action, detail string) AuditEntry {
	return AuditEntry{
		Time:   time.Now().UTC(),
		Action: action,
		Detail: detail,
	}
}
