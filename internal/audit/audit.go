// Package audit appends one record per CLI invocation to a CSV audit trail.
//
// The file is append-only: the header row is written once when the file is
// created and rows are never rewritten. Records capture who ran what against
// which realms, how long it took, and any side-channel details such as
// generated passwords.
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/blackwell-systems/keycloak-cli/internal/config"
)

// DefaultPath is the audit file used when none is configured.
const DefaultPath = "kc_audit.csv"

var header = []string{
	"timestamp",
	"status",
	"command_path",
	"raw_command",
	"jira",
	"actor_type",
	"actor_id",
	"auth_realm",
	"change_kind",
	"target_realms",
	"duration",
	"details",
}

// Actor is the authenticated identity attributed to an invocation.
type Actor struct {
	Type string // "user", "client", or "unknown"
	ID   string
}

// Record is one audit row.
type Record struct {
	Timestamp    time.Time
	Status       string // "ok" or "error"
	CommandPath  string
	RawCommand   string
	Jira         string
	Actor        Actor
	AuthRealm    string
	TargetRealms string
	Duration     time.Duration
	Details      string
}

// Appender writes records to one audit file. Writes are serialized.
type Appender struct {
	mu   sync.Mutex
	path string
}

// NewAppender returns an Appender for path, or DefaultPath when empty.
func NewAppender(path string) *Appender {
	if path == "" {
		path = DefaultPath
	}
	return &Appender{path: path}
}

// Append writes one record, creating the file with a header row first if
// needed.
func (a *Appender) Append(rec Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, statErr := os.Stat(a.path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write audit header: %w", err)
		}
	}

	ts := rec.Timestamp.UTC().Truncate(time.Second).Format(time.RFC3339)
	row := []string{
		ts,
		rec.Status,
		rec.CommandPath,
		rec.RawCommand,
		rec.Jira,
		rec.Actor.Type,
		rec.Actor.ID,
		rec.AuthRealm,
		ChangeKind(rec.CommandPath),
		rec.TargetRealms,
		rec.Duration.String(),
		rec.Details,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}

	w.Flush()
	return w.Error()
}

// ResolveActor derives the audited identity from the authentication
// configuration: password grants act as the configured user, anything with a
// client id acts as that client.
func ResolveActor(cfg *config.Config) Actor {
	if cfg.GrantType == config.GrantPassword && cfg.Username != "" {
		return Actor{Type: "user", ID: cfg.Username}
	}
	if cfg.ClientID != "" {
		return Actor{Type: "client", ID: cfg.ClientID}
	}
	return Actor{Type: "unknown"}
}

// changeKinds maps command paths to their audit change-kind tag.
var changeKinds = map[string]string{
	"kc users create":         "users_create",
	"kc users update":         "users_update",
	"kc users delete":         "users_delete",
	"kc clients create":       "clients_create",
	"kc clients update":       "clients_update",
	"kc clients delete":       "clients_delete",
	"kc clients list":         "clients_list",
	"kc client-scopes create": "client_scopes_create",
	"kc client-scopes update": "client_scopes_update",
	"kc client-scopes delete": "client_scopes_delete",
	"kc client-scopes list":   "client_scopes_list",
	"kc roles create":         "roles_create",
	"kc roles update":         "roles_update",
	"kc roles delete":         "roles_delete",
	"kc realms list":          "realms_list",
}

// ChangeKind returns the change-kind tag for a command path; unmapped paths
// pass through unchanged.
func ChangeKind(commandPath string) string {
	if kind, ok := changeKinds[commandPath]; ok {
		return kind
	}
	return commandPath
}
