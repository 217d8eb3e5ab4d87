package audit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/keycloak-cli/internal/config"
)

func TestAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")
	a := NewAppender(path)

	rec := Record{
		Timestamp:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Status:       "ok",
		CommandPath:  "kc roles create",
		RawCommand:   "./kc roles create --name viewer",
		Jira:         "OPS-123",
		Actor:        Actor{Type: "client", ID: "admin-cli"},
		AuthRealm:    "master",
		TargetRealms: "demo",
		Duration:     1500 * time.Millisecond,
		Details:      "",
	}
	if err := a.Append(rec); err != nil {
		t.Fatalf("first Append returned error: %v", err)
	}

	rec.Status = "error"
	if err := a.Append(rec); err != nil {
		t.Fatalf("second Append returned error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 records", len(rows))
	}

	if rows[0][0] != "timestamp" || rows[0][len(rows[0])-1] != "details" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	first := rows[1]
	if first[0] != "2025-03-14T09:30:00Z" {
		t.Errorf("timestamp = %q", first[0])
	}
	if first[1] != "ok" || first[2] != "kc roles create" {
		t.Errorf("status/command = %q/%q", first[1], first[2])
	}
	if first[8] != "roles_create" {
		t.Errorf("change_kind = %q, want roles_create", first[8])
	}
	if first[10] != "1.5s" {
		t.Errorf("duration = %q", first[10])
	}

	if rows[2][1] != "error" {
		t.Errorf("second record status = %q", rows[2][1])
	}
}

func TestResolveActor(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want Actor
	}{
		{
			name: "password grant maps to user",
			cfg:  config.Config{GrantType: config.GrantPassword, Username: "admin", ClientID: "ignored"},
			want: Actor{Type: "user", ID: "admin"},
		},
		{
			name: "client credentials maps to client",
			cfg:  config.Config{GrantType: config.GrantClientCredentials, ClientID: "admin-cli"},
			want: Actor{Type: "client", ID: "admin-cli"},
		},
		{
			name: "password grant without username falls back to client",
			cfg:  config.Config{GrantType: config.GrantPassword, ClientID: "admin-cli"},
			want: Actor{Type: "client", ID: "admin-cli"},
		},
		{
			name: "nothing resolvable",
			cfg:  config.Config{},
			want: Actor{Type: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveActor(&tt.cfg); got != tt.want {
				t.Errorf("ResolveActor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestChangeKind(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "kc users create", want: "users_create"},
		{path: "kc client-scopes list", want: "client_scopes_list"},
		{path: "kc realms list", want: "realms_list"},
		{path: "kc something else", want: "kc something else"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ChangeKind(tt.path); got != tt.want {
				t.Errorf("ChangeKind(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
