package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid client credentials config",
			config: Config{
				ServerURL: "http://localhost:8080",
				AuthRealm: "master",
				ClientID:  "admin-cli",
				GrantType: GrantClientCredentials,
			},
			wantErr: false,
		},
		{
			name: "valid password config",
			config: Config{
				ServerURL: "http://localhost:8080",
				AuthRealm: "master",
				Username:  "admin",
				Password:  "secret",
				GrantType: GrantPassword,
			},
			wantErr: false,
		},
		{
			name: "missing server_url",
			config: Config{
				AuthRealm: "master",
				ClientID:  "admin-cli",
				GrantType: GrantClientCredentials,
			},
			wantErr: true,
		},
		{
			name: "unknown grant type",
			config: Config{
				ServerURL: "http://localhost:8080",
				ClientID:  "admin-cli",
				GrantType: "implicit",
			},
			wantErr: true,
		},
		{
			name: "password grant without username",
			config: Config{
				ServerURL: "http://localhost:8080",
				GrantType: GrantPassword,
			},
			wantErr: true,
		},
		{
			name: "client credentials without client_id",
			config: Config{
				ServerURL: "http://localhost:8080",
				GrantType: GrantClientCredentials,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{
  "server_url": "http://localhost:8080",
  "realm": "demo",
  "client_id": "admin-cli",
  "client_secret": "s3cret"
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Realm != "demo" {
		t.Errorf("Realm = %q", cfg.Realm)
	}
	if cfg.AuthRealm != "master" {
		t.Errorf("AuthRealm default = %q, want master", cfg.AuthRealm)
	}
	if cfg.GrantType != GrantClientCredentials {
		t.Errorf("GrantType default = %q, want %q", cfg.GrantType, GrantClientCredentials)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "server_url: http://localhost:8080\nauth_realm: ops\nusername: admin\npassword: pw\ngrant_type: password\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.AuthRealm != "ops" {
		t.Errorf("AuthRealm = %q, want ops", cfg.AuthRealm)
	}
	if cfg.GrantType != GrantPassword {
		t.Errorf("GrantType = %q, want %q", cfg.GrantType, GrantPassword)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("Load of missing file should fail")
	}
}
