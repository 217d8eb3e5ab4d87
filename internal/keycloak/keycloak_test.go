package keycloak

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blackwell-systems/keycloak-cli/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client, *int) {
	t.Helper()

	tokenRequests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/master/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
		})
	})
	mux.HandleFunc("/admin/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerURL:    srv.URL,
		AuthRealm:    "master",
		ClientID:     "admin-cli",
		ClientSecret: "secret",
		GrantType:    config.GrantClientCredentials,
	}
	return srv, New(cfg), &tokenRequests
}

func TestTokenCachedAcrossRequests(t *testing.T) {
	_, client, tokenRequests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"realm":"master"},{"realm":"demo"}]`))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		names, err := client.ListRealmNames(ctx)
		if err != nil {
			t.Fatalf("ListRealmNames returned error: %v", err)
		}
		if len(names) != 2 || names[0] != "master" || names[1] != "demo" {
			t.Errorf("ListRealmNames = %v", names)
		}
	}

	if *tokenRequests != 1 {
		t.Errorf("token endpoint hit %d times, want 1", *tokenRequests)
	}
}

func TestNotFoundAndConflictErrors(t *testing.T) {
	_, client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.Error(w, "role not found", http.StatusNotFound)
		case http.MethodPost:
			http.Error(w, "role exists", http.StatusConflict)
		}
	})

	ctx := context.Background()

	_, err := client.GetRealmRole(ctx, "demo", "viewer")
	if !IsNotFound(err) {
		t.Errorf("GetRealmRole error = %v, want 404 APIError", err)
	}
	if IsConflict(err) {
		t.Error("404 should not report as conflict")
	}

	err = client.CreateRealmRole(ctx, "demo", Role{Name: "viewer"})
	if !IsConflict(err) {
		t.Errorf("CreateRealmRole error = %v, want 409 APIError", err)
	}
	if IsNotFound(err) {
		t.Error("409 should not report as not found")
	}
}

func TestUserByUsernameExactMatch(t *testing.T) {
	_, client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Keycloak's username filter is a substring search.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"u1","username":"alice"},{"id":"u2","username":"alice2"}]`))
	})

	u, err := client.UserByUsername(context.Background(), "demo", "alice")
	if err != nil {
		t.Fatalf("UserByUsername returned error: %v", err)
	}
	if u == nil || u.ID != "u1" {
		t.Errorf("UserByUsername = %+v, want id u1", u)
	}

	u, err = client.UserByUsername(context.Background(), "demo", "bob")
	if err != nil {
		t.Fatalf("UserByUsername returned error: %v", err)
	}
	if u != nil {
		t.Errorf("UserByUsername for absent user = %+v, want nil", u)
	}
}

func TestTokenCacheKeyIncludesIdentity(t *testing.T) {
	cfg := &config.Config{
		ServerURL: "http://localhost:8080",
		AuthRealm: "master",
		ClientID:  "admin-cli",
		GrantType: config.GrantClientCredentials,
	}
	a := New(cfg)

	other := *cfg
	other.ClientID = "other-cli"
	b := New(&other)

	if a.tokenCacheKey() == b.tokenCacheKey() {
		t.Error("cache keys for different identities should differ")
	}
}
