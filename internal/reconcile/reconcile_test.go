package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/blackwell-systems/keycloak-cli/internal/fanout"
	"github.com/blackwell-systems/keycloak-cli/internal/keycloak"
)

type fakeRole struct {
	Name        string
	Description string
}

// fakeStore is an in-memory stand-in for one entity family across realms.
type fakeStore struct {
	entities map[string]map[string]*fakeRole // realm -> key -> entity
	creates  int
	updates  int
	deletes  int

	lookupErr error
	createErr error
}

func newFakeStore(realms ...string) *fakeStore {
	s := &fakeStore{entities: make(map[string]map[string]*fakeRole)}
	for _, r := range realms {
		s.entities[r] = make(map[string]*fakeRole)
	}
	return s
}

func (s *fakeStore) lookup(ctx context.Context, realm, key string) (*fakeRole, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if e, ok := s.entities[realm][key]; ok {
		return e, nil
	}
	return nil, &keycloak.APIError{Status: 404, Body: "not found"}
}

func (s *fakeStore) createOps(m *fanout.Matrix) CreateOps[fakeRole] {
	return CreateOps[fakeRole]{
		Kind:   "role",
		Lookup: s.lookup,
		Create: func(ctx context.Context, rep *Report, realm string, i int) error {
			if s.createErr != nil {
				return s.createErr
			}
			key := m.Keys()[i]
			s.creates++
			s.entities[realm][key] = &fakeRole{Name: key, Description: m.Pick("--description", i)}
			rep.Addf("Created role %q in realm %q.", key, realm)
			return nil
		},
		ExistsLine: func(realm, key string) string {
			return fmt.Sprintf("Role %q already exists in realm %q. Skipped.", key, realm)
		},
	}
}

func (s *fakeStore) updateOps(m *fanout.Matrix) UpdateOps[fakeRole] {
	return UpdateOps[fakeRole]{
		Kind:   "role",
		Lookup: s.lookup,
		Update: func(ctx context.Context, rep *Report, realm string, i int, existing *fakeRole) error {
			s.updates++
			existing.Description = m.Pick("--description", i)
			rep.Addf("Updated role %q in realm %q.", existing.Name, realm)
			return nil
		},
		MissingLine: func(realm, key string) string {
			return fmt.Sprintf("Role %q not found in realm %q. Skipped.", key, realm)
		},
	}
}

func (s *fakeStore) deleteOps() DeleteOps[fakeRole] {
	return DeleteOps[fakeRole]{
		Kind:   "role",
		Lookup: s.lookup,
		Delete: func(ctx context.Context, rep *Report, realm, key string, existing *fakeRole) error {
			s.deletes++
			delete(s.entities[realm], key)
			rep.Addf("Deleted role %q in realm %q.", key, realm)
			return nil
		},
		MissingLine: func(realm, key string) string {
			return fmt.Sprintf("Role %q not found in realm %q. Skipped.", key, realm)
		},
	}
}

func mustMatrix(t *testing.T, keys []string, descriptions []string) *fanout.Matrix {
	t.Helper()
	m, err := fanout.New("--name", keys)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Add("--description", descriptions); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCreateBroadcastsSingleDescription(t *testing.T) {
	store := newFakeStore("demo")
	m := mustMatrix(t, []string{"a", "b", "c"}, []string{"d1"})

	var rep Report
	err := Create(context.Background(), &rep, []string{"demo"}, m.Keys(), store.createOps(m))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if rep.Created != 3 || rep.Skipped != 0 {
		t.Errorf("counts = created %d skipped %d, want 3/0", rep.Created, rep.Skipped)
	}
	for _, key := range []string{"a", "b", "c"} {
		e := store.entities["demo"][key]
		if e == nil || e.Description != "d1" {
			t.Errorf("entity %q = %+v, want description d1", key, e)
		}
	}
}

func TestCreateIsIdempotent(t *testing.T) {
	store := newFakeStore("demo")
	m := mustMatrix(t, []string{"a", "b"}, nil)

	var first Report
	if err := Create(context.Background(), &first, []string{"demo"}, m.Keys(), store.createOps(m)); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}
	if first.Created != 2 {
		t.Fatalf("first run created = %d, want 2", first.Created)
	}

	var second Report
	if err := Create(context.Background(), &second, []string{"demo"}, m.Keys(), store.createOps(m)); err != nil {
		t.Fatalf("second Create returned error: %v", err)
	}
	if second.Created != 0 || second.Skipped != 2 {
		t.Errorf("second run = created %d skipped %d, want 0/2", second.Created, second.Skipped)
	}
	if store.creates != 2 {
		t.Errorf("mutating calls = %d, want 2 (none on second run)", store.creates)
	}

	wantLines := []string{
		`Role "a" already exists in realm "demo". Skipped.`,
		`Role "b" already exists in realm "demo". Skipped.`,
	}
	for i, want := range wantLines {
		if second.Lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, second.Lines[i], want)
		}
	}
}

func TestCreateAbsorbsConflict(t *testing.T) {
	store := newFakeStore("demo")
	store.createErr = &keycloak.APIError{Status: 409, Body: "exists"}
	m := mustMatrix(t, []string{"a"}, nil)

	var rep Report
	if err := Create(context.Background(), &rep, []string{"demo"}, m.Keys(), store.createOps(m)); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rep.Created != 0 || rep.Skipped != 1 {
		t.Errorf("counts = created %d skipped %d, want 0/1", rep.Created, rep.Skipped)
	}
}

func TestCreateAbortsOnTransportError(t *testing.T) {
	store := newFakeStore("demo")
	store.lookupErr = &keycloak.APIError{Status: 500, Body: "boom"}
	m := mustMatrix(t, []string{"a"}, nil)

	var rep Report
	err := Create(context.Background(), &rep, []string{"demo"}, m.Keys(), store.createOps(m))
	if err == nil {
		t.Fatal("Create should fail on a 500 lookup")
	}
	if store.creates != 0 {
		t.Errorf("mutating calls = %d, want 0", store.creates)
	}
}

func TestUpdateFailsFastOnMissingKey(t *testing.T) {
	store := newFakeStore("demo")
	store.entities["demo"]["a"] = &fakeRole{Name: "a"}
	// "b" is absent; "c" exists but must never be reached.
	store.entities["demo"]["c"] = &fakeRole{Name: "c"}
	m := mustMatrix(t, []string{"a", "b", "c"}, []string{"new"})

	var rep Report
	err := Update(context.Background(), &rep, []string{"demo"}, m.Keys(), false, store.updateOps(m))

	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("Update error = %v, want NotFoundError", err)
	}
	if nfe.Key != "b" || nfe.Realm != "demo" {
		t.Errorf("NotFoundError = %+v", nfe)
	}
	if store.updates != 1 {
		t.Errorf("updates applied = %d, want 1 (only %q, nothing after the failure)", store.updates, "a")
	}
	if store.entities["demo"]["c"].Description != "" {
		t.Error("key after the failure was updated")
	}
}

func TestUpdateIgnoreMissingSkips(t *testing.T) {
	store := newFakeStore("demo")
	store.entities["demo"]["a"] = &fakeRole{Name: "a"}
	m := mustMatrix(t, []string{"a", "b"}, []string{"new"})

	var rep Report
	err := Update(context.Background(), &rep, []string{"demo"}, m.Keys(), true, store.updateOps(m))
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rep.Updated != 1 || rep.Skipped != 1 {
		t.Errorf("counts = updated %d skipped %d, want 1/1", rep.Updated, rep.Skipped)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name          string
		ignoreMissing bool
		keys          []string
		wantErr       bool
		wantDeleted   int
		wantSkipped   int
	}{
		{
			name:        "deletes existing keys",
			keys:        []string{"a", "b"},
			wantDeleted: 2,
		},
		{
			name:          "skips missing with toggle",
			ignoreMissing: true,
			keys:          []string{"a", "x"},
			wantDeleted:   1,
			wantSkipped:   1,
		},
		{
			name:    "fails on missing without toggle",
			keys:    []string{"x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore("demo")
			store.entities["demo"]["a"] = &fakeRole{Name: "a"}
			store.entities["demo"]["b"] = &fakeRole{Name: "b"}

			var rep Report
			err := Delete(context.Background(), &rep, []string{"demo"}, tt.keys, tt.ignoreMissing, store.deleteOps())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Delete error = %v, wantErr %v", err, tt.wantErr)
			}
			if rep.Deleted != tt.wantDeleted || rep.Skipped != tt.wantSkipped {
				t.Errorf("counts = deleted %d skipped %d, want %d/%d", rep.Deleted, rep.Skipped, tt.wantDeleted, tt.wantSkipped)
			}
		})
	}
}

func TestRealmMajorKeyMinorOrder(t *testing.T) {
	store := newFakeStore("r1", "r2")
	m := mustMatrix(t, []string{"a", "b"}, nil)

	var rep Report
	if err := Create(context.Background(), &rep, []string{"r1", "r2"}, m.Keys(), store.createOps(m)); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	want := []string{
		`Created role "a" in realm "r1".`,
		`Created role "b" in realm "r1".`,
		`Created role "a" in realm "r2".`,
		`Created role "b" in realm "r2".`,
	}
	if len(rep.Lines) != len(want) {
		t.Fatalf("lines = %v", rep.Lines)
	}
	for i := range want {
		if rep.Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, rep.Lines[i], want[i])
		}
	}
}

func TestList(t *testing.T) {
	var rep Report
	err := List(context.Background(), &rep, []string{"r1", "r2"}, func(ctx context.Context, realm string) ([]string, error) {
		if realm == "r1" {
			return []string{"a", "b"}, nil
		}
		return []string{"c"}, nil
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	rep.FinishList()

	if rep.Listed != 3 {
		t.Errorf("Listed = %d, want 3", rep.Listed)
	}
	if last := rep.Lines[len(rep.Lines)-1]; last != "Total: 3" {
		t.Errorf("summary line = %q", last)
	}
}
