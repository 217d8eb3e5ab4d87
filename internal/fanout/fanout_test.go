package fanout

import (
	"testing"
)

func TestValidateArity(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		n       int
		wantErr bool
	}{
		{
			name:    "absent list",
			values:  nil,
			n:       3,
			wantErr: false,
		},
		{
			name:    "single value broadcast",
			values:  []string{"d1"},
			n:       3,
			wantErr: false,
		},
		{
			name:    "one value per key",
			values:  []string{"d1", "d2", "d3"},
			n:       3,
			wantErr: false,
		},
		{
			name:    "two values for three keys",
			values:  []string{"d1", "d2"},
			n:       3,
			wantErr: true,
		},
		{
			name:    "more values than keys",
			values:  []string{"d1", "d2", "d3", "d4"},
			n:       3,
			wantErr: true,
		},
		{
			name:    "single key single value",
			values:  []string{"d1"},
			n:       1,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("--description", tt.values, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v, %d) error = %v, wantErr %v", tt.values, tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestPick(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		i      int
		want   string
	}{
		{name: "absent returns empty", values: nil, i: 0, want: ""},
		{name: "single broadcasts to first", values: []string{"x"}, i: 0, want: "x"},
		{name: "single broadcasts to last", values: []string{"x"}, i: 2, want: "x"},
		{name: "positional first", values: []string{"a", "b", "c"}, i: 0, want: "a"},
		{name: "positional last", values: []string{"a", "b", "c"}, i: 2, want: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pick(tt.values, tt.i); got != tt.want {
				t.Errorf("Pick(%v, %d) = %q, want %q", tt.values, tt.i, got, tt.want)
			}
		})
	}
}

func TestNewRequiresKeys(t *testing.T) {
	if _, err := New("--name", nil); err == nil {
		t.Fatal("New with no keys should fail")
	}

	m, err := New("--name", []string{"a", "b"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Keys() = %v, want [a b]", got)
	}
}

func TestMatrixAddAndPick(t *testing.T) {
	m, err := New("--name", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := m.Add("--description", []string{"d1"}); err != nil {
		t.Fatalf("Add single value: %v", err)
	}
	if err := m.Add("--new-name", []string{"x", "y"}); err == nil {
		t.Fatal("Add with arity 2 for 3 keys should fail")
	}

	for i := 0; i < 3; i++ {
		if got := m.Pick("--description", i); got != "d1" {
			t.Errorf("Pick(--description, %d) = %q, want d1", i, got)
		}
	}
	if got := m.Pick("--missing", 0); got != "" {
		t.Errorf("Pick on absent flag = %q, want empty", got)
	}

	if !m.Has("--description") {
		t.Error("Has(--description) = false, want true")
	}
	if m.Has("--missing") {
		t.Error("Has(--missing) = true, want false")
	}
}

func TestMatrixPickOK(t *testing.T) {
	m, _ := New("--client-id", []string{"a", "b"})
	if err := m.Add("--enabled", []string{"true", "false"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	v, ok := m.PickOK("--enabled", 1)
	if !ok || v != "false" {
		t.Errorf("PickOK(--enabled, 1) = (%q, %v), want (false, true)", v, ok)
	}

	_, ok = m.PickOK("--public", 0)
	if ok {
		t.Error("PickOK on absent flag should report ok=false")
	}
}
