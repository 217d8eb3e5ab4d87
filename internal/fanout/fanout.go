// Package fanout validates and distributes repeatable flag values across a
// list of entity names.
//
// Bulk commands accept one key flag repeated N times (role names, usernames,
// client-ids) plus optional attribute flags. Each attribute flag may be passed
// zero times (absent), once (applies to every name), or exactly N times (one
// per name, in order). Any other count is rejected before the command touches
// the server.
package fanout

import "fmt"

// Matrix holds the key list of one bulk command plus its attribute value
// lists. It performs no I/O; Pick is deterministic for a given input.
type Matrix struct {
	keys  []string
	lists map[string][]string
}

// New builds a Matrix for the given keys. keyFlag names the flag in the
// error when no key was supplied.
func New(keyFlag string, keys []string) (*Matrix, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("missing %s: provide at least one %s", keyFlag, keyFlag)
	}
	return &Matrix{
		keys:  keys,
		lists: make(map[string][]string),
	}, nil
}

// Keys returns the key list in the order it was supplied.
func (m *Matrix) Keys() []string {
	return m.keys
}

// Add registers an attribute value list after validating its arity.
func (m *Matrix) Add(flag string, values []string) error {
	if err := Validate(flag, values, len(m.keys)); err != nil {
		return err
	}
	m.lists[flag] = values
	return nil
}

// Has reports whether any value was supplied for flag.
func (m *Matrix) Has(flag string) bool {
	return len(m.lists[flag]) > 0
}

// Pick returns the attribute value for the key at index i: the empty string
// when the list is absent, the sole value when one was given, or the
// positional value otherwise.
func (m *Matrix) Pick(flag string, i int) string {
	return Pick(m.lists[flag], i)
}

// PickOK is Pick plus a flag reporting whether a value was supplied at all.
// Commands that treat "flag present with empty value" differently from
// "flag absent" need the distinction.
func (m *Matrix) PickOK(flag string, i int) (string, bool) {
	values := m.lists[flag]
	if len(values) == 0 {
		return "", false
	}
	return Pick(values, i), true
}

// Validate checks the 0/1/N arity rule for a value list against n keys.
func Validate(flag string, values []string, n int) error {
	if len(values) == 0 || len(values) == 1 || len(values) == n {
		return nil
	}
	return fmt.Errorf(
		"invalid %s: pass either no %s, a single %s to apply to all, or one %s per name (in order)",
		flag, flag, flag, flag,
	)
}

// Pick selects from a value list that already passed Validate.
func Pick(values []string, i int) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return values[i]
	}
}
