// Package realms expands the realm selection of one invocation into a
// concrete ordered realm list.
package realms

import (
	"context"
	"errors"
)

// ErrNoTargetRealm is returned when neither a realm flag nor a configured
// default realm is available.
var ErrNoTargetRealm = errors.New("target realm not specified. Use --realm or set realm in config.json")

// Lister is the single provider call the resolver needs.
type Lister interface {
	ListRealmNames(ctx context.Context) ([]string, error)
}

// Selector describes which realms an invocation targets.
type Selector struct {
	// All requests every realm known to the server.
	All bool
	// Explicit is the ordered realm list given on the command line.
	Explicit []string
	// Fallback is the configured default realm.
	Fallback string
}

// Resolve expands the selector once per invocation. All-realms issues a
// single list call and returns the server's order; the snapshot is not
// re-queried later even if realms change mid-run.
func Resolve(ctx context.Context, lister Lister, sel Selector) ([]string, error) {
	if sel.All {
		return lister.ListRealmNames(ctx)
	}
	if len(sel.Explicit) > 0 {
		return sel.Explicit, nil
	}
	if sel.Fallback != "" {
		return []string{sel.Fallback}, nil
	}
	return nil, ErrNoTargetRealm
}

// Label returns the realm label shown in report headers: "all realms", the
// single targeted realm, or "" when several explicit realms were given.
func Label(sel Selector, resolved []string) string {
	if sel.All {
		return "all realms"
	}
	if len(sel.Explicit) == 1 {
		return sel.Explicit[0]
	}
	if len(resolved) == 1 {
		return resolved[0]
	}
	return ""
}
