// Package reconcile runs the create/update/delete/list loop shared by every
// entity command.
//
// Each operation walks the realm×key cross product in realm-major, key-minor
// order, one blocking call at a time, and converges the server toward the
// requested state using natural-key lookups: create skips keys that already
// exist (including 409 races), update and delete either skip or fail on
// missing keys depending on the ignore-missing toggle. Transport errors
// beyond those absorbed cases abort the remaining iterations; mutations from
// earlier iterations are not rolled back, so a retried create is safely
// idempotent while a retried update or delete re-applies from the start.
package reconcile

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/keycloak-cli/internal/keycloak"
)

// NotFoundError aborts an update or delete when a key is absent and
// ignore-missing is off.
type NotFoundError struct {
	Kind  string
	Key   string
	Realm string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in realm %s", e.Kind, e.Key, e.Realm)
}

// CreateOps parameterizes Create for one entity family. E is the looked-up
// entity representation.
type CreateOps[E any] struct {
	// Kind is the human label used in messages ("role", "user", ...).
	Kind string

	// BeforeRealm, when set, runs once per realm before its keys are
	// processed (e.g. resolving a client's internal id).
	BeforeRealm func(ctx context.Context, realm string) error

	// Lookup returns the existing entity for key, or nil when absent.
	// A 404 return is treated as absent.
	Lookup func(ctx context.Context, realm, key string) (*E, error)

	// Create builds the payload for keys[i] and issues the create,
	// appending its own result lines to rep.
	Create func(ctx context.Context, rep *Report, realm string, i int) error

	// ExistsLine formats the skipped-exists message.
	ExistsLine func(realm, key string) string
}

// Create applies ops to every (realm, key) pair. Existing keys and create
// conflicts are recorded as skips; any other error aborts.
func Create[E any](ctx context.Context, rep *Report, targetRealms, keys []string, ops CreateOps[E]) error {
	for _, realm := range targetRealms {
		if ops.BeforeRealm != nil {
			if err := ops.BeforeRealm(ctx, realm); err != nil {
				return err
			}
		}
		for i, key := range keys {
			existing, err := ops.Lookup(ctx, realm, key)
			if err != nil && !keycloak.IsNotFound(err) {
				return fmt.Errorf("failed checking %s %q in realm %s: %w", ops.Kind, key, realm, err)
			}
			if existing != nil {
				rep.Add(ops.ExistsLine(realm, key))
				rep.Skipped++
				continue
			}

			if err := ops.Create(ctx, rep, realm, i); err != nil {
				if keycloak.IsConflict(err) {
					rep.Add(ops.ExistsLine(realm, key))
					rep.Skipped++
					continue
				}
				return err
			}
			rep.Created++
		}
	}
	return nil
}

// UpdateOps parameterizes Update for one entity family.
type UpdateOps[E any] struct {
	Kind string

	// Lookup returns the existing entity for key, or nil when absent.
	// A 404 return is treated as absent.
	Lookup func(ctx context.Context, realm, key string) (*E, error)

	// Update applies the supplied attributes for keys[i] to existing,
	// appending its own result lines to rep.
	Update func(ctx context.Context, rep *Report, realm string, i int, existing *E) error

	// MissingLine formats the skipped-missing message.
	MissingLine func(realm, key string) string
}

// Update applies ops to every (realm, key) pair. Missing keys are skipped
// when ignoreMissing is set and abort the invocation otherwise; keys already
// updated in earlier iterations stay updated either way.
func Update[E any](ctx context.Context, rep *Report, targetRealms, keys []string, ignoreMissing bool, ops UpdateOps[E]) error {
	for _, realm := range targetRealms {
		for i, key := range keys {
			existing, err := ops.Lookup(ctx, realm, key)
			if err != nil && !keycloak.IsNotFound(err) {
				return fmt.Errorf("failed fetching %s %q in realm %s: %w", ops.Kind, key, realm, err)
			}
			if existing == nil {
				if ignoreMissing {
					rep.Add(ops.MissingLine(realm, key))
					rep.Skipped++
					continue
				}
				return &NotFoundError{Kind: ops.Kind, Key: key, Realm: realm}
			}

			if err := ops.Update(ctx, rep, realm, i, existing); err != nil {
				return err
			}
			rep.Updated++
		}
	}
	return nil
}

// DeleteOps parameterizes Delete for one entity family.
type DeleteOps[E any] struct {
	Kind string

	// Lookup returns the existing entity for key, or nil when absent.
	// A 404 return is treated as absent.
	Lookup func(ctx context.Context, realm, key string) (*E, error)

	// Delete removes the entity, appending its own result lines to rep.
	Delete func(ctx context.Context, rep *Report, realm, key string, existing *E) error

	// MissingLine formats the skipped-missing message.
	MissingLine func(realm, key string) string
}

// Delete applies ops to every (realm, key) pair with the same missing-key
// handling as Update. A 404 from the delete call itself (the entity vanished
// after lookup) follows the same skip-or-fail branch.
func Delete[E any](ctx context.Context, rep *Report, targetRealms, keys []string, ignoreMissing bool, ops DeleteOps[E]) error {
	for _, realm := range targetRealms {
		for _, key := range keys {
			existing, err := ops.Lookup(ctx, realm, key)
			if err != nil && !keycloak.IsNotFound(err) {
				return fmt.Errorf("failed fetching %s %q in realm %s: %w", ops.Kind, key, realm, err)
			}
			missing := existing == nil

			if !missing {
				err := ops.Delete(ctx, rep, realm, key, existing)
				if err != nil && !keycloak.IsNotFound(err) {
					return fmt.Errorf("failed deleting %s %q in realm %s: %w", ops.Kind, key, realm, err)
				}
				missing = err != nil
				if !missing {
					rep.Deleted++
					continue
				}
			}

			if ignoreMissing {
				rep.Add(ops.MissingLine(realm, key))
				rep.Skipped++
				continue
			}
			return &NotFoundError{Kind: ops.Kind, Key: key, Realm: realm}
		}
	}
	return nil
}

// List appends one line per natural key returned by fetch for each realm,
// then counts them. fetch applies any natural-key filter itself.
func List(ctx context.Context, rep *Report, targetRealms []string, fetch func(ctx context.Context, realm string) ([]string, error)) error {
	for _, realm := range targetRealms {
		keys, err := fetch(ctx, realm)
		if err != nil {
			return err
		}
		for _, key := range keys {
			rep.Add(key)
			rep.Listed++
		}
	}
	return nil
}
