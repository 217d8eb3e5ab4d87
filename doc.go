// Package keycloak-cli provides the kc command-line tool for bulk
// administration of Keycloak realms, roles, clients, client scopes, and users.
//
// # Overview
//
// The kc CLI provides:
//   - Idempotent bulk create/update/delete across realms
//   - Attribute fan-out: one flag value broadcast to every name, or one per name
//   - A persistent run log and an append-only CSV audit trail
//   - Password-grant and client-credentials authentication
//
// # Installation
//
//	go install github.com/blackwell-systems/keycloak-cli/cmd/kc@latest
//
// # Quick Start
//
//	kc realms list
//	kc roles create --realm demo --name viewer --name editor --description "demo role"
//	kc users create --realm demo --username alice --realm-role viewer
//
// # Architecture
//
// Commands resolve their target realms once per invocation, then apply the
// requested change per (realm, name) pair in order. Lookups go by the natural
// key (role name, client-id, username, scope name), so re-running a create
// skips entities that already exist instead of failing.
//
// # Documentation
//
// For complete documentation, see:
//   - README.md: Quickstart and usage
//   - Each command's --help output
//
// # License
//
// Apache 2.0 - See LICENSE file for details.
package keycloakcli
