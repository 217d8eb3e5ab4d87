package keycloak

import (
	"context"
	"fmt"
)

// Scope assignment types on a client.
const (
	ScopeDefault  = "default"
	ScopeOptional = "optional"
)

// ListClientScopes returns all client scopes of a realm.
func (c *Client) ListClientScopes(ctx context.Context, realm string) ([]ClientScope, error) {
	var scopes []ClientScope
	if err := c.do(ctx, "GET", fmt.Sprintf("/admin/realms/%s/client-scopes", realm), nil, nil, &scopes); err != nil {
		return nil, err
	}
	return scopes, nil
}

// ClientScopeByName looks a client scope up by name. Returns nil when the
// realm has no scope with that name; the API offers no name filter, so the
// full list is scanned.
func (c *Client) ClientScopeByName(ctx context.Context, realm, name string) (*ClientScope, error) {
	scopes, err := c.ListClientScopes(ctx, realm)
	if err != nil {
		return nil, err
	}
	for i := range scopes {
		if scopes[i].Name == name {
			return &scopes[i], nil
		}
	}
	return nil, nil
}

// CreateClientScope creates a client scope.
func (c *Client) CreateClientScope(ctx context.Context, realm string, scope ClientScope) error {
	return c.do(ctx, "POST", fmt.Sprintf("/admin/realms/%s/client-scopes", realm), nil, scope, nil)
}

// UpdateClientScope replaces the scope with the given id.
func (c *Client) UpdateClientScope(ctx context.Context, realm, id string, scope ClientScope) error {
	return c.do(ctx, "PUT", fmt.Sprintf("/admin/realms/%s/client-scopes/%s", realm, id), nil, scope, nil)
}

// DeleteClientScope deletes the scope with the given id.
func (c *Client) DeleteClientScope(ctx context.Context, realm, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/admin/realms/%s/client-scopes/%s", realm, id), nil, nil, nil)
}

// AssignClientScope attaches a scope to a client as default or optional.
// Assigning an already-attached scope yields a 409 APIError.
func (c *Client) AssignClientScope(ctx context.Context, realm, clientInternalID, scopeID, scopeType string) error {
	path := fmt.Sprintf("/admin/realms/%s/clients/%s/%s-client-scopes/%s", realm, clientInternalID, scopeType, scopeID)
	return c.do(ctx, "PUT", path, nil, nil, nil)
}

// RemoveClientScope detaches a default or optional scope from a client.
// Removing a scope that is not attached yields a 404 APIError.
func (c *Client) RemoveClientScope(ctx context.Context, realm, clientInternalID, scopeID, scopeType string) error {
	path := fmt.Sprintf("/admin/realms/%s/clients/%s/%s-client-scopes/%s", realm, clientInternalID, scopeType, scopeID)
	return c.do(ctx, "DELETE", path, nil, nil, nil)
}
