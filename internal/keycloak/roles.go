package keycloak

import (
	"context"
	"fmt"
	"net/url"
)

// GetRealmRole fetches a realm role by name. A missing role surfaces as a
// 404 APIError.
func (c *Client) GetRealmRole(ctx context.Context, realm, name string) (*Role, error) {
	var role Role
	path := fmt.Sprintf("/admin/realms/%s/roles/%s", realm, url.PathEscape(name))
	if err := c.do(ctx, "GET", path, nil, nil, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRealmRole creates a realm role.
func (c *Client) CreateRealmRole(ctx context.Context, realm string, role Role) error {
	return c.do(ctx, "POST", fmt.Sprintf("/admin/realms/%s/roles", realm), nil, role, nil)
}

// UpdateRealmRole replaces the role currently named name.
func (c *Client) UpdateRealmRole(ctx context.Context, realm, name string, role Role) error {
	path := fmt.Sprintf("/admin/realms/%s/roles/%s", realm, url.PathEscape(name))
	return c.do(ctx, "PUT", path, nil, role, nil)
}

// DeleteRealmRole deletes a realm role by name.
func (c *Client) DeleteRealmRole(ctx context.Context, realm, name string) error {
	path := fmt.Sprintf("/admin/realms/%s/roles/%s", realm, url.PathEscape(name))
	return c.do(ctx, "DELETE", path, nil, nil, nil)
}

// GetClientRole fetches a role owned by the client with the given internal id.
func (c *Client) GetClientRole(ctx context.Context, realm, clientInternalID, name string) (*Role, error) {
	var role Role
	path := fmt.Sprintf("/admin/realms/%s/clients/%s/roles/%s", realm, clientInternalID, url.PathEscape(name))
	if err := c.do(ctx, "GET", path, nil, nil, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateClientRole creates a role under the client with the given internal id.
func (c *Client) CreateClientRole(ctx context.Context, realm, clientInternalID string, role Role) error {
	path := fmt.Sprintf("/admin/realms/%s/clients/%s/roles", realm, clientInternalID)
	return c.do(ctx, "POST", path, nil, role, nil)
}

// AssignRealmRoles adds realm-role mappings to a user.
func (c *Client) AssignRealmRoles(ctx context.Context, realm, userID string, roles []Role) error {
	path := fmt.Sprintf("/admin/realms/%s/users/%s/role-mappings/realm", realm, userID)
	return c.do(ctx, "POST", path, nil, roles, nil)
}

// AssignClientRoles adds client-role mappings to a user.
func (c *Client) AssignClientRoles(ctx context.Context, realm, userID, clientInternalID string, roles []Role) error {
	path := fmt.Sprintf("/admin/realms/%s/users/%s/role-mappings/clients/%s", realm, userID, clientInternalID)
	return c.do(ctx, "POST", path, nil, roles, nil)
}
