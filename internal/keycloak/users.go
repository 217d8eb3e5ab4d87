package keycloak

import (
	"context"
	"fmt"
	"net/url"
)

// UserByUsername searches a realm for an exact username match. Returns nil
// when no user matches; the username filter is a substring search
// server-side, so the match is re-checked exactly.
func (c *Client) UserByUsername(ctx context.Context, realm, username string) (*User, error) {
	params := url.Values{}
	params.Set("username", username)
	var users []User
	if err := c.do(ctx, "GET", fmt.Sprintf("/admin/realms/%s/users", realm), params, nil, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, nil
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, realm string, user User) error {
	return c.do(ctx, "POST", fmt.Sprintf("/admin/realms/%s/users", realm), nil, user, nil)
}

// UpdateUser applies user to the user with the given id. Only fields set on
// user are sent.
func (c *Client) UpdateUser(ctx context.Context, realm, id string, user User) error {
	user.ID = id
	return c.do(ctx, "PUT", fmt.Sprintf("/admin/realms/%s/users/%s", realm, id), nil, user, nil)
}

// DeleteUser deletes the user with the given id.
func (c *Client) DeleteUser(ctx context.Context, realm, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/admin/realms/%s/users/%s", realm, id), nil, nil, nil)
}

// ResetPassword sets a user's password credential.
func (c *Client) ResetPassword(ctx context.Context, realm, userID string, cred Credential) error {
	path := fmt.Sprintf("/admin/realms/%s/users/%s/reset-password", realm, userID)
	return c.do(ctx, "PUT", path, nil, cred, nil)
}
