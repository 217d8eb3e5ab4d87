package keycloak

import (
	"context"
	"fmt"
	"net/url"
)

// ListClients returns the clients of a realm, optionally filtered by
// clientId on the server side.
func (c *Client) ListClients(ctx context.Context, realm, clientID string) ([]ClientRep, error) {
	params := url.Values{}
	if clientID != "" {
		params.Set("clientId", clientID)
	}
	var clients []ClientRep
	if err := c.do(ctx, "GET", fmt.Sprintf("/admin/realms/%s/clients", realm), params, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// ClientByClientID looks a client up by its clientId. Returns nil when no
// client matches; the clientId filter is a prefix search server-side, so the
// match is re-checked exactly.
func (c *Client) ClientByClientID(ctx context.Context, realm, clientID string) (*ClientRep, error) {
	clients, err := c.ListClients(ctx, realm, clientID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ClientID == clientID {
			return &clients[i], nil
		}
	}
	return nil, nil
}

// CreateClient creates a client.
func (c *Client) CreateClient(ctx context.Context, realm string, rep ClientRep) error {
	return c.do(ctx, "POST", fmt.Sprintf("/admin/realms/%s/clients", realm), nil, rep, nil)
}

// UpdateClient applies rep to the client with the given internal id. Only
// fields set on rep are sent.
func (c *Client) UpdateClient(ctx context.Context, realm, id string, rep ClientRep) error {
	rep.ID = id
	return c.do(ctx, "PUT", fmt.Sprintf("/admin/realms/%s/clients/%s", realm, id), nil, rep, nil)
}

// DeleteClient deletes the client with the given internal id.
func (c *Client) DeleteClient(ctx context.Context, realm, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/admin/realms/%s/clients/%s", realm, id), nil, nil, nil)
}

// RenameClient changes a client's clientId.
func (c *Client) RenameClient(ctx context.Context, realm, id, newClientID string) error {
	rep := ClientRep{ID: id, ClientID: newClientID}
	return c.do(ctx, "PUT", fmt.Sprintf("/admin/realms/%s/clients/%s", realm, id), nil, rep, nil)
}
