package keycloak

import "context"

// ListRealms returns every realm visible to the authenticated identity.
func (c *Client) ListRealms(ctx context.Context) ([]Realm, error) {
	var realms []Realm
	if err := c.do(ctx, "GET", "/admin/realms", nil, nil, &realms); err != nil {
		return nil, err
	}
	return realms, nil
}

// ListRealmNames returns the realm names in the server's return order.
func (c *Client) ListRealmNames(ctx context.Context) ([]string, error) {
	realms, err := c.ListRealms(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(realms))
	for _, r := range realms {
		if r.Realm != "" {
			names = append(names, r.Realm)
		}
	}
	return names, nil
}
