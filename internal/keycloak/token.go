package keycloak

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/blackwell-systems/keycloak-cli/internal/config"
)

// tokenCache holds access tokens keyed by credential set. It lives on the
// Client rather than in package state so ownership follows the client.
type tokenCache struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newTokenCache() *tokenCache {
	return &tokenCache{tokens: make(map[string]string)}
}

func (tc *tokenCache) get(key string) (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	t, ok := tc.tokens[key]
	return t, ok
}

func (tc *tokenCache) put(key, token string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.tokens[key] = token
}

func (c *Client) tokenCacheKey() string {
	return strings.Join([]string{
		c.baseURL,
		c.cfg.AuthRealm,
		c.cfg.GrantType,
		c.cfg.ClientID,
		c.cfg.Username,
	}, "|")
}

func (c *Client) tokenURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.baseURL, c.cfg.AuthRealm)
}

// token returns a cached access token for the configured credentials,
// fetching one from the token endpoint on first use.
func (c *Client) token(ctx context.Context) (string, error) {
	key := c.tokenCacheKey()
	if t, ok := c.tokens.get(key); ok {
		return t, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	var tok *oauth2.Token
	var err error
	if c.cfg.GrantType == config.GrantPassword {
		// The admin-cli public client accepts direct access grants.
		conf := &oauth2.Config{
			ClientID: "admin-cli",
			Endpoint: oauth2.Endpoint{TokenURL: c.tokenURL()},
		}
		tok, err = conf.PasswordCredentialsToken(ctx, c.cfg.Username, c.cfg.Password)
	} else {
		conf := &clientcredentials.Config{
			ClientID:     c.cfg.ClientID,
			ClientSecret: c.cfg.ClientSecret,
			TokenURL:     c.tokenURL(),
		}
		tok, err = conf.Token(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("login failed: missing access_token")
	}

	c.tokens.put(key, tok.AccessToken)
	return tok.AccessToken, nil
}
