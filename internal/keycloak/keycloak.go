// Package keycloak implements the Keycloak Admin REST API client used by
// the kc commands.
//
// Authentication goes through the realm token endpoint with either a
// password grant or a client-credentials grant; access tokens are cached per
// credential set for the lifetime of the client. Read misses surface as 404
// APIErrors and write conflicts as 409 APIErrors so callers can tell the
// skip cases apart from real failures.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blackwell-systems/keycloak-cli/internal/config"
)

const requestTimeout = 60 * time.Second

// Client talks to one Keycloak server with one credential set.
type Client struct {
	baseURL string
	cfg     *config.Config
	http    *http.Client
	tokens  *tokenCache
}

// New builds a Client from the loaded configuration.
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.ServerURL, "/"),
		cfg:     cfg,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		tokens: newTokenCache(),
	}
}

// do issues one authenticated request. body (when non-nil) is sent as JSON;
// out (when non-nil) receives the decoded JSON response. 204 responses and
// non-JSON bodies leave out untouched.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response for %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response for %s %s: %w", method, path, err)
	}
	return nil
}
