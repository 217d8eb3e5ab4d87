package keycloak

// Realm is the subset of the realm representation the CLI consumes.
type Realm struct {
	ID    string `json:"id,omitempty"`
	Realm string `json:"realm"`
}

// Role represents a realm role or a client role.
type Role struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ClientRole  bool   `json:"clientRole,omitempty"`
	ContainerID string `json:"containerId,omitempty"`
}

// ClientRep is the client representation. Boolean attributes are pointers so
// an update can leave server-side values untouched when the flag was absent.
type ClientRep struct {
	ID                        string   `json:"id,omitempty"`
	ClientID                  string   `json:"clientId,omitempty"`
	Name                      string   `json:"name,omitempty"`
	Enabled                   *bool    `json:"enabled,omitempty"`
	PublicClient              *bool    `json:"publicClient,omitempty"`
	Protocol                  string   `json:"protocol,omitempty"`
	RootURL                   string   `json:"rootUrl,omitempty"`
	BaseURL                   string   `json:"baseUrl,omitempty"`
	RedirectURIs              []string `json:"redirectUris,omitempty"`
	WebOrigins                []string `json:"webOrigins,omitempty"`
	StandardFlowEnabled       *bool    `json:"standardFlowEnabled,omitempty"`
	DirectAccessGrantsEnabled *bool    `json:"directAccessGrantsEnabled,omitempty"`
	ImplicitFlowEnabled       *bool    `json:"implicitFlowEnabled,omitempty"`
	ServiceAccountsEnabled    *bool    `json:"serviceAccountsEnabled,omitempty"`
}

// ClientScope is the client scope representation.
type ClientScope struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
}

// User is the subset of the user representation the CLI consumes.
type User struct {
	ID            string `json:"id,omitempty"`
	Username      string `json:"username,omitempty"`
	Email         string `json:"email,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Enabled       *bool  `json:"enabled,omitempty"`
	EmailVerified *bool  `json:"emailVerified,omitempty"`
}

// Credential carries a password reset payload.
type Credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// Bool returns a pointer for optional boolean representation fields.
func Bool(v bool) *bool {
	return &v
}
