package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/keycloak-cli/internal/fanout"
	"github.com/blackwell-systems/keycloak-cli/internal/keycloak"
	"github.com/blackwell-systems/keycloak-cli/internal/reconcile"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
}

var (
	clIDs             []string
	clNames           []string
	clPublic          []string
	clSecrets         []string
	clEnabled         []string
	clProtocols       []string
	clRootURLs        []string
	clBaseURLs        []string
	clRedirectURIs    []string
	clWebOrigins      []string
	clStandardFlow    []string
	clDirectAccess    []string
	clImplicitFlow    []string
	clServiceAccounts []string
	clNewIDs          []string
	clAllRealms       bool
	clIgnoreMiss      bool
)

// clientMatrix validates the attribute lists shared by create and update
// against the client-id list.
func clientMatrix() (*fanout.Matrix, error) {
	m, err := fanout.New("--client-id", clIDs)
	if err != nil {
		return nil, err
	}
	for flag, values := range map[string][]string{
		"--name":             clNames,
		"--public":           clPublic,
		"--secret":           clSecrets,
		"--enabled":          clEnabled,
		"--protocol":         clProtocols,
		"--root-url":         clRootURLs,
		"--base-url":         clBaseURLs,
		"--standard-flow":    clStandardFlow,
		"--direct-access":    clDirectAccess,
		"--implicit-flow":    clImplicitFlow,
		"--service-accounts": clServiceAccounts,
		"--new-client-id":    clNewIDs,
	} {
		if err := m.Add(flag, values); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// pickBoolPtr parses an optional true/false attribute into a pointer the
// representation can omit when the flag was absent.
func pickBoolPtr(m *fanout.Matrix, flag string, i int) (*bool, error) {
	val, ok := m.PickOK(flag, i)
	if !ok {
		return nil, nil
	}
	b, err := parseBool(val, flag)
	if err != nil {
		return nil, err
	}
	return keycloak.Bool(b), nil
}

func warnSecretUnsupported(clientID string) {
	fmt.Fprintf(sess.Err(),
		"Warning: --secret provided for client %q but explicit secret setting is not supported. Skipped setting secret.\n",
		clientID)
}

var clientsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create clients",
	Long: `Create one or more clients in the targeted realms.

Boolean attributes take true/false values; enabled defaults to true and
public to false. Redirect URIs and web origins are applied as a full
replacement to every targeted client. Explicit secret setting is not
supported; a supplied --secret only produces a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := clientMatrix()
		if err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, clAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Create(ctx, &rep, targets, m.Keys(), reconcile.CreateOps[keycloak.ClientRep]{
			Kind:   "client",
			Lookup: kc.ClientByClientID,
			Create: func(ctx context.Context, rep *reconcile.Report, realm string, i int) error {
				cid := m.Keys()[i]

				payload := keycloak.ClientRep{
					ClientID: cid,
					Name:     m.Pick("--name", i),
					Protocol: m.Pick("--protocol", i),
					RootURL:  m.Pick("--root-url", i),
					BaseURL:  m.Pick("--base-url", i),
				}

				payload.Enabled = keycloak.Bool(true)
				if val, ok := m.PickOK("--enabled", i); ok {
					b, err := parseBool(val, "--enabled")
					if err != nil {
						return err
					}
					payload.Enabled = keycloak.Bool(b)
				}
				payload.PublicClient = keycloak.Bool(false)
				if val, ok := m.PickOK("--public", i); ok {
					b, err := parseBool(val, "--public")
					if err != nil {
						return err
					}
					payload.PublicClient = keycloak.Bool(b)
				}
				for flag, field := range map[string]**bool{
					"--standard-flow":    &payload.StandardFlowEnabled,
					"--direct-access":    &payload.DirectAccessGrantsEnabled,
					"--implicit-flow":    &payload.ImplicitFlowEnabled,
					"--service-accounts": &payload.ServiceAccountsEnabled,
				} {
					ptr, err := pickBoolPtr(m, flag, i)
					if err != nil {
						return err
					}
					*field = ptr
				}

				if err := kc.CreateClient(ctx, realm, payload); err != nil {
					return err
				}

				// The create response carries no body; refetch for the
				// internal id.
				created, err := kc.ClientByClientID(ctx, realm, cid)
				if err != nil {
					return err
				}
				if created == nil || created.ID == "" {
					return fmt.Errorf("failed creating client %q in realm %s: client not found after create", cid, realm)
				}

				if sec := m.Pick("--secret", i); sec != "" && !*payload.PublicClient {
					warnSecretUnsupported(cid)
				}

				if len(clRedirectURIs) > 0 {
					patch := keycloak.ClientRep{RedirectURIs: clRedirectURIs}
					if err := kc.UpdateClient(ctx, realm, created.ID, patch); err != nil {
						return err
					}
				}
				if len(clWebOrigins) > 0 {
					patch := keycloak.ClientRep{WebOrigins: clWebOrigins}
					if err := kc.UpdateClient(ctx, realm, created.ID, patch); err != nil {
						return err
					}
				}

				rep.Addf("Created client %q (ID: %s) in realm %q.", cid, created.ID, realm)
				return nil
			},
			ExistsLine: func(realm, key string) string {
				return fmt.Sprintf("Client %q already exists in realm %q. Skipped.", key, realm)
			},
		})
		if err != nil {
			return err
		}

		rep.FinishCreate()
		printReport(&rep)
		return nil
	},
}

var clientsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		anySet := false
		for _, values := range [][]string{
			clNames, clPublic, clSecrets, clEnabled, clProtocols,
			clRootURLs, clBaseURLs, clRedirectURIs, clWebOrigins,
			clStandardFlow, clDirectAccess, clImplicitFlow,
			clServiceAccounts, clNewIDs,
		} {
			if len(values) > 0 {
				anySet = true
				break
			}
		}
		m, err := clientMatrix()
		if err != nil {
			return err
		}
		if !anySet {
			return fmt.Errorf("nothing to update: provide at least one field flag")
		}

		targets, label, err := resolveTargets(ctx, clAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Update(ctx, &rep, targets, m.Keys(), clIgnoreMiss, reconcile.UpdateOps[keycloak.ClientRep]{
			Kind:   "client",
			Lookup: kc.ClientByClientID,
			Update: func(ctx context.Context, rep *reconcile.Report, realm string, i int, existing *keycloak.ClientRep) error {
				cid := m.Keys()[i]
				if existing.ID == "" {
					return fmt.Errorf("client %q has no internal id", cid)
				}

				patch := keycloak.ClientRep{
					Name:         m.Pick("--name", i),
					Protocol:     m.Pick("--protocol", i),
					RootURL:      m.Pick("--root-url", i),
					BaseURL:      m.Pick("--base-url", i),
					RedirectURIs: clRedirectURIs,
					WebOrigins:   clWebOrigins,
				}
				for flag, field := range map[string]**bool{
					"--public":           &patch.PublicClient,
					"--enabled":          &patch.Enabled,
					"--standard-flow":    &patch.StandardFlowEnabled,
					"--direct-access":    &patch.DirectAccessGrantsEnabled,
					"--implicit-flow":    &patch.ImplicitFlowEnabled,
					"--service-accounts": &patch.ServiceAccountsEnabled,
				} {
					ptr, err := pickBoolPtr(m, flag, i)
					if err != nil {
						return err
					}
					*field = ptr
				}

				if err := kc.UpdateClient(ctx, realm, existing.ID, patch); err != nil {
					return err
				}

				if sec := m.Pick("--secret", i); sec != "" {
					public := false
					switch {
					case patch.PublicClient != nil:
						public = *patch.PublicClient
					case existing.PublicClient != nil:
						public = *existing.PublicClient
					}
					if !public {
						warnSecretUnsupported(cid)
					}
				}

				if newID := m.Pick("--new-client-id", i); newID != "" {
					if err := kc.RenameClient(ctx, realm, existing.ID, newID); err != nil {
						return err
					}
				}

				rep.Addf("Updated client %q (ID: %s) in realm %q.", cid, existing.ID, realm)
				return nil
			},
			MissingLine: func(realm, key string) string {
				return fmt.Sprintf("Client %q not found in realm %q. Skipped.", key, realm)
			},
		})
		if err != nil {
			return err
		}

		rep.FinishUpdate()
		printReport(&rep)
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := fanout.New("--client-id", clIDs)
		if err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, clAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Delete(ctx, &rep, targets, m.Keys(), clIgnoreMiss, reconcile.DeleteOps[keycloak.ClientRep]{
			Kind:   "client",
			Lookup: kc.ClientByClientID,
			Delete: func(ctx context.Context, rep *reconcile.Report, realm, key string, existing *keycloak.ClientRep) error {
				if err := kc.DeleteClient(ctx, realm, existing.ID); err != nil {
					return err
				}
				rep.Addf("Deleted client %q (ID: %s) in realm %q.", key, existing.ID, realm)
				return nil
			},
			MissingLine: func(realm, key string) string {
				return fmt.Sprintf("Client %q not found in realm %q. Skipped.", key, realm)
			},
		})
		if err != nil {
			return err
		}

		rep.FinishDelete()
		printReport(&rep)
		return nil
	},
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// A single --client-id narrows the listing server-side.
		var filter string
		if len(clIDs) == 1 {
			filter = clIDs[0]
		}

		targets, label, err := resolveTargets(ctx, clAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.List(ctx, &rep, targets, func(ctx context.Context, realm string) ([]string, error) {
			clients, err := kc.ListClients(ctx, realm, filter)
			if err != nil {
				return nil, err
			}
			var ids []string
			for _, c := range clients {
				if c.ClientID != "" {
					ids = append(ids, c.ClientID)
				}
			}
			return ids, nil
		})
		if err != nil {
			return err
		}

		rep.FinishList()
		printReport(&rep)
		return nil
	},
}

var clientScopeAssignCmd = &cobra.Command{
	Use:   "scopes",
	Short: "Manage client scope assignments",
}

var (
	scClientID   string
	scScopes     []string
	scType       string
	scAllRealms  bool
	scIgnoreMiss bool
)

// lookupClientInternalID resolves a clientId to the client's internal id.
func lookupClientInternalID(ctx context.Context, realm, clientID string) (string, error) {
	c, err := kc.ClientByClientID(ctx, realm, clientID)
	if err != nil {
		return "", err
	}
	if c == nil || c.ID == "" {
		return "", fmt.Errorf("client %q not found in realm %s", clientID, realm)
	}
	return c.ID, nil
}

var scopesAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign client scopes to a client",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if scClientID == "" {
			return fmt.Errorf("missing --client-id")
		}
		if len(scScopes) == 0 {
			return fmt.Errorf("missing --scope: provide at least one --scope")
		}
		if scType != keycloak.ScopeDefault && scType != keycloak.ScopeOptional {
			return fmt.Errorf("invalid --type: must be 'default' or 'optional'")
		}

		targets, label, err := resolveTargets(ctx, scAllRealms)
		if err != nil {
			return err
		}

		assigned, skipped := 0, 0
		rep := reconcile.Report{RealmLabel: label}

		for _, realm := range targets {
			internalID, err := lookupClientInternalID(ctx, realm, scClientID)
			if err != nil {
				return err
			}
			for _, sn := range scScopes {
				scope, err := kc.ClientScopeByName(ctx, realm, sn)
				if err != nil {
					return err
				}
				if scope == nil {
					return fmt.Errorf("client scope %q not found in realm %s", sn, realm)
				}

				err = kc.AssignClientScope(ctx, realm, internalID, scope.ID, scType)
				if keycloak.IsConflict(err) {
					rep.Addf("Scope %q already %s for client %q in realm %q. Skipped.", sn, scType, scClientID, realm)
					skipped++
					continue
				}
				if err != nil {
					return err
				}
				rep.Addf("Assigned %s scope %q to client %q in realm %q.", scType, sn, scClientID, realm)
				assigned++
			}
		}

		rep.Addf("Done. Assigned: %d, Skipped: %d.", assigned, skipped)
		printReport(&rep)
		return nil
	},
}

var scopesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove client scope assignments from a client",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if scClientID == "" {
			return fmt.Errorf("missing --client-id")
		}
		if len(scScopes) == 0 {
			return fmt.Errorf("missing --scope: provide at least one --scope")
		}
		if scType != keycloak.ScopeDefault && scType != keycloak.ScopeOptional {
			return fmt.Errorf("invalid --type: must be 'default' or 'optional'")
		}

		targets, label, err := resolveTargets(ctx, scAllRealms)
		if err != nil {
			return err
		}

		removed, skipped := 0, 0
		rep := reconcile.Report{RealmLabel: label}

		for _, realm := range targets {
			internalID, err := lookupClientInternalID(ctx, realm, scClientID)
			if err != nil {
				return err
			}
			for _, sn := range scScopes {
				scope, err := kc.ClientScopeByName(ctx, realm, sn)
				if err != nil {
					return err
				}
				if scope == nil {
					if scIgnoreMiss {
						rep.Addf("Client scope %q not found in realm %q. Skipped.", sn, realm)
						skipped++
						continue
					}
					return fmt.Errorf("client scope %q not found in realm %s", sn, realm)
				}

				err = kc.RemoveClientScope(ctx, realm, internalID, scope.ID, scType)
				if keycloak.IsNotFound(err) && scIgnoreMiss {
					kind := "Default"
					if scType == keycloak.ScopeOptional {
						kind = "Optional"
					}
					rep.Addf("%s scope %q not assigned to client %q in realm %q. Skipped.", kind, sn, scClientID, realm)
					skipped++
					continue
				}
				if err != nil {
					return err
				}
				rep.Addf("Removed %s scope %q from client %q in realm %q.", scType, sn, scClientID, realm)
				removed++
			}
		}

		rep.Addf("Done. Removed: %d, Skipped: %d.", removed, skipped)
		printReport(&rep)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{clientsCreateCmd, clientsUpdateCmd, clientsDeleteCmd, clientsListCmd} {
		cmd.Flags().StringArrayVar(&clIDs, "client-id", nil, "client-id(s); repeatable")
		cmd.Flags().BoolVar(&clAllRealms, "all-realms", false, "apply to all realms")
	}
	for _, cmd := range []*cobra.Command{clientsCreateCmd, clientsUpdateCmd} {
		cmd.Flags().StringArrayVar(&clNames, "name", nil, "client name(s); pass none, one (applies to all), or one per --client-id in order")
		cmd.Flags().StringArrayVar(&clPublic, "public", nil, "public client flag(s) (true/false); pass none, one, or one per --client-id")
		cmd.Flags().StringArrayVar(&clSecrets, "secret", nil, "client secret(s); explicit secret setting is not supported")
		cmd.Flags().StringArrayVar(&clEnabled, "enabled", nil, "enabled flag(s) (true/false); pass none, one, or one per --client-id")
		cmd.Flags().StringArrayVar(&clProtocols, "protocol", nil, "protocol(s), e.g. openid-connect")
		cmd.Flags().StringArrayVar(&clRootURLs, "root-url", nil, "root URL(s)")
		cmd.Flags().StringArrayVar(&clBaseURLs, "base-url", nil, "base URL(s)")
		cmd.Flags().StringArrayVar(&clRedirectURIs, "redirect-uri", nil, "redirect URI list; replaces the list on all targeted clients")
		cmd.Flags().StringArrayVar(&clWebOrigins, "web-origin", nil, "web origin list; replaces the list on all targeted clients")
		cmd.Flags().StringArrayVar(&clStandardFlow, "standard-flow", nil, "standard flow flag(s) (true/false)")
		cmd.Flags().StringArrayVar(&clDirectAccess, "direct-access", nil, "direct access grants flag(s) (true/false)")
		cmd.Flags().StringArrayVar(&clImplicitFlow, "implicit-flow", nil, "implicit flow flag(s) (true/false)")
		cmd.Flags().StringArrayVar(&clServiceAccounts, "service-accounts", nil, "service accounts flag(s) (true/false)")
	}
	clientsUpdateCmd.Flags().StringArrayVar(&clNewIDs, "new-client-id", nil, "new client-id(s); pass none, one, or one per --client-id")
	clientsUpdateCmd.Flags().BoolVar(&clIgnoreMiss, "ignore-missing", false, "skip clients not found instead of failing")
	clientsDeleteCmd.Flags().BoolVar(&clIgnoreMiss, "ignore-missing", false, "skip clients not found instead of failing")

	for _, cmd := range []*cobra.Command{scopesAssignCmd, scopesRemoveCmd} {
		cmd.Flags().StringVar(&scClientID, "client-id", "", "target client-id (required)")
		cmd.Flags().StringArrayVar(&scScopes, "scope", nil, "client scope name(s); repeatable; required")
		cmd.Flags().StringVar(&scType, "type", keycloak.ScopeDefault, "assignment type: default|optional")
		cmd.Flags().BoolVar(&scAllRealms, "all-realms", false, "apply to all realms")
	}
	scopesRemoveCmd.Flags().BoolVar(&scIgnoreMiss, "ignore-missing", false, "skip scopes not found or not assigned instead of failing")

	clientScopeAssignCmd.AddCommand(scopesAssignCmd, scopesRemoveCmd)
	clientsCmd.AddCommand(clientsCreateCmd, clientsUpdateCmd, clientsDeleteCmd, clientsListCmd, clientScopeAssignCmd)
}
