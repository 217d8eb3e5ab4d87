package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/keycloak-cli/internal/fanout"
	"github.com/blackwell-systems/keycloak-cli/internal/keycloak"
	"github.com/blackwell-systems/keycloak-cli/internal/reconcile"
)

var clientScopesCmd = &cobra.Command{
	Use:   "client-scopes",
	Short: "Manage client scopes",
}

var (
	csNames        []string
	csDescriptions []string
	csProtocols    []string
	csNewNames     []string
	csAllRealms    bool
	csIgnoreMiss   bool
)

var clientScopesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create client scopes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := fanout.New("--name", csNames)
		if err != nil {
			return err
		}
		if err := m.Add("--description", csDescriptions); err != nil {
			return err
		}
		if err := m.Add("--protocol", csProtocols); err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, csAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Create(ctx, &rep, targets, m.Keys(), reconcile.CreateOps[keycloak.ClientScope]{
			Kind:   "client scope",
			Lookup: kc.ClientScopeByName,
			Create: func(ctx context.Context, rep *reconcile.Report, realm string, i int) error {
				scope := keycloak.ClientScope{
					Name:        m.Keys()[i],
					Description: m.Pick("--description", i),
					Protocol:    m.Pick("--protocol", i),
				}
				if scope.Protocol == "" {
					scope.Protocol = "openid-connect"
				}
				if err := kc.CreateClientScope(ctx, realm, scope); err != nil {
					return err
				}
				// The create response carries no body; refetch to show the id.
				created, err := kc.ClientScopeByName(ctx, realm, scope.Name)
				if err != nil {
					return err
				}
				var id string
				if created != nil {
					id = created.ID
				}
				rep.Addf("Created client scope %q (ID: %s) in realm %q.", scope.Name, id, realm)
				return nil
			},
			ExistsLine: func(realm, key string) string {
				return fmt.Sprintf("Client scope %q already exists in realm %q. Skipped.", key, realm)
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

var clientScopesUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update client scopes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := fanout.New("--name", csNames)
		if err != nil {
			return err
		}
		if len(csDescriptions) == 0 && len(csProtocols) == 0 && len(csNewNames) == 0 {
			return fmt.Errorf("nothing to update: provide --description/--protocol/--new-name")
		}
		if err := m.Add("--description", csDescriptions); err != nil {
			return err
		}
		if err := m.Add("--protocol", csProtocols); err != nil {
			return err
		}
		if err := m.Add("--new-name", csNewNames); err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, csAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Update(ctx, &rep, targets, m.Keys(), csIgnoreMiss, reconcile.UpdateOps[keycloak.ClientScope]{
			Kind:   "client scope",
			Lookup: kc.ClientScopeByName,
			Update: func(ctx context.Context, rep *reconcile.Report, realm string, i int, scope *keycloak.ClientScope) error {
				name := m.Keys()[i]
				if scope.ID == "" {
					return fmt.Errorf("client scope %q missing id", name)
				}
				if m.Has("--description") {
					scope.Description = m.Pick("--description", i)
				}
				if m.Has("--protocol") {
					scope.Protocol = m.Pick("--protocol", i)
				}
				if m.Has("--new-name") {
					scope.Name = m.Pick("--new-name", i)
				}
				if err := kc.UpdateClientScope(ctx, realm, scope.ID, *scope); err != nil {
					return err
				}
				rep.Addf("Updated client scope %q in realm %q. New name: %q.", name, realm, scope.Name)
				return nil
			},
			MissingLine: func(realm, key string) string {
				return fmt.Sprintf("Client scope %q not found in realm %q. Skipped.", key, realm)
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

var clientScopesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete client scopes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := fanout.New("--name", csNames)
		if err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, csAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Delete(ctx, &rep, targets, m.Keys(), csIgnoreMiss, reconcile.DeleteOps[keycloak.ClientScope]{
			Kind:   "client scope",
			Lookup: kc.ClientScopeByName,
			Delete: func(ctx context.Context, rep *reconcile.Report, realm, key string, scope *keycloak.ClientScope) error {
				if err := kc.DeleteClientScope(ctx, realm, scope.ID); err != nil {
					return err
				}
				rep.Addf("Deleted client scope %q (ID: %s) in realm %q.", key, scope.ID, realm)
				return nil
			},
			MissingLine: func(realm, key string) string {
				return fmt.Sprintf("Client scope %q not found in realm %q. Skipped.", key, realm)
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

var clientScopesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List client scopes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		targets, label, err := resolveTargets(ctx, csAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.List(ctx, &rep, targets, func(ctx context.Context, realm string) ([]string, error) {
			scopes, err := kc.ListClientScopes(ctx, realm)
			if err != nil {
				return nil, err
			}
			var names []string
			for _, s := range scopes {
				if s.Name != "" {
					names = append(names, s.Name)
				}
			}
			return names, nil
		})
		if err != nil {
			return err
		}

		rep.FinishList()
		printReport(&rep)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{clientScopesCreateCmd, clientScopesUpdateCmd, clientScopesDeleteCmd} {
		cmd.Flags().StringArrayVar(&csNames, "name", nil, "client scope name(s); repeatable; required")
	}
	for _, cmd := range []*cobra.Command{clientScopesCreateCmd, clientScopesUpdateCmd, clientScopesDeleteCmd, clientScopesListCmd} {
		cmd.Flags().BoolVar(&csAllRealms, "all-realms", false, "apply to all realms")
	}

	clientScopesCreateCmd.Flags().StringArrayVar(&csDescriptions, "description", nil, "description(s); pass none, one (applies to all), or one per --name in order")
	clientScopesCreateCmd.Flags().StringArrayVar(&csProtocols, "protocol", nil, "protocol(s); pass none, one, or one per --name; default openid-connect")

	clientScopesUpdateCmd.Flags().StringArrayVar(&csDescriptions, "description", nil, "new description(s); pass none, one, or one per --name")
	clientScopesUpdateCmd.Flags().StringArrayVar(&csProtocols, "protocol", nil, "new protocol(s); pass none, one, or one per --name")
	clientScopesUpdateCmd.Flags().StringArrayVar(&csNewNames, "new-name", nil, "new name(s); pass none, one, or one per --name")
	clientScopesUpdateCmd.Flags().BoolVar(&csIgnoreMiss, "ignore-missing", false, "skip scopes not found instead of failing")

	clientScopesDeleteCmd.Flags().BoolVar(&csIgnoreMiss, "ignore-missing", false, "skip scopes not found instead of failing")

	clientScopesCmd.AddCommand(clientScopesCreateCmd, clientScopesUpdateCmd, clientScopesDeleteCmd, clientScopesListCmd)
}
