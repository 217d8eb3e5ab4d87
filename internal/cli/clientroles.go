package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/keycloak-cli/internal/fanout"
	"github.com/blackwell-systems/keycloak-cli/internal/keycloak"
	"github.com/blackwell-systems/keycloak-cli/internal/reconcile"
)

var clientRolesCmd = &cobra.Command{
	Use:   "client-roles",
	Short: "Manage client roles",
}

var (
	crClientID     string
	crNames        []string
	crDescriptions []string
	crAllRealms    bool
)

var clientRolesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create client roles",
	Long: `Create one or more roles under a client in the targeted realms.

The client is looked up by its client-id in every realm; roles that already
exist are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if crClientID == "" {
			return fmt.Errorf("missing --client-id: target client-id is required")
		}
		m, err := fanout.New("--name", crNames)
		if err != nil {
			return err
		}
		if err := m.Add("--description", crDescriptions); err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, crAllRealms)
		if err != nil {
			return err
		}

		// Resolved per realm before its keys run.
		var internalID string

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Create(ctx, &rep, targets, m.Keys(), reconcile.CreateOps[keycloak.Role]{
			Kind: "client role",
			BeforeRealm: func(ctx context.Context, realm string) error {
				c, err := kc.ClientByClientID(ctx, realm, crClientID)
				if err != nil {
					return err
				}
				if c == nil || c.ID == "" {
					return fmt.Errorf("client %q not found in realm %s", crClientID, realm)
				}
				internalID = c.ID
				return nil
			},
			Lookup: func(ctx context.Context, realm, key string) (*keycloak.Role, error) {
				return kc.GetClientRole(ctx, realm, internalID, key)
			},
			Create: func(ctx context.Context, rep *reconcile.Report, realm string, i int) error {
				role := keycloak.Role{
					Name:        m.Keys()[i],
					Description: m.Pick("--description", i),
				}
				if err := kc.CreateClientRole(ctx, realm, internalID, role); err != nil {
					return err
				}
				rep.Addf("Created client role %q in client %q (realm %q).", role.Name, crClientID, realm)
				return nil
			},
			ExistsLine: func(realm, key string) string {
				return fmt.Sprintf("Client role %q already exists in client %q (realm %q). Skipped.", key, crClientID, realm)
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

func init() {
	clientRolesCreateCmd.Flags().StringVar(&crClientID, "client-id", "", "target client-id (required)")
	clientRolesCreateCmd.Flags().StringArrayVar(&crNames, "name", nil, "client role name(s); repeatable; required")
	clientRolesCreateCmd.Flags().StringArrayVar(&crDescriptions, "description", nil, "client role description(s); pass none, one (applies to all), or one per --name in order")
	clientRolesCreateCmd.Flags().BoolVar(&crAllRealms, "all-realms", false, "apply to all realms")

	clientRolesCmd.AddCommand(clientRolesCreateCmd)
}
