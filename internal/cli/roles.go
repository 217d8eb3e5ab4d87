package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/keycloak-cli/internal/fanout"
	"github.com/blackwell-systems/keycloak-cli/internal/keycloak"
	"github.com/blackwell-systems/keycloak-cli/internal/reconcile"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Manage realm roles",
}

var (
	roleNames        []string
	roleDescriptions []string
	roleNewNames     []string
	rolesAllRealms   bool
	rolesIgnoreMiss  bool
	rolesInteractive bool
)

var rolesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create realm roles",
	Long: `Create one or more realm roles across the targeted realms.

Roles that already exist are skipped, so re-running the same command is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if rolesInteractive {
			promptRolesCreate()
		}

		m, err := fanout.New("--name", roleNames)
		if err != nil {
			return err
		}
		if err := m.Add("--description", roleDescriptions); err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, rolesAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Create(ctx, &rep, targets, m.Keys(), reconcile.CreateOps[keycloak.Role]{
			Kind:   "role",
			Lookup: kc.GetRealmRole,
			Create: func(ctx context.Context, rep *reconcile.Report, realm string, i int) error {
				role := keycloak.Role{
					Name:        m.Keys()[i],
					Description: m.Pick("--description", i),
				}
				if err := kc.CreateRealmRole(ctx, realm, role); err != nil {
					return err
				}
				rep.Addf("Created role %q in realm %q.", role.Name, realm)
				return nil
			},
			ExistsLine: func(realm, key string) string {
				return fmt.Sprintf("Role %q already exists in realm %q. Skipped.", key, realm)
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

// promptRolesCreate fills in missing inputs interactively.
func promptRolesCreate() {
	out := sess.Out()
	if sess.Jira() == "" {
		sess.SetJira(prompt(out, "Jira ticket (optional, leave empty to skip)"))
	}
	if !rolesAllRealms && len(flagRealms) == 0 {
		ans := prompt(out, "Create role in all realms? [y/N]")
		if a := strings.ToLower(ans); a == "y" || a == "yes" {
			rolesAllRealms = true
		}
	}
	if !rolesAllRealms && len(flagRealms) == 0 {
		if r := prompt(out, "Target realm (leave empty to use default/config)"); r != "" {
			flagRealms = []string{r}
		}
	}
	if len(roleNames) == 0 {
		roleNames = splitCSV(prompt(out, "Role name(s) (comma-separated)"))
	}
	if len(roleDescriptions) == 0 {
		if d := prompt(out, "Role description (optional, applies to all names)"); d != "" {
			roleDescriptions = []string{d}
		}
	}
}

var rolesUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update realm roles",
	Long: `Update the description and/or name of one or more realm roles.

A role missing from a targeted realm aborts the invocation unless
--ignore-missing is set; roles already updated in earlier realms stay updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := fanout.New("--name", roleNames)
		if err != nil {
			return err
		}
		if len(roleDescriptions) == 0 && len(roleNewNames) == 0 {
			return fmt.Errorf("nothing to update: provide --description and/or --new-name")
		}
		if err := m.Add("--description", roleDescriptions); err != nil {
			return err
		}
		if err := m.Add("--new-name", roleNewNames); err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, rolesAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Update(ctx, &rep, targets, m.Keys(), rolesIgnoreMiss, reconcile.UpdateOps[keycloak.Role]{
			Kind:   "role",
			Lookup: kc.GetRealmRole,
			Update: func(ctx context.Context, rep *reconcile.Report, realm string, i int, role *keycloak.Role) error {
				name := m.Keys()[i]
				if m.Has("--description") {
					role.Description = m.Pick("--description", i)
				}
				if m.Has("--new-name") {
					role.Name = m.Pick("--new-name", i)
				}
				if err := kc.UpdateRealmRole(ctx, realm, name, *role); err != nil {
					return err
				}
				rep.Addf("Updated role %q in realm %q. New name: %q.", name, realm, role.Name)
				return nil
			},
			MissingLine: func(realm, key string) string {
				return fmt.Sprintf("Role %q not found in realm %q. Skipped.", key, realm)
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

var rolesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete realm roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := fanout.New("--name", roleNames)
		if err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, rolesAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Delete(ctx, &rep, targets, m.Keys(), rolesIgnoreMiss, reconcile.DeleteOps[keycloak.Role]{
			Kind:   "role",
			Lookup: kc.GetRealmRole,
			Delete: func(ctx context.Context, rep *reconcile.Report, realm, key string, role *keycloak.Role) error {
				if err := kc.DeleteRealmRole(ctx, realm, key); err != nil {
					return err
				}
				rep.Addf("Deleted role %q in realm %q.", key, realm)
				return nil
			},
			MissingLine: func(realm, key string) string {
				return fmt.Sprintf("Role %q not found in realm %q. Skipped.", key, realm)
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

func init() {
	for _, cmd := range []*cobra.Command{rolesCreateCmd, rolesUpdateCmd, rolesDeleteCmd} {
		cmd.Flags().StringArrayVar(&roleNames, "name", nil, "role name(s); repeatable; required")
		cmd.Flags().BoolVar(&rolesAllRealms, "all-realms", false, "apply to all realms")
	}
	rolesCreateCmd.Flags().StringArrayVar(&roleDescriptions, "description", nil, "role description(s); pass none, one (applies to all), or one per --name in order")
	rolesCreateCmd.Flags().BoolVarP(&rolesInteractive, "interactive", "i", false, "prompt for role parameters interactively")

	rolesUpdateCmd.Flags().StringArrayVar(&roleDescriptions, "description", nil, "new description(s); pass none, one (applies to all), or one per --name in order")
	rolesUpdateCmd.Flags().StringArrayVar(&roleNewNames, "new-name", nil, "new role name(s); pass none, one (applies to all), or one per --name in order")
	rolesUpdateCmd.Flags().BoolVar(&rolesIgnoreMiss, "ignore-missing", false, "skip roles not found instead of failing")

	rolesDeleteCmd.Flags().BoolVar(&rolesIgnoreMiss, "ignore-missing", false, "skip roles not found instead of failing")

	rolesCmd.AddCommand(rolesCreateCmd, rolesUpdateCmd, rolesDeleteCmd)
}
