package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/keycloak-cli/internal/fanout"
	"github.com/blackwell-systems/keycloak-cli/internal/keycloak"
	"github.com/blackwell-systems/keycloak-cli/internal/password"
	"github.com/blackwell-systems/keycloak-cli/internal/reconcile"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var (
	userNames       []string
	userEmails      []string
	userFirstNames  []string
	userLastNames   []string
	userPasswords   []string
	userEnabled     bool
	userEnabledStr  string
	userRealmRoles  []string
	userClientRoles []string
	userClientID    string
	usersAllRealms  bool
	usersIgnoreMiss bool
)

const generatedPasswordLength = 12

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create users",
	Long: `Create one or more users in the targeted realms.

Each user gets a non-temporary password: the one supplied via --password, or
a generated strong one when the flag is absent. Generated and supplied
passwords are echoed in the report and recorded in the audit trail. Realm
and client roles named via --realm-role/--client-role are assigned to every
created user.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := fanout.New("--username", userNames)
		if err != nil {
			return err
		}
		for flag, values := range map[string][]string{
			"--email":      userEmails,
			"--first-name": userFirstNames,
			"--last-name":  userLastNames,
			"--password":   userPasswords,
		} {
			if err := m.Add(flag, values); err != nil {
				return err
			}
		}
		if len(userClientRoles) > 0 && userClientID == "" {
			return fmt.Errorf("missing --client-id when using --client-role")
		}

		targets, label, err := resolveTargets(ctx, usersAllRealms)
		if err != nil {
			return err
		}

		// Resolved per realm when client roles are assigned.
		var internalID string
		var pwAudit []string

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Create(ctx, &rep, targets, m.Keys(), reconcile.CreateOps[keycloak.User]{
			Kind: "user",
			BeforeRealm: func(ctx context.Context, realm string) error {
				if len(userClientRoles) == 0 {
					return nil
				}
				c, err := kc.ClientByClientID(ctx, realm, userClientID)
				if err != nil {
					return err
				}
				if c == nil || c.ID == "" {
					return fmt.Errorf("client %q not found in realm %s", userClientID, realm)
				}
				internalID = c.ID
				return nil
			},
			Lookup: kc.UserByUsername,
			Create: func(ctx context.Context, rep *reconcile.Report, realm string, i int) error {
				name := m.Keys()[i]
				email := m.Pick("--email", i)
				pw := m.Pick("--password", i)

				if pw == "" {
					generated, err := password.Generate(generatedPasswordLength)
					if err != nil {
						return err
					}
					pw = generated
					rep.Addf("Generated password for user %q in realm %q.", name, realm)
				}
				if err := password.ValidateStrength(pw); err != nil {
					return err
				}

				user := keycloak.User{
					Username:      name,
					Email:         email,
					FirstName:     m.Pick("--first-name", i),
					LastName:      m.Pick("--last-name", i),
					Enabled:       keycloak.Bool(userEnabled),
					EmailVerified: keycloak.Bool(email != ""),
				}
				if err := kc.CreateUser(ctx, realm, user); err != nil {
					return err
				}

				// The create response carries no body; refetch for the id.
				created, err := kc.UserByUsername(ctx, realm, name)
				if err != nil {
					return err
				}
				if created == nil || created.ID == "" {
					return fmt.Errorf("failed creating user %q in realm %s: user not found after create", name, realm)
				}

				cred := keycloak.Credential{Type: "password", Value: pw, Temporary: false}
				if err := kc.ResetPassword(ctx, realm, created.ID, cred); err != nil {
					return err
				}

				if len(userRealmRoles) > 0 {
					var roles []keycloak.Role
					for _, rn := range userRealmRoles {
						role, err := kc.GetRealmRole(ctx, realm, rn)
						if err != nil {
							return err
						}
						roles = append(roles, *role)
					}
					if err := kc.AssignRealmRoles(ctx, realm, created.ID, roles); err != nil {
						return err
					}
				}
				if len(userClientRoles) > 0 {
					var roles []keycloak.Role
					for _, rn := range userClientRoles {
						role, err := kc.GetClientRole(ctx, realm, internalID, rn)
						if err != nil {
							return err
						}
						roles = append(roles, *role)
					}
					if err := kc.AssignClientRoles(ctx, realm, created.ID, internalID, roles); err != nil {
						return err
					}
				}

				rep.Addf("Created user %q (ID: %s) in realm %q.", name, created.ID, realm)
				rep.Addf("Password for user %q in realm %q: %s", name, realm, pw)
				pwAudit = append(pwAudit, pw)
				return nil
			},
			ExistsLine: func(realm, key string) string {
				return fmt.Sprintf("User %q already exists in realm %q. Skipped.", key, realm)
			},
		})
		if err != nil {
			return err
		}

		rep.FinishCreate()
		if len(pwAudit) > 0 {
			sess.AddAuditDetails("passwords: " + strings.Join(pwAudit, ", "))
		}
		printReport(&rep)
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update users",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := fanout.New("--username", userNames)
		if err != nil {
			return err
		}
		enabledChanged := userEnabledStr != ""
		if len(userEmails) == 0 && len(userFirstNames) == 0 && len(userLastNames) == 0 &&
			len(userPasswords) == 0 && !enabledChanged {
			return fmt.Errorf("nothing to update: provide at least one of --email/--first-name/--last-name/--password/--enabled")
		}
		for flag, values := range map[string][]string{
			"--email":      userEmails,
			"--first-name": userFirstNames,
			"--last-name":  userLastNames,
			"--password":   userPasswords,
		} {
			if err := m.Add(flag, values); err != nil {
				return err
			}
		}
		var enabled bool
		if enabledChanged {
			if enabled, err = parseBool(userEnabledStr, "--enabled"); err != nil {
				return err
			}
		}

		targets, label, err := resolveTargets(ctx, usersAllRealms)
		if err != nil {
			return err
		}

		var pwAudit []string

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Update(ctx, &rep, targets, m.Keys(), usersIgnoreMiss, reconcile.UpdateOps[keycloak.User]{
			Kind:   "user",
			Lookup: kc.UserByUsername,
			Update: func(ctx context.Context, rep *reconcile.Report, realm string, i int, existing *keycloak.User) error {
				name := m.Keys()[i]
				pw := m.Pick("--password", i)
				if pw != "" {
					if err := password.ValidateStrength(pw); err != nil {
						return err
					}
				}

				var patch keycloak.User
				if email := m.Pick("--email", i); email != "" {
					patch.Email = email
					patch.EmailVerified = keycloak.Bool(true)
				}
				patch.FirstName = m.Pick("--first-name", i)
				patch.LastName = m.Pick("--last-name", i)
				if enabledChanged {
					patch.Enabled = keycloak.Bool(enabled)
				}

				if err := kc.UpdateUser(ctx, realm, existing.ID, patch); err != nil {
					return err
				}

				if pw != "" {
					cred := keycloak.Credential{Type: "password", Value: pw, Temporary: false}
					if err := kc.ResetPassword(ctx, realm, existing.ID, cred); err != nil {
						return err
					}
					rep.Addf("Updated password for user %q in realm %q.", name, realm)
					rep.Addf("New password for user %q in realm %q: %s", name, realm, pw)
					pwAudit = append(pwAudit, pw)
				}

				rep.Addf("Updated user %q (ID: %s) in realm %q.", name, existing.ID, realm)
				return nil
			},
			MissingLine: func(realm, key string) string {
				return fmt.Sprintf("User %q not found in realm %q. Skipped.", key, realm)
			},
		})
		if err != nil {
			return err
		}

		rep.FinishUpdate()
		if len(pwAudit) > 0 {
			sess.AddAuditDetails("passwords: " + strings.Join(pwAudit, ", "))
		}
		printReport(&rep)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete users",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := fanout.New("--username", userNames)
		if err != nil {
			return err
		}

		targets, label, err := resolveTargets(ctx, usersAllRealms)
		if err != nil {
			return err
		}

		rep := reconcile.Report{RealmLabel: label}
		err = reconcile.Delete(ctx, &rep, targets, m.Keys(), usersIgnoreMiss, reconcile.DeleteOps[keycloak.User]{
			Kind:   "user",
			Lookup: kc.UserByUsername,
			Delete: func(ctx context.Context, rep *reconcile.Report, realm, key string, existing *keycloak.User) error {
				if err := kc.DeleteUser(ctx, realm, existing.ID); err != nil {
					return err
				}
				rep.Addf("Deleted user %q (ID: %s) in realm %q.", key, existing.ID, realm)
				return nil
			},
			MissingLine: func(realm, key string) string {
				return fmt.Sprintf("User %q not found in realm %q. Skipped.", key, realm)
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
	for _, cmd := range []*cobra.Command{usersCreateCmd, usersUpdateCmd, usersDeleteCmd} {
		cmd.Flags().StringArrayVar(&userNames, "username", nil, "username(s); repeatable; required")
		cmd.Flags().BoolVar(&usersAllRealms, "all-realms", false, "apply to all realms")
	}
	for _, cmd := range []*cobra.Command{usersCreateCmd, usersUpdateCmd} {
		cmd.Flags().StringArrayVar(&userEmails, "email", nil, "email(s); pass none, one (applies to all), or one per --username in order")
		cmd.Flags().StringArrayVar(&userFirstNames, "first-name", nil, "first name(s); pass none, one, or one per --username")
		cmd.Flags().StringArrayVar(&userLastNames, "last-name", nil, "last name(s); pass none, one, or one per --username")
		cmd.Flags().StringArrayVar(&userPasswords, "password", nil, "password(s); pass none, one, or one per --username")
	}

	usersCreateCmd.Flags().BoolVar(&userEnabled, "enabled", true, "whether the created user(s) are enabled")
	usersCreateCmd.Flags().StringArrayVar(&userRealmRoles, "realm-role", nil, "realm role name(s) to assign to each created user")
	usersCreateCmd.Flags().StringArrayVar(&userClientRoles, "client-role", nil, "client role name(s) to assign to each created user")
	usersCreateCmd.Flags().StringVar(&userClientID, "client-id", "", "client-id whose roles will be assigned to created users")

	usersUpdateCmd.Flags().StringVar(&userEnabledStr, "enabled", "", "set enabled state for users (true/false)")
	usersUpdateCmd.Flags().BoolVar(&usersIgnoreMiss, "ignore-missing", false, "skip users not found instead of failing")

	usersDeleteCmd.Flags().BoolVar(&usersIgnoreMiss, "ignore-missing", false, "skip users not found instead of failing")

	usersCmd.AddCommand(usersCreateCmd, usersUpdateCmd, usersDeleteCmd)
}
