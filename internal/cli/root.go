// Package cli wires the kc command tree.
//
// The root command owns the invocation-wide flags and builds the execution
// session; each entity family lives in its own file. Commands resolve their
// target realms once, run the reconciliation loop, and print a boxed report
// through the session's tee writer so the run log carries a verbatim copy.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/keycloak-cli/internal/audit"
	"github.com/blackwell-systems/keycloak-cli/internal/config"
	"github.com/blackwell-systems/keycloak-cli/internal/keycloak"
	"github.com/blackwell-systems/keycloak-cli/internal/session"
)

var (
	cfg  *config.Config
	sess *session.Session
	kc   *keycloak.Client

	flagConfig          string
	flagRealms          []string
	flagLogFile         string
	flagJira            string
	flagCmdFile         string
	flagContinueOnError bool
)

var rootCmd = &cobra.Command{
	Use:           "kc",
	Short:         "Keycloak CLI",
	Long:          `Bulk administration of Keycloak realms, roles, clients, client scopes, and users.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}

		sess = session.New(cfg, audit.NewAppender(""), flagLogFile, flagJira)
		if err := sess.Start(); err != nil {
			return err
		}
		sess.SetCommandPath(cmd.CommandPath())
		sess.SetTargetRealms(defaultRealmLabel())

		kc = keycloak.New(cfg)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagCmdFile != "" {
			return runCommandFile(flagCmdFile, baseFlags(), flagContinueOnError, sess.Out(), sess.Err())
		}
		return cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file path (default: config.json next to the binary or current directory)")
	pf.StringArrayVar(&flagRealms, "realm", nil, "target realm(s); repeatable")
	pf.StringVar(&flagLogFile, "log-file", session.DefaultLogFile, "path to the log file")
	pf.StringVar(&flagJira, "jira", "", "Jira ticket identifier for display in command output")

	rootCmd.Flags().StringVar(&flagCmdFile, "cmd-file", "", "path to a text file with one CLI command per line")
	rootCmd.Flags().BoolVar(&flagContinueOnError, "continue-on-error", false, "when using --cmd-file, continue processing even if a command fails")

	rootCmd.AddCommand(realmsCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(clientRolesCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(clientScopesCmd)
	rootCmd.AddCommand(versionCmd)
}

// defaultRealmLabel is the audit target label before a command resolves its
// selector: the --realm flag if given, else the configured realm.
func defaultRealmLabel() string {
	if len(flagRealms) == 1 {
		return flagRealms[0]
	}
	if len(flagRealms) == 0 && cfg != nil {
		return cfg.Realm
	}
	return ""
}

// Execute runs the command tree and ends the session exactly once, from
// whichever path was reached.
func Execute(version string) error {
	rootCmd.Version = version
	err := rootCmd.Execute()
	if sess != nil {
		if err != nil {
			sess.FinishError(err)
		} else {
			sess.FinishOK()
		}
	}
	return err
}
