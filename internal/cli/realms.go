package cli

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/keycloak-cli/internal/reconcile"
)

var realmsCmd = &cobra.Command{
	Use:   "realms",
	Short: "Manage realms",
}

var realmsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all realms",
	Long:  `List every realm visible to the authenticated identity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess.SetTargetRealms("all realms")

		var rep reconcile.Report
		rep.RealmLabel = "all realms"

		names, err := kc.ListRealmNames(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			rep.Add(name)
			rep.Listed++
		}
		rep.FinishList()

		printReport(&rep)
		return nil
	},
}

func init() {
	realmsCmd.AddCommand(realmsListCmd)
}
