package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/cleaning-rota/pkg/utils"
)

// LogoutCmd creates the logout command
func LogoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved Google token for this environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := utils.NewTokenStore()
			if err != nil {
				return err
			}

			if err := utils.Logout(store, app.Env); err != nil {
				return err
			}
			app.sheetsClient = nil

			fmt.Printf("\n✓ Logged out of environment %q\n\n", app.Env)
			return nil
		},
	}
}
