package cli

import (
	"fmt"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/auth"
	"github.com/spf13/cobra"
)

func newTokenCommand(a *app) *cobra.Command {
	var owner, name string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a manager console or board display",
		Long: `token signs a bearer token whose subject is the manager account id.
Board displays run unattended; issue their tokens with --ttl 0 so they never
expire.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Auth.Validate(); err != nil {
				return err
			}
			m := auth.NewManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.Issuer, a.cfg.Auth.TokenTTL)
			signed, err := m.Issue(owner, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "manager account id the token acts for")
	cmd.Flags().StringVar(&name, "name", "", "display name recorded in the token")
	cmd.Flags().Duration("ttl", 12*time.Hour, "token lifetime; 0 never expires")
	bindFlag(cmd.Flags(), "ttl", "auth.token_ttl")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
