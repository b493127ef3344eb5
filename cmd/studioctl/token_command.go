// cmd/studioctl/token_command.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/omstudio/studio-ops/internal/utils"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API bearer token for the operator given by --as and --role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ctx.actor()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive")
			}
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if name == "" {
				name = actor.ID
			}

			utils.SetJWTSecret(cfg.JWT.SecretKey)
			token, err := utils.GenerateJWT(actor.ID, name, string(actor.Role), ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name carried in the token (defaults to --as)")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	return cmd
}
