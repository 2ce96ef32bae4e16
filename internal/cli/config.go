package cli

import (
	"github.com/spf13/cobra"

	"github.com/hwchain/hwchain-cli/internal/cli/render"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging flags, environment, .env files,
hwchain.toml and defaults. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowConfig.Run(cmd.Context())
			if err != nil {
				return err
			}

			return renderResult[*usecase.EffectiveConfig](cmd, app, render.NewConfigRenderer(cmd.OutOrStdout()), result)
		},
	})

	return cmd
}
