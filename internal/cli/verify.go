package cli

import (
	"github.com/spf13/cobra"

	"github.com/hwchain/hwchain-cli/internal/cli/render"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "verify <id|address|contract[:label]>",
		Short: "Verify a deployment on Etherscan",
		Long: `Submit the standard JSON input of a recorded deployment to the Etherscan v2
API and record the outcome in the registry. Requires ETHERSCAN_API_KEY.`,
		Example: `  hwchain verify Switch --network base-sepolia
  hwchain verify 0x5FbDB2315678afecb367f032d93F642f64180aa3
  hwchain verify tokengate/84532/TokenGate:default --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.VerifyDeployment.Run(cmd.Context(), usecase.VerifyDeploymentParams{
				Identifier: args[0],
				Force:      force,
			})
			if err != nil {
				return err
			}

			return renderResult[*usecase.VerifyResult](cmd, app, render.NewVerifyRenderer(cmd.OutOrStdout()), result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-verify even if already verified")

	return cmd
}
