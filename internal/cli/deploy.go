package cli

import (
	"github.com/spf13/cobra"

	"github.com/hwchain/hwchain-cli/internal/cli/render"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// NewDeployCmd creates the deploy command group
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy contracts",
		Long: `Deploy contracts from the compiled artifacts and record them in the
deployment registry. Every deployment is confirmed on chain before it is
reported: the receipt must succeed and the new address must hold code.`,
	}

	cmd.AddCommand(newDeploySwitchCmd())
	cmd.AddCommand(newDeployTokenGateCmd())

	return cmd
}

func newDeploySwitchCmd() *cobra.Command {
	var (
		initialState bool
		label        string
	)

	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Deploy Switch and read back owner() and readState()",
		Example: `  # Deploy with the switch off
  hwchain deploy switch --network base-sepolia

  # Deploy with the switch on under a label
  hwchain deploy switch --initial-state --label lab`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeploySwitch.Run(cmd.Context(), usecase.DeploySwitchParams{
				InitialState: initialState,
				Label:        label,
			})
			if err != nil {
				return err
			}

			renderer := render.NewContractsRenderer(cmd.OutOrStdout(), explorerURL(app))
			return renderResult[*usecase.DeploySwitchResult](cmd, app, render.RendererFunc[*usecase.DeploySwitchResult](renderer.RenderSwitchDeployment), result)
		},
	}

	cmd.Flags().BoolVar(&initialState, "initial-state", false, "Constructor state of the switch")
	cmd.Flags().StringVar(&label, "label", "", "Registry label (defaults to 'default')")

	return cmd
}

func newDeployTokenGateCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:     "tokengate",
		Short:   "Deploy TokenGateToken, then TokenGate bound to it",
		Example: `  hwchain deploy tokengate --network base-sepolia`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployTokenGate.Run(cmd.Context(), usecase.DeployTokenGateParams{Label: label})
			if err != nil {
				return err
			}

			renderer := render.NewContractsRenderer(cmd.OutOrStdout(), explorerURL(app))
			return renderResult[*usecase.DeployTokenGateResult](cmd, app, render.RendererFunc[*usecase.DeployTokenGateResult](renderer.RenderTokenGateDeployment), result)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Registry label for both contracts (defaults to 'default')")

	return cmd
}
