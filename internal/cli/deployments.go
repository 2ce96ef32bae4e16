package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hwchain/hwchain-cli/internal/cli/render"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command group
func NewDeploymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"deps"},
		Short:   "Inspect the deployment registry",
	}

	cmd.AddCommand(newDeploymentsListCmd())
	cmd.AddCommand(newDeploymentsShowCmd())
	cmd.AddCommand(newDeploymentsCheckCmd())

	return cmd
}

func newDeploymentsListCmd() *cobra.Command {
	var (
		chainID      uint64
		contractName string
		project      string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deployments from registry",
		Long: `List all deployments from the registry, grouped by chain.

The list can be filtered by chain ID, contract name or project.`,
		Example: `  # List all deployments
  hwchain deployments list

  # List Switch deployments on Base Sepolia
  hwchain deployments list --chain 84532 --contract Switch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListDeploymentsParams{
				ChainID:      chainID,
				ContractName: contractName,
			}
			switch p := models.Project(strings.ToLower(project)); p {
			case "":
			case models.ProjectButton, models.ProjectTokenGate:
				params.Project = p
			default:
				return fmt.Errorf("invalid project: %s (valid: %s, %s)", project, models.ProjectButton, models.ProjectTokenGate)
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return renderResult[*usecase.DeploymentListResult](cmd, app, render.NewDeploymentsRenderer(cmd.OutOrStdout()), result)
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain", 0, "Filter by chain ID")
	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")
	cmd.Flags().StringVar(&project, "project", "", "Filter by project (button, tokengate)")

	return cmd
}

func newDeploymentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|address|contract[:label]>",
		Short: "Show a deployment",
		Long: `Show one registry record. The identifier may be a full ID
(button/84532/Switch:default), an address, a contract name with an optional
label, or chainId/Contract[:label]. Matches on the selected network win.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			deployment, err := app.ShowDeployment.Run(cmd.Context(), usecase.ShowDeploymentParams{Identifier: args[0]})
			if err != nil {
				return err
			}

			return renderResult[*models.Deployment](cmd, app, render.NewDeploymentRenderer(cmd.OutOrStdout(), explorerURL(app)), deployment)
		},
	}
}

func newDeploymentsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check recorded deployments against the chain",
		Long: `Check every deployment recorded for the selected network: the address must
hold code and the deployment transaction must exist in the recorded block.
Exits 1 when any record fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CheckDeployments.Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := renderResult[*usecase.CheckDeploymentsResult](cmd, app, render.NewCheckRenderer(cmd.OutOrStdout()), result); err != nil {
				return err
			}
			if missing := result.Missing(); missing > 0 {
				return fmt.Errorf("%d of %d deployments failed the check", missing, len(result.Checks))
			}
			return nil
		},
	}
}
