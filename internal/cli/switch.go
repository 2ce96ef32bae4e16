package cli

import (
	"math/big"

	"github.com/spf13/cobra"

	"github.com/hwchain/hwchain-cli/internal/cli/render"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// NewSwitchCmd creates the switch command group
func NewSwitchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Read and toggle a deployed Switch",
		Long: `Read and toggle a deployed Switch. The contract is taken from --address,
then CONTRACT_ADDRESS, then the newest Switch in the registry for the
connected chain.`,
	}

	cmd.AddCommand(newSwitchStateCmd())
	cmd.AddCommand(newSwitchToggleCmd())

	return cmd
}

func newSwitchStateCmd() *cobra.Command {
	var (
		address string
		block   uint64
	)

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print readState()",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ReadSwitchStateParams{Address: address}
			if cmd.Flags().Changed("block") {
				params.Block = new(big.Int).SetUint64(block)
			}

			result, err := app.ReadSwitchState.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewContractsRenderer(cmd.OutOrStdout(), explorerURL(app))
			return renderResult[*usecase.ReadSwitchStateResult](cmd, app, render.RendererFunc[*usecase.ReadSwitchStateResult](renderer.RenderSwitchState), result)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Switch address")
	cmd.Flags().Uint64Var(&block, "block", 0, "Read at this block instead of latest")

	return cmd
}

func newSwitchToggleCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Send changeState() and wait for the new state",
		Long: `Send changeState() from the configured account. Only the owner may toggle.
After the receipt the state is polled until it flips or the wait elapses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ToggleSwitch.Run(cmd.Context(), usecase.ToggleSwitchParams{Address: address})
			if err != nil {
				return err
			}

			renderer := render.NewContractsRenderer(cmd.OutOrStdout(), explorerURL(app))
			return renderResult[*usecase.ToggleSwitchResult](cmd, app, render.RendererFunc[*usecase.ToggleSwitchResult](renderer.RenderToggle), result)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Switch address")

	return cmd
}
