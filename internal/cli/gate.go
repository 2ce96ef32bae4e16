package cli

import (
	"errors"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hwchain/hwchain-cli/internal/cli/render"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// NewGateCmd creates the gate command group
func NewGateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Drive the gate from TokenGate events",
	}

	cmd.AddCommand(newGateListenCmd())

	return cmd
}

func newGateListenCmd() *cobra.Command {
	var (
		address     string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Follow GatePulse events until interrupted",
		Long: `Poll the TokenGate for GatePulse events from the current block on. A pulse
with value 0 centers the gate; a positive value runs a countdown of that many
steps and then centers it. Pulses are handled one at a time in log order.

On SIGINT or SIGTERM polling stops, queued pulses are drained and a summary
is printed.`,
		Example: `  hwchain gate listen --network base-sepolia
  hwchain gate listen --address 0x... --metrics-addr :9102`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{longRunningAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			renderer := render.NewGateRenderer(cmd.ErrOrStderr())
			if !app.Config.JSON && app.Config.Network != nil {
				renderer.RenderListening(lo.CoalesceOrEmpty(address, app.Config.Gate.Address, "registry"), app.Config.Network.Name)
			}

			result, err := app.ListenGate.Run(cmd.Context(), usecase.ListenGateParams{
				Address:     address,
				MetricsAddr: metricsAddr,
			})
			if result == nil {
				return err
			}
			if renderErr := renderResult[*usecase.ListenGateResult](cmd, app, render.NewGateRenderer(cmd.OutOrStdout()), result); renderErr != nil {
				return errors.Join(err, renderErr)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "TokenGate address")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9102)")

	return cmd
}
