package cli

import (
	"github.com/spf13/cobra"

	"github.com/hwchain/hwchain-cli/internal/cli/render"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// NewDevCmd creates the dev command with subcommands
func NewDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
		Long:  `Development utilities for working against a local chain.`,
	}

	cmd.AddCommand(newDevAnvilCmd())

	return cmd
}

// newDevAnvilCmd creates the anvil management command
func newDevAnvilCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anvil",
		Short: "Manage local anvil node",
		Long: `Manage a local anvil node. Its PID and log files live under .hwchain/ in
the project root; deploy to it with --network localhost.`,
	}

	ops := []struct {
		op    usecase.AnvilOperation
		short string
	}{
		{usecase.AnvilStart, "Start local anvil node"},
		{usecase.AnvilStop, "Stop local anvil node"},
		{usecase.AnvilRestart, "Restart local anvil node"},
		{usecase.AnvilStatus, "Show anvil status"},
		{usecase.AnvilLogs, "Follow anvil logs"},
	}
	for _, o := range ops {
		cmd.AddCommand(newDevAnvilOpCmd(o.op, o.short))
	}

	return cmd
}

// anvilFlags holds common flags for anvil commands
type anvilFlags struct {
	name    string
	port    string
	chainID string
}

// addAnvilFlags adds common flags to an anvil command
func addAnvilFlags(cmd *cobra.Command, flags *anvilFlags) {
	cmd.Flags().StringVar(&flags.name, "name", "anvil0", "Instance name (e.g. anvil0, anvil1)")
	cmd.Flags().StringVar(&flags.port, "port", "8545", "RPC port to bind")
	cmd.Flags().StringVar(&flags.chainID, "chain-id", "", "Chain ID to use for the instance (optional)")
}

func newDevAnvilOpCmd(op usecase.AnvilOperation, short string) *cobra.Command {
	flags := &anvilFlags{}

	cmd := &cobra.Command{
		Use:   string(op),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnvilCommand(cmd, op, flags)
		},
	}
	if op == usecase.AnvilLogs {
		cmd.Annotations = map[string]string{longRunningAnnotation: "true"}
	}

	addAnvilFlags(cmd, flags)
	return cmd
}

// runAnvilCommand executes an anvil management command
func runAnvilCommand(cmd *cobra.Command, op usecase.AnvilOperation, flags *anvilFlags) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	renderer := render.NewAnvilRenderer(cmd.OutOrStdout())
	params := usecase.ManageAnvilParams{
		Operation: op,
		Name:      flags.name,
		Port:      flags.port,
		ChainID:   flags.chainID,
	}
	if op == usecase.AnvilLogs {
		renderer.RenderLogsHeader(flags.name)
		params.LogWriter = cmd.OutOrStdout()
	}

	result, err := app.ManageAnvil.Run(cmd.Context(), params)
	if err != nil {
		return err
	}
	if op == usecase.AnvilLogs {
		return nil
	}

	return renderResult[*usecase.ManageAnvilResult](cmd, app, renderer, result)
}
