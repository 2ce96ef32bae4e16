package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hwchain/hwchain-cli/internal/app"
	"github.com/hwchain/hwchain-cli/internal/cli/render"
	"github.com/hwchain/hwchain-cli/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// longRunningAnnotation marks commands that run until interrupted and
	// therefore ignore the global timeout
	longRunningAnnotation = "hwchain/long-running"
)

// initializer builds the App for a command; tests replace it
type initializer func(v *viper.Viper) (*app.App, func(), error)

// Execute runs the CLI and releases the app once the command returns
func Execute(ctx context.Context) error {
	var release func()
	rootCmd := newRootCmd(func(v *viper.Viper) (*app.App, func(), error) {
		a, cleanup, err := app.InitApp(v)
		release = cleanup
		return a, cleanup, err
	})
	defer func() {
		if release != nil {
			release()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(app.InitApp)
}

func newRootCmd(initApp initializer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hwchain",
		Short: "Deploy and drive the Switch and TokenGate contracts",
		Long: `hwchain deploys the Switch and TokenGate contracts, reads and toggles the
switch, and turns GatePulse events into gate movements.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, nil)
			bindGlobalFlags(v, cmd)

			appInstance, _, err := initApp(v)
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 && cmd.Annotations[longRunningAnnotation] == "" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., base-sepolia, localhost)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "contracts",
		Title: "Contract Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewSwitchCmd(), NewGateCmd()} {
		cmd.GroupID = "contracts"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewDeploymentsCmd(), NewVerifyCmd(), NewNetworksCmd(), NewConfigCmd(), NewDevCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports whether a command runs without configuration
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return !cmd.Runnable()
}

// bindGlobalFlags binds command flags to viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	// Only bind flags that exist and have been changed
	if f := cmd.Flag("debug"); f != nil && f.Changed {
		v.Set("debug", f.Value.String())
	}
	if f := cmd.Flag("non-interactive"); f != nil && f.Changed {
		v.Set("non_interactive", f.Value.String())
	}
	if f := cmd.Flag("json"); f != nil && f.Changed {
		v.Set("json", f.Value.String())
	}
	if f := cmd.Flag("network"); f != nil && f.Changed {
		v.Set("network", f.Value.String())
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}

// renderResult prints a result as JSON under --json, through human otherwise
func renderResult[T any](cmd *cobra.Command, a *app.App, human render.Renderer[T], result T) error {
	if a.Config.JSON {
		return render.NewJSONRenderer[T](cmd.OutOrStdout()).Render(result)
	}
	return human.Render(result)
}

// explorerURL returns the block explorer of the selected network, if any
func explorerURL(a *app.App) string {
	if a.Config.Network == nil {
		return ""
	}
	return a.Config.Network.ExplorerURL
}
