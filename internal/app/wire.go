//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/hwchain/hwchain-cli/internal/adapters"
	"github.com/hwchain/hwchain-cli/internal/config"
	"github.com/hwchain/hwchain-cli/internal/logging"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployer,
		usecase.NewDeploySwitch,
		usecase.NewDeployTokenGate,
		usecase.NewReadSwitchState,
		usecase.NewToggleSwitch,
		usecase.NewListenGate,
		usecase.NewListDeployments,
		usecase.NewShowDeployment,
		usecase.NewVerifyDeployment,
		usecase.NewCheckDeployments,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewManageAnvil,

		// App
		NewApp,
	)
	return nil, nil, nil
}
