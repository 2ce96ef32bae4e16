package app

import (
	"log/slog"

	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Contract flows
	DeploySwitch    *usecase.DeploySwitch
	DeployTokenGate *usecase.DeployTokenGate
	ReadSwitchState *usecase.ReadSwitchState
	ToggleSwitch    *usecase.ToggleSwitch
	ListenGate      *usecase.ListenGate

	// Registry and tooling
	ListDeployments  *usecase.ListDeployments
	ShowDeployment   *usecase.ShowDeployment
	VerifyDeployment *usecase.VerifyDeployment
	CheckDeployments *usecase.CheckDeployments
	ListNetworks     *usecase.ListNetworks
	ShowConfig       *usecase.ShowConfig
	ManageAnvil      *usecase.ManageAnvil
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	deploySwitch *usecase.DeploySwitch,
	deployTokenGate *usecase.DeployTokenGate,
	readSwitchState *usecase.ReadSwitchState,
	toggleSwitch *usecase.ToggleSwitch,
	listenGate *usecase.ListenGate,
	listDeployments *usecase.ListDeployments,
	showDeployment *usecase.ShowDeployment,
	verifyDeployment *usecase.VerifyDeployment,
	checkDeployments *usecase.CheckDeployments,
	listNetworks *usecase.ListNetworks,
	showConfig *usecase.ShowConfig,
	manageAnvil *usecase.ManageAnvil,
) *App {
	return &App{
		Config:           cfg,
		Log:              log,
		DeploySwitch:     deploySwitch,
		DeployTokenGate:  deployTokenGate,
		ReadSwitchState:  readSwitchState,
		ToggleSwitch:     toggleSwitch,
		ListenGate:       listenGate,
		ListDeployments:  listDeployments,
		ShowDeployment:   showDeployment,
		VerifyDeployment: verifyDeployment,
		CheckDeployments: checkDeployments,
		ListNetworks:     listNetworks,
		ShowConfig:       showConfig,
		ManageAnvil:      manageAnvil,
	}
}
