package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/bindings"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// DeploySwitchParams contains parameters for deploying the button's Switch
type DeploySwitchParams struct {
	InitialState bool
	Label        string
}

// DeploySwitchResult is a confirmed and read-back Switch deployment
type DeploySwitchResult struct {
	Deployment *models.Deployment `json:"deployment"`
	Owner      common.Address     `json:"owner"`
	State      domain.SwitchState `json:"state"`
}

// DeploySwitch deploys Switch(initialState) and reads owner() and readState()
// back from the new contract
type DeploySwitch struct {
	deployer *Deployer
	reader   *contractReader
	progress ProgressSink
}

// NewDeploySwitch creates a new DeploySwitch use case
func NewDeploySwitch(cfg *config.RuntimeConfig, deployer *Deployer, chain ChainClient, progress ProgressSink, log *slog.Logger) *DeploySwitch {
	return &DeploySwitch{
		deployer: deployer,
		reader: &contractReader{
			chain:  chain,
			policy: RetryPolicy{Attempts: cfg.Switch.ReadRetries, Delay: cfg.Switch.ReadDelay},
			log:    log,
		},
		progress: progress,
	}
}

// Run executes the deployment
func (uc *DeploySwitch) Run(ctx context.Context, params DeploySwitchParams) (*DeploySwitchResult, error) {
	session, err := uc.deployer.Begin(ctx, models.ContractSwitch)
	if err != nil {
		return nil, err
	}

	deployment, err := uc.deployer.Deploy(ctx, session, ContractDeployment{
		Project:         models.ProjectButton,
		ContractName:    models.ContractSwitch,
		Label:           params.Label,
		ConstructorArgs: bindings.NewSwitch().PackConstructor(params.InitialState),
	})
	if err != nil {
		return nil, err
	}
	address := common.HexToAddress(deployment.Address)

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Check", Message: "Reading owner and state", Spinner: true})
	owner, err := uc.reader.Owner(ctx, address)
	if err != nil {
		return nil, err
	}
	if owner != session.Account {
		return nil, fmt.Errorf("%w: owner() is %s, deployer is %s", domain.ErrOwnerMismatch, owner.Hex(), session.Account.Hex())
	}

	state, err := uc.reader.ReadState(ctx, address, nil)
	if err != nil {
		return nil, err
	}
	if state.On != params.InitialState {
		return nil, fmt.Errorf("%w: readState() is %s, deployed with %s",
			domain.ErrStateMismatch, state.Label, domain.StateLabel(params.InitialState))
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Check", Message: "Owner and state match"})

	return &DeploySwitchResult{Deployment: deployment, Owner: owner, State: state}, nil
}
