package usecase

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// ReadSwitchStateParams contains parameters for reading the switch
type ReadSwitchStateParams struct {
	Address string
	// Block is nil for latest
	Block *big.Int
}

// ReadSwitchStateResult is the switch state at a block
type ReadSwitchStateResult struct {
	Address common.Address     `json:"address"`
	Source  AddressSource      `json:"source"`
	Block   string             `json:"block"`
	State   domain.SwitchState `json:"state"`
}

// ReadSwitchState reads readState() with the read retry policy
type ReadSwitchState struct {
	config  *config.RuntimeConfig
	locator *contractLocator
	reader  *contractReader
}

// NewReadSwitchState creates a new ReadSwitchState use case
func NewReadSwitchState(cfg *config.RuntimeConfig, chain ChainClient, registry DeploymentRepository, log *slog.Logger) *ReadSwitchState {
	return &ReadSwitchState{
		config:  cfg,
		locator: &contractLocator{chain: chain, registry: registry},
		reader: &contractReader{
			chain:  chain,
			policy: RetryPolicy{Attempts: cfg.Switch.ReadRetries, Delay: cfg.Switch.ReadDelay},
			log:    log,
		},
	}
}

// Run executes the read
func (uc *ReadSwitchState) Run(ctx context.Context, params ReadSwitchStateParams) (*ReadSwitchStateResult, error) {
	address, source, err := uc.locator.locate(ctx, params.Address, uc.config.Switch.Address, models.ProjectButton, models.ContractSwitch)
	if err != nil {
		return nil, err
	}

	state, err := uc.reader.ReadState(ctx, address, params.Block)
	if err != nil {
		return nil, err
	}

	block := "latest"
	if params.Block != nil {
		block = params.Block.String()
	}
	return &ReadSwitchStateResult{Address: address, Source: source, Block: block, State: state}, nil
}
