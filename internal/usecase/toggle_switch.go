package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/bindings"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// ToggleSwitchParams contains parameters for toggling the switch
type ToggleSwitchParams struct {
	Address string
}

// ToggleSwitchResult describes a confirmed toggle
type ToggleSwitchResult struct {
	Address     common.Address `json:"address"`
	Account     common.Address `json:"account"`
	Previous    string         `json:"previous"`
	Target      string         `json:"target"`
	Final       string         `json:"final"`
	TxHash      common.Hash    `json:"txHash"`
	BlockNumber uint64         `json:"blockNumber"`
	GasUsed     uint64         `json:"gasUsed"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// ToggleSwitch flips the switch with changeState() after checking ownership
type ToggleSwitch struct {
	config   *config.RuntimeConfig
	chain    ChainClient
	locator  *contractLocator
	reader   *contractReader
	progress ProgressSink
	log      *slog.Logger
}

// NewToggleSwitch creates a new ToggleSwitch use case
func NewToggleSwitch(cfg *config.RuntimeConfig, chain ChainClient, registry DeploymentRepository, progress ProgressSink, log *slog.Logger) *ToggleSwitch {
	return &ToggleSwitch{
		config:  cfg,
		chain:   chain,
		locator: &contractLocator{chain: chain, registry: registry},
		reader: &contractReader{
			chain:  chain,
			policy: RetryPolicy{Attempts: cfg.Switch.ReadRetries, Delay: cfg.Switch.ReadDelay},
			log:    log,
		},
		progress: progress,
		log:      log.With("component", "toggle"),
	}
}

// Run executes the toggle
func (uc *ToggleSwitch) Run(ctx context.Context, params ToggleSwitchParams) (*ToggleSwitchResult, error) {
	account, err := uc.chain.Account()
	if err != nil {
		return nil, err
	}
	address, _, err := uc.locator.locate(ctx, params.Address, uc.config.Switch.Address, models.ProjectButton, models.ContractSwitch)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Toggle", Message: "Reading current state", Spinner: true})
	current, err := uc.reader.ReadState(ctx, address, nil)
	if err != nil {
		return nil, err
	}
	target := current.Opposite()

	owner, err := uc.reader.Owner(ctx, address)
	if err != nil {
		return nil, err
	}
	if owner != account {
		return nil, fmt.Errorf("%w: owner is %s, signer is %s", domain.ErrNotOwner, owner.Hex(), account.Hex())
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Toggle", Message: fmt.Sprintf("%s -> %s", current.Label, target), Spinner: true})
	sent, err := uc.chain.SendTransaction(ctx, TxRequest{
		To:       &address,
		Data:     bindings.NewSwitch().PackChangeState(),
		GasLimit: uc.config.Switch.GasLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send changeState(): %w", err)
	}
	uc.log.Info("toggle sent", "tx", sent.Hash.Hex(), "nonce", sent.Nonce, "target", target)

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Pending", Message: sent.Hash.Hex(), Spinner: true})
	receipt, err := uc.chain.WaitReceipt(ctx, sent.Hash, uc.config.Deploy.ReceiptTimeout, uc.config.Deploy.PollInterval)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: changeState() %s", domain.ErrTxReverted, sent.Hash.Hex())
	}

	result := &ToggleSwitchResult{
		Address:  address,
		Account:  account,
		Previous: current.Label,
		Target:   target,
		TxHash:   sent.Hash,
		GasUsed:  receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Syncing", Message: fmt.Sprintf("waiting for %s", target), Spinner: true})
	if !uc.waitForState(ctx, address, receipt, target) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("state did not read %s within %s", target, uc.config.Switch.StateWait))
	}

	final, err := uc.reader.ReadState(ctx, address, nil)
	if err != nil {
		uc.log.Warn("final state read failed, assuming target", "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("final state read failed: %v", err))
		result.Final = target
	} else {
		result.Final = final.Label
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Syncing", Message: fmt.Sprintf("switch is %s", result.Final)})

	return result, nil
}

// waitForState reads at the inclusion block, then polls latest until the
// node serves the target state or state_wait elapses. Each poll is a single
// read so the retry policy cannot stretch the wait.
func (uc *ToggleSwitch) waitForState(ctx context.Context, address common.Address, receipt *types.Receipt, target string) bool {
	reader := uc.reader.once()
	if state, err := reader.ReadState(ctx, address, receipt.BlockNumber); err == nil && state.Label == target {
		return true
	}

	deadline := time.Now().Add(uc.config.Switch.StateWait)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(uc.config.Switch.StatePoll):
		}
		state, err := reader.ReadState(ctx, address, nil)
		if err == nil && state.Label == target {
			return true
		}
	}
	uc.log.Warn("state not synced", "target", target, "waited", uc.config.Switch.StateWait)
	return false
}
