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

// DeployTokenGateParams contains parameters for deploying the token gate
type DeployTokenGateParams struct {
	Label string
}

// DeployTokenGateResult holds both confirmed deployments
type DeployTokenGateResult struct {
	Token *models.Deployment `json:"token"`
	Gate  *models.Deployment `json:"gate"`
	// TokenInfo is nil when the token metadata could not be read
	TokenInfo *TokenInfo `json:"tokenInfo,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
}

// DeployTokenGate deploys TokenGateToken and then TokenGate(token)
type DeployTokenGate struct {
	deployer *Deployer
	chain    ChainClient
	reader   *contractReader
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployTokenGate creates a new DeployTokenGate use case
func NewDeployTokenGate(cfg *config.RuntimeConfig, deployer *Deployer, chain ChainClient, progress ProgressSink, log *slog.Logger) *DeployTokenGate {
	return &DeployTokenGate{
		deployer: deployer,
		chain:    chain,
		reader: &contractReader{
			chain:  chain,
			policy: RetryPolicy{Attempts: 1},
			log:    log,
		},
		progress: progress,
		log:      log.With("component", "tokengate"),
	}
}

// Run executes the deployment. The token is recorded as soon as it is
// confirmed, so a failed gate deployment leaves it in the registry.
func (uc *DeployTokenGate) Run(ctx context.Context, params DeployTokenGateParams) (*DeployTokenGateResult, error) {
	session, err := uc.deployer.Begin(ctx, "TokenGateToken and TokenGate")
	if err != nil {
		return nil, err
	}

	token, err := uc.deployer.Deploy(ctx, session, ContractDeployment{
		Project:      models.ProjectTokenGate,
		ContractName: models.ContractTokenGateToken,
		Label:        params.Label,
	})
	if err != nil {
		return nil, err
	}

	tokenAddr, err := uc.checkToken(ctx, token.Address)
	if err != nil {
		return nil, err
	}

	gate, err := uc.deployer.Deploy(ctx, session, ContractDeployment{
		Project:         models.ProjectTokenGate,
		ContractName:    models.ContractTokenGate,
		Label:           params.Label,
		ConstructorArgs: bindings.NewTokenGate().PackConstructor(tokenAddr),
	})
	if err != nil {
		return nil, err
	}

	result := &DeployTokenGateResult{Token: token, Gate: gate}

	got, err := uc.reader.GateToken(ctx, common.HexToAddress(gate.Address))
	switch {
	case err != nil:
		warning := fmt.Sprintf("could not read token() from the gate: %v", err)
		uc.log.Warn("token() check skipped", "gate", gate.Address, "error", err)
		result.Warnings = append(result.Warnings, warning)
	case got != tokenAddr:
		return nil, fmt.Errorf("%w: token() is %s, deployed token is %s", domain.ErrTokenMismatch, got.Hex(), tokenAddr.Hex())
	default:
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "Check", Message: "Gate token matches"})
	}

	if info, err := uc.reader.TokenInfo(ctx, tokenAddr, session.Account); err == nil {
		result.TokenInfo = info
	} else {
		uc.log.Debug("token metadata unavailable", "token", tokenAddr.Hex(), "error", err)
	}

	return result, nil
}

// checkToken re-validates the token address right before it is built into
// the gate's constructor arguments
func (uc *DeployTokenGate) checkToken(ctx context.Context, address string) (common.Address, error) {
	addr, err := domain.ParseAddress(address)
	if err != nil {
		return common.Address{}, fmt.Errorf("token address: %w", err)
	}
	code, err := uc.chain.CodeAt(ctx, addr, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read code at %s: %w", addr.Hex(), err)
	}
	if len(code) == 0 {
		return common.Address{}, fmt.Errorf("%w: token at %s", domain.ErrNoCode, addr.Hex())
	}
	return addr, nil
}
