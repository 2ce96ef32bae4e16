package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// DeploySession is the checked signer and chain a deployment runs against
type DeploySession struct {
	Account common.Address
	ChainID uint64
	Network string
}

// ContractDeployment describes one contract creation
type ContractDeployment struct {
	Project         models.Project
	ContractName    string
	Label           string
	ConstructorArgs []byte
}

// Deployer sends contract creations and records them in the registry. It is
// shared by the switch and token gate deployments.
type Deployer struct {
	config    *config.RuntimeConfig
	chain     ChainClient
	artifacts ArtifactRepository
	registry  DeploymentRepository
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployer creates a new Deployer
func NewDeployer(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	artifacts ArtifactRepository,
	registry DeploymentRepository,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *Deployer {
	return &Deployer{
		config:    cfg,
		chain:     chain,
		artifacts: artifacts,
		registry:  registry,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "deployer"),
	}
}

// Begin checks the signer and the chain before anything is sent, and asks
// for confirmation on non-local chains
func (d *Deployer) Begin(ctx context.Context, what string) (*DeploySession, error) {
	account, err := d.chain.Account()
	if err != nil {
		return nil, err
	}

	d.progress.OnProgress(ctx, ProgressEvent{Stage: "Connect", Message: "Checking chain", Spinner: true})
	chainID, err := d.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	network := ""
	if d.config.Network != nil {
		network = d.config.Network.Name
		if d.config.Network.ChainID != 0 && d.config.Network.ChainID != chainID {
			return nil, fmt.Errorf("%w: %s expects chain %d but the RPC reports %d",
				domain.ErrNetworkMismatch, network, d.config.Network.ChainID, chainID)
		}
	}
	d.progress.OnProgress(ctx, ProgressEvent{Stage: "Connect", Message: fmt.Sprintf("Connected to chain %d", chainID)})

	if !domain.IsLocalChain(chainID) {
		ok, err := d.confirmer.Confirm(ctx, fmt.Sprintf("Deploy %s to %s (chain %d) from %s", what, network, chainID, account.Hex()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAborted
		}
	}

	d.log.Debug("deploy session", "account", account.Hex(), "chain_id", chainID, "network", network)
	return &DeploySession{Account: account, ChainID: chainID, Network: network}, nil
}

// Deploy sends one contract creation, waits for it, checks the code at the
// new address and records the deployment
func (d *Deployer) Deploy(ctx context.Context, session *DeploySession, req ContractDeployment) (*models.Deployment, error) {
	artifact, err := d.artifacts.GetArtifact(ctx, req.ContractName)
	if err != nil {
		return nil, err
	}
	if len(artifact.Bytecode) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyBytecode, artifact.FullyQualifiedName())
	}

	initCode := make([]byte, 0, len(artifact.Bytecode)+len(req.ConstructorArgs))
	initCode = append(initCode, artifact.Bytecode...)
	initCode = append(initCode, req.ConstructorArgs...)

	d.progress.OnProgress(ctx, ProgressEvent{Stage: "Deploy", Message: fmt.Sprintf("Sending %s", req.ContractName), Spinner: true})
	sent, err := d.chain.SendTransaction(ctx, TxRequest{Data: initCode, GasLimit: d.config.Deploy.GasLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", req.ContractName, err)
	}
	d.log.Info("deployment sent", "contract", req.ContractName, "tx", sent.Hash.Hex(), "nonce", sent.Nonce)

	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "Pending",
		Message: fmt.Sprintf("%s in %s", req.ContractName, sent.Hash.Hex()),
		Spinner: true,
	})
	receipt, err := d.chain.WaitReceipt(ctx, sent.Hash, d.config.Deploy.ReceiptTimeout, d.config.Deploy.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm %s: %w", req.ContractName, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s deployment %s", domain.ErrTxReverted, req.ContractName, sent.Hash.Hex())
	}

	address := receipt.ContractAddress
	if err := domain.ValidateDeployedAddress(address); err != nil {
		return nil, fmt.Errorf("%s deployment returned no contract address: %w", req.ContractName, err)
	}

	code, err := d.chain.CodeAt(ctx, address, receipt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to read code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s at %s", domain.ErrNoCode, req.ContractName, address.Hex())
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}
	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "Deploy",
		Message: fmt.Sprintf("%s deployed at %s (block %d)", req.ContractName, address.Hex(), block),
	})

	deployment := &models.Deployment{
		ID:           models.DeploymentID(req.Project, session.ChainID, req.ContractName, req.Label),
		Project:      req.Project,
		ChainID:      session.ChainID,
		Network:      session.Network,
		ContractName: req.ContractName,
		Label:        labelOrDefault(req.Label),
		Address:      address.Hex(),
		Deployer:     session.Account.Hex(),
		TxHash:       sent.Hash.Hex(),
		BlockNumber:  block,
		GasUsed:      receipt.GasUsed,
		CodeSize:     len(code),
		Artifact: models.ArtifactInfo{
			Path:         artifact.FullyQualifiedName(),
			BytecodeHash: artifact.BytecodeHash(),
		},
		Verification: models.VerificationInfo{Status: models.VerificationStatusUnverified},
	}
	if len(req.ConstructorArgs) > 0 {
		deployment.ConstructorArgs = hexutil.Encode(req.ConstructorArgs)
	}
	if info, err := d.artifacts.GetBuildInfo(ctx, artifact); err == nil {
		deployment.Artifact.CompilerVersion = info.SolcLongVersion
	} else {
		d.log.Debug("no build info", "contract", req.ContractName, "error", err)
	}

	if err := d.registry.SaveDeployment(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to record %s: %w", req.ContractName, err)
	}
	return deployment, nil
}

func labelOrDefault(label string) string {
	if label == "" {
		return "default"
	}
	return label
}
