package usecase

import (
	"context"
	"fmt"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// DeploymentCheck is the on-chain status of one registry record
type DeploymentCheck struct {
	Deployment *models.Deployment `json:"deployment"`
	HasCode    bool               `json:"hasCode"`
	TxFound    bool               `json:"txFound"`
	TxBlock    uint64             `json:"txBlock,omitempty"`
	Issues     []string           `json:"issues,omitempty"`
}

// Healthy reports whether code and transaction were both found
func (c DeploymentCheck) Healthy() bool {
	return c.HasCode && c.TxFound && len(c.Issues) == 0
}

// CheckDeploymentsResult lists the checks for the connected chain
type CheckDeploymentsResult struct {
	Network string            `json:"network"`
	ChainID uint64            `json:"chainId"`
	Checks  []DeploymentCheck `json:"checks"`
}

// Missing counts records that failed a check
func (r *CheckDeploymentsResult) Missing() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Healthy() {
			n++
		}
	}
	return n
}

// CheckDeployments confirms every record on the current chain against the node
type CheckDeployments struct {
	config   *config.RuntimeConfig
	registry DeploymentRepository
	checker  BlockchainChecker
	progress ProgressSink
}

// NewCheckDeployments creates a new CheckDeployments use case
func NewCheckDeployments(cfg *config.RuntimeConfig, registry DeploymentRepository, checker BlockchainChecker, progress ProgressSink) *CheckDeployments {
	return &CheckDeployments{config: cfg, registry: registry, checker: checker, progress: progress}
}

// Run executes the check
func (uc *CheckDeployments) Run(ctx context.Context) (*CheckDeploymentsResult, error) {
	network := uc.config.Network
	if network == nil || network.RPCURL == "" {
		return nil, fmt.Errorf("%w: set RPC_URL or --network", domain.ErrNoNetwork)
	}
	if err := uc.checker.Connect(ctx, network.RPCURL, network.ChainID); err != nil {
		return nil, err
	}

	deployments, err := uc.registry.ListDeployments(ctx, domain.DeploymentFilter{ChainID: network.ChainID})
	if err != nil {
		return nil, err
	}
	sortDeployments(deployments)

	result := &CheckDeploymentsResult{Network: network.Name, ChainID: network.ChainID}
	for i, dep := range deployments {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "Check",
			Current: i + 1,
			Total:   len(deployments),
			Message: dep.ShortID(),
			Spinner: true,
		})

		check := DeploymentCheck{Deployment: dep}
		exists, reason, err := uc.checker.CheckDeploymentExists(ctx, dep.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", dep.ID, err)
		}
		check.HasCode = exists
		if !exists {
			check.Issues = append(check.Issues, reason)
		}

		if dep.TxHash != "" {
			found, block, reason, err := uc.checker.CheckTransactionExists(ctx, dep.TxHash)
			if err != nil {
				return nil, fmt.Errorf("failed to check %s: %w", dep.TxHash, err)
			}
			check.TxFound, check.TxBlock = found, block
			if !found {
				check.Issues = append(check.Issues, reason)
			} else if dep.BlockNumber != 0 && block != dep.BlockNumber {
				check.Issues = append(check.Issues, fmt.Sprintf("mined in block %d, recorded as %d", block, dep.BlockNumber))
			}
		} else {
			check.Issues = append(check.Issues, "no transaction hash recorded")
		}
		result.Checks = append(result.Checks, check)
	}
	return result, nil
}
