package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// deploymentFinder resolves the identifiers accepted by show and verify:
// a full ID, an address, "Contract", "Contract:label" or "<chainId>/Contract[:label]"
type deploymentFinder struct {
	config   *config.RuntimeConfig
	registry DeploymentRepository
	selector DeploymentSelector
}

func (f *deploymentFinder) find(ctx context.Context, identifier string) (*models.Deployment, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("deployment identifier is required")
	}

	if common.IsHexAddress(identifier) {
		return f.findByAddress(ctx, identifier)
	}

	dep, err := f.registry.GetDeployment(ctx, identifier)
	if err == nil {
		return dep, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	all, err := f.registry.ListDeployments(ctx, domain.DeploymentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	matches := lo.Filter(all, func(d *models.Deployment, _ int) bool {
		return matchesIdentifier(d, identifier)
	})
	// prefer the connected chain when the name is ambiguous across chains
	if len(matches) > 1 && f.config.Network != nil && f.config.Network.ChainID != 0 {
		onChain := lo.Filter(matches, func(d *models.Deployment, _ int) bool {
			return d.ChainID == f.config.Network.ChainID
		})
		if len(onChain) > 0 {
			matches = onChain
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no deployment matching '%s'", domain.ErrNotFound, identifier)
	case 1:
		return matches[0], nil
	default:
		return f.selector.SelectDeployment(ctx, matches, fmt.Sprintf("Multiple deployments match '%s'", identifier))
	}
}

func (f *deploymentFinder) findByAddress(ctx context.Context, address string) (*models.Deployment, error) {
	if f.config.Network != nil && f.config.Network.ChainID != 0 {
		dep, err := f.registry.GetDeploymentByAddress(ctx, f.config.Network.ChainID, address)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return dep, err
		}
	}

	all, err := f.registry.ListDeployments(ctx, domain.DeploymentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	matches := lo.Filter(all, func(d *models.Deployment, _ int) bool {
		return strings.EqualFold(d.Address, address)
	})
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no deployment at %s", domain.ErrNotFound, address)
	case 1:
		return matches[0], nil
	default:
		return f.selector.SelectDeployment(ctx, matches, fmt.Sprintf("%s is recorded on several chains", address))
	}
}

// matchesIdentifier checks if a deployment matches a short identifier
func matchesIdentifier(d *models.Deployment, identifier string) bool {
	if strings.EqualFold(d.ContractName, identifier) || strings.EqualFold(d.ShortID(), identifier) {
		return true
	}

	chainPart, contractPart, ok := strings.Cut(identifier, "/")
	if !ok {
		return false
	}
	chainID, err := strconv.ParseUint(chainPart, 10, 64)
	if err != nil || chainID != d.ChainID {
		return false
	}
	return strings.EqualFold(d.ContractName, contractPart) || strings.EqualFold(d.ShortID(), contractPart)
}
