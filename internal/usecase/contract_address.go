package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// AddressSource tells where a contract address came from
type AddressSource string

const (
	AddressFromFlag     AddressSource = "flag"
	AddressFromConfig   AddressSource = "config"
	AddressFromRegistry AddressSource = "registry"
)

// contractLocator finds the contract a command talks to: an explicit address,
// then the configured one, then the newest matching registry record on the
// connected chain
type contractLocator struct {
	chain    ChainClient
	registry DeploymentRepository
}

func (l *contractLocator) locate(
	ctx context.Context,
	explicit, configured string,
	project models.Project,
	contractName string,
) (common.Address, AddressSource, error) {
	if explicit != "" {
		addr, err := domain.ParseAddress(explicit)
		return addr, AddressFromFlag, err
	}
	if configured != "" {
		addr, err := domain.ParseAddress(configured)
		return addr, AddressFromConfig, err
	}

	chainID, err := l.chain.ChainID(ctx)
	if err != nil {
		return common.Address{}, "", fmt.Errorf("failed to get chain ID: %w", err)
	}
	dep, err := l.registry.LatestDeployment(ctx, domain.DeploymentFilter{
		Project:      project,
		ChainID:      chainID,
		ContractName: contractName,
	})
	if errors.Is(err, domain.ErrNotFound) {
		return common.Address{}, "", fmt.Errorf("%w: no %s given, configured or recorded on chain %d",
			domain.ErrNoContractAddress, contractName, chainID)
	}
	if err != nil {
		return common.Address{}, "", err
	}
	addr, err := domain.ParseAddress(dep.Address)
	return addr, AddressFromRegistry, err
}
