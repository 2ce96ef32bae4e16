package network

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	internalconfig "github.com/hwchain/hwchain-cli/internal/config"
	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// probeTimeout bounds a single chain ID probe
const probeTimeout = 5 * time.Second

// Resolver answers network questions from the resolved runtime configuration
type Resolver struct {
	networks map[string]*config.Network
	current  *config.Network
	log      *slog.Logger
}

// NewResolver creates a new network resolver
func NewResolver(cfg *config.RuntimeConfig, log *slog.Logger) *Resolver {
	return &Resolver{
		networks: cfg.Networks,
		current:  cfg.Network,
		log:      log.With("component", "networks"),
	}
}

// GetNetworks returns the sorted names of every configured network
func (r *Resolver) GetNetworks(ctx context.Context) []string {
	return internalconfig.NetworkNames(r.networks)
}

// ResolveNetwork returns the named network. An empty name is the network
// selected for this invocation.
func (r *Resolver) ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error) {
	if networkName == "" {
		if r.current == nil {
			return nil, domain.ErrNoNetwork
		}
		resolved := *r.current
		return &resolved, nil
	}
	if r.current != nil && r.current.Name == networkName {
		resolved := *r.current
		return &resolved, nil
	}
	return internalconfig.LookupNetwork(r.networks, networkName)
}

// ProbeChainID asks the network's RPC for its chain ID
func (r *Resolver) ProbeChainID(ctx context.Context, network *config.Network) (uint64, error) {
	if network.RPCURL == "" {
		return 0, fmt.Errorf("%w: %s has no rpc_url", domain.ErrNoNetwork, network.Name)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID from %s: %w", network.Name, err)
	}
	r.log.Debug("probed chain id", "network", network.Name, "chain_id", chainID)
	return chainID.Uint64(), nil
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*Resolver)(nil)
