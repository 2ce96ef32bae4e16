package adapters

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/hwchain/hwchain-cli/internal/adapters/anvil"
	"github.com/hwchain/hwchain-cli/internal/adapters/blockchain"
	"github.com/hwchain/hwchain-cli/internal/adapters/chain"
	"github.com/hwchain/hwchain-cli/internal/adapters/indicator"
	"github.com/hwchain/hwchain-cli/internal/adapters/interactive"
	"github.com/hwchain/hwchain-cli/internal/adapters/metrics"
	"github.com/hwchain/hwchain-cli/internal/adapters/network"
	"github.com/hwchain/hwchain-cli/internal/adapters/progress"
	"github.com/hwchain/hwchain-cli/internal/adapters/repository/contracts"
	"github.com/hwchain/hwchain-cli/internal/adapters/repository/deployments"
	"github.com/hwchain/hwchain-cli/internal/adapters/verification"
	"github.com/hwchain/hwchain-cli/internal/adapters/wallet"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// ProvideChainClient provides the JSON-RPC client and closes it on cleanup
func ProvideChainClient(cfg *config.RuntimeConfig, w *wallet.Wallet, log *slog.Logger) (*chain.Client, func()) {
	client := chain.NewClient(cfg, w, log)
	return client, func() { _ = client.Close() }
}

// ProvideRegistry opens the configured deployment registry backend
func ProvideRegistry(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.DeploymentRepository, func(), error) {
	return deployments.Open(context.Background(), cfg, log)
}

// ProvideIndicator renders the gate on stdout, or on stderr when stdout
// carries JSON
func ProvideIndicator(cfg *config.RuntimeConfig) *indicator.Console {
	return indicator.NewConsole(indicatorOutput(cfg))
}

func indicatorOutput(cfg *config.RuntimeConfig) io.Writer {
	if cfg.JSON {
		return os.Stderr
	}
	return os.Stdout
}

// ChainSet provides the signer and the RPC transport
var ChainSet = wire.NewSet(
	wallet.NewWallet,
	ProvideChainClient,
	wire.Bind(new(usecase.ChainClient), new(*chain.Client)),
)

// RepositorySet provides artifact and deployment storage
var RepositorySet = wire.NewSet(
	contracts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Repository)),

	ProvideRegistry,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),

	interactive.NewConfirmAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmAdapter)),

	progress.NewProgressSink,
)

// NetworkSet provides network resolution and the local node manager
var NetworkSet = wire.NewSet(
	network.NewResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*network.Resolver)),

	anvil.NewManager,
	wire.Bind(new(usecase.AnvilManager), new(*anvil.Manager)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.BlockchainChecker), new(*blockchain.CheckerAdapter)),

	verification.NewEtherscanVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.EtherscanVerifier)),
)

// GateSet provides the gate indicator and its metrics
var GateSet = wire.NewSet(
	ProvideIndicator,
	wire.Bind(new(usecase.GateIndicator), new(*indicator.Console)),

	metrics.NewGateCollector,
	wire.Bind(new(usecase.GateMetrics), new(*metrics.GateCollector)),

	metrics.NewServer,
	wire.Bind(new(usecase.MetricsServer), new(*metrics.Server)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ChainSet,
	RepositorySet,
	InteractiveSet,
	NetworkSet,
	BlockchainSet,
	GateSet,
)
