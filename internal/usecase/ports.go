package usecase

import (
	"context"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
)

// TxRequest describes a transaction to sign and send from the configured account
type TxRequest struct {
	To       *common.Address // nil for contract creation
	Data     []byte
	GasLimit uint64 // 0 means estimate
}

// SentTx is a transaction accepted by the node
type SentTx struct {
	Hash  common.Hash
	From  common.Address
	Nonce uint64
	// ContractAddress is the CREATE address for deployments
	ContractAddress common.Address
}

// ChainClient is the JSON-RPC transport used by deploy, switch and gate flows
type ChainClient interface {
	// Account returns the signer address or domain.ErrMissingPrivateKey
	Account() (common.Address, error)
	ChainID(ctx context.Context) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	CodeAt(ctx context.Context, addr common.Address, block *big.Int) ([]byte, error)
	CallContract(ctx context.Context, to common.Address, data []byte, block *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, req TxRequest) (*SentTx, error)
	// WaitReceipt polls until the receipt is available or timeout elapses
	WaitReceipt(ctx context.Context, hash common.Hash, timeout, poll time.Duration) (*types.Receipt, error)
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
}

// ArtifactRepository loads compiled contracts from the toolchain output
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, name string) (*models.Artifact, error)
	GetBuildInfo(ctx context.Context, artifact *models.Artifact) (*models.BuildInfo, error)
}

// DeploymentRepository handles persistence of deployments
type DeploymentRepository interface {
	GetDeployment(ctx context.Context, id string) (*models.Deployment, error)
	GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	// LatestDeployment returns the most recently created match or domain.ErrNotFound
	LatestDeployment(ctx context.Context, filter domain.DeploymentFilter) (*models.Deployment, error)
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
	DeleteDeployment(ctx context.Context, id string) error
}

// VerificationRequest carries everything a source verifier needs
type VerificationRequest struct {
	Deployment *models.Deployment
	Artifact   *models.Artifact
	BuildInfo  *models.BuildInfo
}

// ContractVerifier handles contract verification
type ContractVerifier interface {
	Verify(ctx context.Context, req VerificationRequest) (*models.VerificationInfo, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Confirmer asks the operator before a transaction is sent to a live network
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// DeploymentSelector handles interactive selection of deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error)
}

// AnvilManager manages local anvil node instances
type AnvilManager interface {
	Start(ctx context.Context, instance *domain.AnvilInstance) error
	Stop(ctx context.Context, instance *domain.AnvilInstance) error
	GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error)
	StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
	// ProbeChainID asks the network's RPC for its chain ID
	ProbeChainID(ctx context.Context, network *config.Network) (uint64, error)
}

// BlockchainChecker checks on-chain state of contracts and transactions
type BlockchainChecker interface {
	Connect(ctx context.Context, rpcURL string, chainID uint64) error
	CheckDeploymentExists(ctx context.Context, address string) (exists bool, reason string, err error)
	CheckTransactionExists(ctx context.Context, txHash string) (exists bool, blockNumber uint64, reason string, err error)
}

// GateIndicator renders the gate's physical state: the center position and
// a per-step countdown
type GateIndicator interface {
	Center()
	Begin(pulse *domain.Pulse)
	Tick(pulse *domain.Pulse, remaining uint64)
}

// GateMetrics records listener counters
type GateMetrics interface {
	PulseReceived()
	PulseDropped()
	PulseDuplicate()
	PulseHandled(kind domain.PulseKind)
	SetQueueDepth(depth int)
	SetLastBlock(block uint64)
}

// MetricsServer exposes metrics over HTTP until ctx is done
type MetricsServer interface {
	Serve(ctx context.Context, addr string) error
}
