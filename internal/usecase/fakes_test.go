package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/bindings"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// first anvil dev account
var (
	deployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	stranger = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

var (
	switchABI = mustABI(bindings.SwitchMetaData.ParseABI())
	gateABI   = mustABI(bindings.TokenGateMetaData.ParseABI())
	tokenABI  = mustABI(bindings.TokenGateTokenMetaData.ParseABI())
)

func mustABI(parsed *abi.ABI, err error) *abi.ABI {
	if err != nil {
		panic(err)
	}
	return parsed
}

func packOutputs(parsed *abi.ABI, method string, values ...interface{}) []byte {
	out, err := parsed.Methods[method].Outputs.Pack(values...)
	if err != nil {
		panic(err)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig returns a config with short timings for a local chain
func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot: "/tmp/project",
		DataDir:     "/tmp/project/.hwchain",
		Network:     &config.Network{Name: "localhost", ChainID: 31337, RPCURL: "http://127.0.0.1:8545"},
		PrivateKey:  "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
		Deploy: config.DeploySettings{
			ReceiptTimeout: time.Second,
			PollInterval:   time.Millisecond,
		},
		Switch: config.SwitchSettings{
			GasLimit:    120000,
			ReadRetries: 3,
			ReadDelay:   time.Millisecond,
			StatePoll:   time.Millisecond,
			StateWait:   20 * time.Millisecond,
		},
		Gate: config.GateSettings{
			PollInterval: 2 * time.Millisecond,
			QueueSize:    8,
			Step:         time.Millisecond,
			DrainTimeout: time.Second,
		},
	}
}

// artifact bytecode is a single marker byte per contract
var markers = map[string]byte{
	models.ContractSwitch:         0xa1,
	models.ContractTokenGateToken: 0xa2,
	models.ContractTokenGate:      0xa3,
}

type fakeContract struct {
	name  string
	on    bool
	owner common.Address
	token common.Address
}

// fakeChain is an in-memory chain that understands the three contracts
type fakeChain struct {
	mu        sync.Mutex
	chainID   uint64
	block     uint64
	nonce     uint64
	noSigner  bool
	contracts map[common.Address]*fakeContract
	receipts  map[common.Hash]*types.Receipt
	sent      []usecase.TxRequest

	chainIDErr error
	blockErr   error
	sendErr    error
	// sendErrOn limits sendErr to creations of the named contract
	sendErrOn string
	// revert makes transactions creating or calling the named contract fail
	revert map[string]bool
	// noCode leaves new contracts without runtime code
	noCode bool
	// failCalls fails the next n eth_calls
	failCalls int
	// staleReads returns the previous switch state for the next n readState calls
	staleReads int
	prevOn     bool
	// gateToken overrides token() on every gate
	gateToken    *common.Address
	gateTokenErr error
	// owner and stateRaw override owner() and readState() on every switch
	owner    *common.Address
	stateRaw string

	logs     []types.Log
	logsErr  error
	queries  []ethereum.FilterQuery
	logCalls int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		chainID:   31337,
		block:     100,
		contracts: make(map[common.Address]*fakeContract),
		receipts:  make(map[common.Hash]*types.Receipt),
		revert:    make(map[string]bool),
	}
}

func (c *fakeChain) Account() (common.Address, error) {
	if c.noSigner {
		return common.Address{}, domain.ErrMissingPrivateKey
	}
	return deployer, nil
}

func (c *fakeChain) ChainID(ctx context.Context) (uint64, error) {
	return c.chainID, c.chainIDErr
}

func (c *fakeChain) BlockNumber(ctx context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.block, c.blockErr
}

func (c *fakeChain) setBlock(block uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block = block
}

func (c *fakeChain) CodeAt(ctx context.Context, addr common.Address, block *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.contracts[addr]; !ok || c.noCode {
		return nil, nil
	}
	return []byte{0x60, 0x80}, nil
}

func (c *fakeChain) deploy(addr common.Address, name string) *fakeContract {
	c.mu.Lock()
	defer c.mu.Unlock()
	contract := &fakeContract{name: name, owner: deployer}
	c.contracts[addr] = contract
	return contract
}

func (c *fakeChain) CallContract(ctx context.Context, to common.Address, data []byte, block *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failCalls > 0 {
		c.failCalls--
		return nil, fmt.Errorf("execution timeout")
	}
	contract, ok := c.contracts[to]
	if !ok {
		return nil, nil
	}

	switch contract.name {
	case models.ContractSwitch:
		method, err := switchABI.MethodById(data)
		if err != nil {
			return nil, err
		}
		switch method.Name {
		case "owner":
			if c.owner != nil {
				return packOutputs(switchABI, "owner", *c.owner), nil
			}
			return packOutputs(switchABI, "owner", contract.owner), nil
		case "readState":
			if c.stateRaw != "" {
				return packOutputs(switchABI, "readState", c.stateRaw), nil
			}
			on := contract.on
			if c.staleReads > 0 {
				c.staleReads--
				on = c.prevOn
			}
			return packOutputs(switchABI, "readState", domain.StateLabel(on)), nil
		}
	case models.ContractTokenGate:
		if c.gateTokenErr != nil {
			return nil, c.gateTokenErr
		}
		if c.gateToken != nil {
			return packOutputs(gateABI, "token", *c.gateToken), nil
		}
		return packOutputs(gateABI, "token", contract.token), nil
	case models.ContractTokenGateToken:
		method, err := tokenABI.MethodById(data)
		if err != nil {
			return nil, err
		}
		supply := new(big.Int).Mul(big.NewInt(1_000_000), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
		switch method.Name {
		case "name":
			return packOutputs(tokenABI, "name", "Gate Token"), nil
		case "symbol":
			return packOutputs(tokenABI, "symbol", "GATE"), nil
		case "decimals":
			return packOutputs(tokenABI, "decimals", uint8(18)), nil
		case "totalSupply", "balanceOf":
			return packOutputs(tokenABI, method.Name, supply), nil
		}
	}
	return nil, fmt.Errorf("unexpected call to %s", to.Hex())
}

func (c *fakeChain) SendTransaction(ctx context.Context, req usecase.TxRequest) (*usecase.SentTx, error) {
	if c.sendErr != nil && (c.sendErrOn == "" || (req.To == nil && contractFor(req.Data[0]) == c.sendErrOn)) {
		return nil, c.sendErr
	}
	c.mu.Lock()
	c.sent = append(c.sent, req)
	nonce := c.nonce
	c.nonce++
	c.block++
	block := c.block
	hash := crypto.Keccak256Hash(deployer.Bytes(), new(big.Int).SetUint64(nonce).Bytes())
	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(block),
		GasUsed:     21000,
	}
	c.receipts[hash] = receipt
	c.mu.Unlock()

	sent := &usecase.SentTx{Hash: hash, From: deployer, Nonce: nonce}
	if req.To == nil {
		name := contractFor(req.Data[0])
		addr := crypto.CreateAddress(deployer, nonce)
		sent.ContractAddress = addr
		receipt.ContractAddress = addr
		if c.revert[name] {
			receipt.Status = types.ReceiptStatusFailed
			return sent, nil
		}
		contract := c.deploy(addr, name)
		args := req.Data[1:]
		switch name {
		case models.ContractSwitch:
			contract.on = args[len(args)-1] == 1
		case models.ContractTokenGate:
			contract.token = common.BytesToAddress(args)
		}
		return sent, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	contract := c.contracts[*req.To]
	if contract == nil || c.revert[contract.name] {
		receipt.Status = types.ReceiptStatusFailed
		return sent, nil
	}
	c.prevOn = contract.on
	contract.on = !contract.on
	return sent, nil
}

func contractFor(marker byte) string {
	for name, m := range markers {
		if m == marker {
			return name
		}
	}
	return ""
}

func (c *fakeChain) WaitReceipt(ctx context.Context, hash common.Hash, timeout, poll time.Duration) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	receipt, ok := c.receipts[hash]
	if !ok {
		return nil, fmt.Errorf("timed out after %s waiting for %s", timeout, hash.Hex())
	}
	return receipt, nil
}

func (c *fakeChain) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logCalls++
	c.queries = append(c.queries, query)
	if c.logsErr != nil {
		return nil, c.logsErr
	}
	var out []types.Log
	for _, l := range c.logs {
		if l.BlockNumber >= query.FromBlock.Uint64() && l.BlockNumber <= query.ToBlock.Uint64() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (c *fakeChain) addLog(l types.Log) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, l)
}

func (c *fakeChain) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

// fakeArtifacts serves one-byte creation code per contract
type fakeArtifacts struct {
	empty map[string]bool
}

func (a *fakeArtifacts) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	for contract, marker := range markers {
		if name != contract && name != "contracts/"+contract+".sol:"+contract {
			continue
		}
		artifact := &models.Artifact{Name: contract, SourceName: "contracts/" + contract + ".sol"}
		if !a.empty[contract] {
			artifact.Bytecode = []byte{marker}
		}
		return artifact, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrContractNotFound, name)
}

func (a *fakeArtifacts) GetBuildInfo(ctx context.Context, artifact *models.Artifact) (*models.BuildInfo, error) {
	return &models.BuildInfo{SolcLongVersion: "0.8.24+commit.e11b9ed9", Input: []byte(`{"language":"Solidity"}`)}, nil
}

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	args := m.Called(ctx, chainID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) LatestDeployment(ctx context.Context, filter domain.DeploymentFilter) (*models.Deployment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	args := m.Called(ctx, deployment)
	return args.Error(0)
}

func (m *MockDeploymentRepository) DeleteDeployment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingRegistry accepts every save and keeps the records in order
func recordingRegistry() (*MockDeploymentRepository, *[]*models.Deployment) {
	saved := &[]*models.Deployment{}
	registry := new(MockDeploymentRepository)
	registry.On("SaveDeployment", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*saved = append(*saved, args.Get(1).(*models.Deployment))
		}).
		Return(nil)
	return registry, saved
}

// MockProgressSink records progress events
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) stages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stages []string
	for _, e := range m.events {
		if len(stages) == 0 || stages[len(stages)-1] != e.Stage {
			stages = append(stages, e.Stage)
		}
	}
	return stages
}

type fakeConfirmer struct {
	answer bool
	err    error
	asked  []string
}

func (c *fakeConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.asked = append(c.asked, prompt)
	return c.answer, c.err
}

type fakeSelector struct {
	pick    int
	offered []*models.Deployment
}

func (s *fakeSelector) SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error) {
	s.offered = deployments
	return deployments[s.pick], nil
}
