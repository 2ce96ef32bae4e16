package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"
	"github.com/lmittmann/w3/w3types"

	"github.com/hwchain/hwchain-cli/internal/adapters/wallet"
	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// gasMarginPercent is added on top of eth_estimateGas results
const gasMarginPercent = 20

// Client implements usecase.ChainClient over a w3 JSON-RPC connection.
// The connection is dialed on first use.
type Client struct {
	network *config.Network
	deploy  config.DeploySettings
	wallet  *wallet.Wallet
	log     *slog.Logger

	mu      sync.Mutex
	client  *w3.Client
	chainID uint64
}

// NewClient creates a client for the selected network
func NewClient(cfg *config.RuntimeConfig, w *wallet.Wallet, log *slog.Logger) *Client {
	return &Client{
		network: cfg.Network,
		deploy:  cfg.Deploy,
		wallet:  w,
		log:     log.With("component", "chain"),
	}
}

// Ensure Client implements the interface
var _ usecase.ChainClient = (*Client)(nil)

func (c *Client) conn() (*w3.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.network == nil || c.network.RPCURL == "" {
		return nil, fmt.Errorf("%w: no RPC URL configured", domain.ErrNoNetwork)
	}

	client, err := w3.Dial(c.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	c.log.Debug("connected", "network", c.network.Name, "rpc", c.network.RPCURL)
	c.client = client
	return client, nil
}

func (c *Client) call(ctx context.Context, calls ...w3types.RPCCaller) error {
	client, err := c.conn()
	if err != nil {
		return err
	}
	return client.CallCtx(ctx, calls...)
}

// Close releases the RPC connection if one was opened
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Account returns the signer address
func (c *Client) Account() (common.Address, error) {
	return c.wallet.Address()
}

// ChainID returns the node's chain ID, cached after the first call
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	c.mu.Lock()
	cached := c.chainID
	c.mu.Unlock()
	if cached != 0 {
		return cached, nil
	}

	var id uint64
	if err := c.call(ctx, eth.ChainID().Returns(&id)); err != nil {
		return 0, fmt.Errorf("get chain id: %w", err)
	}

	c.mu.Lock()
	c.chainID = id
	c.mu.Unlock()
	return id, nil
}

// BlockNumber returns the latest block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var n *big.Int
	if err := c.call(ctx, eth.BlockNumber().Returns(&n)); err != nil {
		return 0, fmt.Errorf("get block number: %w", err)
	}
	return n.Uint64(), nil
}

// CodeAt returns the runtime code at addr; a nil block means latest
func (c *Client) CodeAt(ctx context.Context, addr common.Address, block *big.Int) ([]byte, error) {
	var code []byte
	if err := c.call(ctx, eth.Code(addr, block).Returns(&code)); err != nil {
		return nil, fmt.Errorf("get code at %s: %w", addr.Hex(), err)
	}
	return code, nil
}

// CallContract runs an eth_call; the signer is used as sender when configured
func (c *Client) CallContract(ctx context.Context, to common.Address, data []byte, block *big.Int) ([]byte, error) {
	msg := &w3types.Message{To: &to, Input: data}
	if from, err := c.wallet.Address(); err == nil {
		msg.From = from
	}

	var out []byte
	if err := c.call(ctx, eth.Call(msg, block, nil).Returns(&out)); err != nil {
		return nil, fmt.Errorf("call %s: %w", to.Hex(), err)
	}
	return out, nil
}

// SendTransaction signs and sends an EIP-1559 transaction using the
// pending nonce
func (c *Client) SendTransaction(ctx context.Context, req usecase.TxRequest) (*usecase.SentTx, error) {
	key, from, err := c.wallet.Key()
	if err != nil {
		return nil, err
	}

	feeCap, tipCap, err := FeeCaps(c.deploy.MaxFeeGwei, c.deploy.MaxPriorityFeeGwei)
	if err != nil {
		return nil, err
	}

	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	var nonce uint64
	pending := big.NewInt(int64(rpc.PendingBlockNumber))
	if err := c.call(ctx, eth.Nonce(from, pending).Returns(&nonce)); err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}

	gas := req.GasLimit
	if gas == 0 {
		msg := &w3types.Message{From: from, To: req.To, Input: req.Data}
		var estimate uint64
		if err := c.call(ctx, eth.EstimateGas(msg, nil).Returns(&estimate)); err != nil {
			return nil, fmt.Errorf("estimate gas: %w", err)
		}
		gas = estimate + estimate*gasMarginPercent/100
	}

	// EIP-1559 only
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   new(big.Int).SetUint64(chainID),
		Nonce:     nonce,
		GasFeeCap: feeCap,
		GasTipCap: tipCap,
		Gas:       gas,
		To:        req.To,
		Data:      req.Data,
	})

	signedTx, err := types.SignTx(tx, types.NewLondonSigner(new(big.Int).SetUint64(chainID)), key)
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}

	var hash common.Hash
	if err := c.call(ctx, eth.SendTx(signedTx).Returns(&hash)); err != nil {
		return nil, fmt.Errorf("send tx: %w", err)
	}

	sent := &usecase.SentTx{
		Hash:  signedTx.Hash(),
		From:  from,
		Nonce: nonce,
	}
	if req.To == nil {
		sent.ContractAddress = crypto.CreateAddress(from, nonce)
	}

	c.log.Debug("transaction sent", "hash", sent.Hash.Hex(), "nonce", nonce, "gas", gas)
	return sent, nil
}

// WaitReceipt polls eth_getTransactionReceipt every poll until the receipt
// shows up or timeout elapses
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash, timeout, poll time.Duration) (*types.Receipt, error) {
	if poll <= 0 {
		poll = 2 * time.Second
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var lastErr error
	for {
		var receipt *types.Receipt
		err := c.call(waitCtx, eth.TxReceipt(hash).Returns(&receipt))
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil {
			lastErr = err
			c.log.Debug("receipt not available", "hash", hash.Hex(), "error", err)
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if lastErr != nil {
				return nil, fmt.Errorf("timed out after %s waiting for receipt of %s: %w", timeout, hash.Hex(), lastErr)
			}
			return nil, fmt.Errorf("timed out after %s waiting for receipt of %s", timeout, hash.Hex())
		case <-ticker.C:
		}
	}
}

// FilterLogs runs eth_getLogs
func (c *Client) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	if err := c.call(ctx, eth.Logs(query).Returns(&logs)); err != nil {
		return nil, fmt.Errorf("get logs: %w", err)
	}
	return logs, nil
}
