package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/bindings"
)

// RetryPolicy spaces repeated eth_call reads
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// contractReader decodes view calls through the generated bindings
type contractReader struct {
	chain  ChainClient
	policy RetryPolicy
	log    *slog.Logger
}

// once returns a reader that makes a single attempt per call
func (r *contractReader) once() *contractReader {
	return &contractReader{chain: r.chain, policy: RetryPolicy{Attempts: 1}, log: r.log}
}

// call runs fn until it succeeds or the attempts are used up
func (r *contractReader) call(ctx context.Context, what string, fn func() error) error {
	attempts := max(r.policy.Attempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		r.log.Debug("read failed", "call", what, "attempt", attempt, "error", err)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.policy.Delay):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", what, attempts, err)
}

// ReadState returns the switch state at block (nil for latest)
func (r *contractReader) ReadState(ctx context.Context, addr common.Address, block *big.Int) (domain.SwitchState, error) {
	sw := bindings.NewSwitch()
	var state domain.SwitchState
	err := r.call(ctx, "readState()", func() error {
		out, err := r.chain.CallContract(ctx, addr, sw.PackReadState(), block)
		if err != nil {
			return err
		}
		raw, err := sw.UnpackReadState(out)
		if err != nil {
			return err
		}
		state, err = domain.ParseSwitchState(raw)
		return err
	})
	return state, err
}

// Owner returns the switch owner
func (r *contractReader) Owner(ctx context.Context, addr common.Address) (common.Address, error) {
	sw := bindings.NewSwitch()
	var owner common.Address
	err := r.call(ctx, "owner()", func() error {
		out, err := r.chain.CallContract(ctx, addr, sw.PackOwner(), nil)
		if err != nil {
			return err
		}
		owner, err = sw.UnpackOwner(out)
		return err
	})
	return owner, err
}

// GateToken returns the token a gate was built with
func (r *contractReader) GateToken(ctx context.Context, gate common.Address) (common.Address, error) {
	tg := bindings.NewTokenGate()
	var token common.Address
	err := r.call(ctx, "token()", func() error {
		out, err := r.chain.CallContract(ctx, gate, tg.PackToken(), nil)
		if err != nil {
			return err
		}
		token, err = tg.UnpackToken(out)
		return err
	})
	return token, err
}

// TokenInfo is the ERC-20 metadata of the gate token
type TokenInfo struct {
	Name            string   `json:"name"`
	Symbol          string   `json:"symbol"`
	Decimals        uint8    `json:"decimals"`
	TotalSupply     *big.Int `json:"totalSupply"`
	DeployerBalance *big.Int `json:"deployerBalance"`
}

// TokenInfo reads the token metadata and the holder's balance in one pass
func (r *contractReader) TokenInfo(ctx context.Context, token, holder common.Address) (*TokenInfo, error) {
	erc20 := bindings.NewTokenGateToken()
	info := &TokenInfo{}

	err := r.call(ctx, "token metadata", func() error {
		var err error
		if info.Name, err = callDecode(ctx, r.chain, token, erc20.PackName(), erc20.UnpackName); err != nil {
			return err
		}
		if info.Symbol, err = callDecode(ctx, r.chain, token, erc20.PackSymbol(), erc20.UnpackSymbol); err != nil {
			return err
		}
		if info.Decimals, err = callDecode(ctx, r.chain, token, erc20.PackDecimals(), erc20.UnpackDecimals); err != nil {
			return err
		}
		if info.TotalSupply, err = callDecode(ctx, r.chain, token, erc20.PackTotalSupply(), erc20.UnpackTotalSupply); err != nil {
			return err
		}
		info.DeployerBalance, err = callDecode(ctx, r.chain, token, erc20.PackBalanceOf(holder), erc20.UnpackBalanceOf)
		return err
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// callDecode runs one eth_call at latest and unpacks the result
func callDecode[T any](ctx context.Context, chain ChainClient, to common.Address, data []byte, unpack func([]byte) (T, error)) (T, error) {
	out, err := chain.CallContract(ctx, to, data, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return unpack(out)
}
