package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// ParseGwei converts a decimal gwei amount such as "1.5" to wei. Fractions
// below one wei are truncated.
func ParseGwei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty gwei amount")
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid gwei amount %q", s)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("negative gwei amount %q", s)
	}
	r.Mul(r, new(big.Rat).SetInt64(params.GWei))
	return new(big.Int).Quo(r.Num(), r.Denom()), nil
}

// FeeCaps returns the EIP-1559 fee cap and tip cap in wei
func FeeCaps(maxFeeGwei, maxPriorityFeeGwei string) (feeCap, tipCap *big.Int, err error) {
	feeCap, err = ParseGwei(maxFeeGwei)
	if err != nil {
		return nil, nil, fmt.Errorf("max_fee_gwei: %w", err)
	}
	tipCap, err = ParseGwei(maxPriorityFeeGwei)
	if err != nil {
		return nil, nil, fmt.Errorf("max_priority_fee_gwei: %w", err)
	}
	if tipCap.Cmp(feeCap) > 0 {
		return nil, nil, fmt.Errorf("max_priority_fee_gwei (%s) exceeds max_fee_gwei (%s)", maxPriorityFeeGwei, maxFeeGwei)
	}
	return feeCap, tipCap, nil
}
