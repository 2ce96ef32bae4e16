package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PulseKind is how the gate reacts to a pulse
type PulseKind string

const (
	PulseCenter    PulseKind = "center"
	PulseCountdown PulseKind = "countdown"
)

// Pulse is a decoded GatePulse event
type Pulse struct {
	ID          string         `json:"id"`
	Value       *big.Int       `json:"value"`
	From        common.Address `json:"from"`
	Amount      *big.Int       `json:"amount"`
	Timestamp   *big.Int       `json:"timestamp"`
	BlockNumber uint64         `json:"blockNumber"`
	TxHash      common.Hash    `json:"txHash"`
	LogIndex    uint           `json:"logIndex"`
}

// Key identifies a log uniquely across polls
func (p Pulse) Key() string {
	return fmt.Sprintf("%s:%d", p.TxHash.Hex(), p.LogIndex)
}

// Kind maps the pulse value onto a gate action
func (p Pulse) Kind() PulseKind {
	if p.Value == nil || p.Value.Sign() <= 0 {
		return PulseCenter
	}
	return PulseCountdown
}

// Seconds returns the countdown length, saturating at the int range
func (p Pulse) Seconds() int {
	if p.Kind() == PulseCenter {
		return 0
	}
	if !p.Value.IsInt64() || p.Value.Int64() > int64(^uint32(0)>>1) {
		return int(^uint32(0) >> 1)
	}
	return int(p.Value.Int64())
}
