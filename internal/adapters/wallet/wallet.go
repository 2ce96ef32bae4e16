package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
)

// Wallet holds the single hex private key the CLI signs with. The key is
// parsed on first use so commands that never sign do not fail on a bad key.
type Wallet struct {
	raw string

	once    sync.Once
	key     *ecdsa.PrivateKey
	address common.Address
	err     error
}

// NewWallet creates a wallet from the configured PRIVATE_KEY
func NewWallet(cfg *config.RuntimeConfig) *Wallet {
	return &Wallet{raw: cfg.PrivateKey}
}

// Key returns the parsed key and its address
func (w *Wallet) Key() (*ecdsa.PrivateKey, common.Address, error) {
	w.once.Do(func() {
		if strings.TrimSpace(w.raw) == "" {
			w.err = domain.ErrMissingPrivateKey
			return
		}
		w.key, w.err = ParsePrivateKey(w.raw)
		if w.err == nil {
			w.address = crypto.PubkeyToAddress(w.key.PublicKey)
		}
	})
	return w.key, w.address, w.err
}

// Address returns the signer address or domain.ErrMissingPrivateKey
func (w *Wallet) Address() (common.Address, error) {
	_, addr, err := w.Key()
	return addr, err
}

// ParsePrivateKey accepts a 32-byte hex key with or without 0x prefix
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		// never echo the key itself
		return nil, fmt.Errorf("invalid PRIVATE_KEY: %w", err)
	}
	return key, nil
}
