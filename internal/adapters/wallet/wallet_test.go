package wallet

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
)

// first anvil dev account
const (
	anvilKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	anvilAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestParsePrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "with prefix", in: anvilKey},
		{name: "without prefix", in: anvilKey[2:]},
		{name: "surrounding whitespace", in: "  " + anvilKey + "\n"},
		{name: "upper prefix", in: "0X" + anvilKey[2:]},
		{name: "too short", in: "0xabc", wantErr: true},
		{name: "not hex", in: "0x" + string(make([]byte, 64)), wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParsePrivateKey(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid PRIVATE_KEY")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, key)
		})
	}
}

func TestWalletAddress(t *testing.T) {
	t.Run("derives address", func(t *testing.T) {
		w := NewWallet(&config.RuntimeConfig{PrivateKey: anvilKey})
		addr, err := w.Address()
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(anvilAddress), addr)
	})

	t.Run("missing key", func(t *testing.T) {
		w := NewWallet(&config.RuntimeConfig{})
		_, err := w.Address()
		assert.True(t, errors.Is(err, domain.ErrMissingPrivateKey))
	})

	t.Run("bad key does not leak", func(t *testing.T) {
		w := NewWallet(&config.RuntimeConfig{PrivateKey: "0xdeadbeef"})
		_, err := w.Address()
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "deadbeef")
	})
}
