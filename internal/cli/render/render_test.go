package render

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

func init() {
	color.NoColor = true
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   *big.Int
		decimals uint8
		expected string
	}{
		{name: "nil", amount: nil, decimals: 18, expected: "-"},
		{name: "no decimals", amount: big.NewInt(42), decimals: 0, expected: "42"},
		{name: "whole tokens", amount: new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18)), decimals: 18, expected: "1000"},
		{name: "fraction", amount: big.NewInt(1500000), decimals: 6, expected: "1.5"},
		{name: "small fraction", amount: big.NewInt(5), decimals: 4, expected: "0.0005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatUnits(tt.amount, tt.decimals))
		})
	}
}

func TestVerificationStyle(t *testing.T) {
	assert.Equal(t, "✓ Verified", verificationStyle(models.VerificationStatusVerified))
	assert.Equal(t, "✗ Failed", verificationStyle(models.VerificationStatusFailed))
	assert.Equal(t, "? Unverified", verificationStyle(""))
}

func TestExplorerLink(t *testing.T) {
	assert.Equal(t, "https://sepolia.basescan.org/tx/0xabc", explorerLink("https://sepolia.basescan.org/", "tx", "0xabc"))
	assert.Empty(t, explorerLink("", "tx", "0xabc"))
}

func TestJSONRenderer(t *testing.T) {
	var out bytes.Buffer
	state, err := domain.ParseSwitchState("OFF")
	require.NoError(t, err)

	err = NewJSONRenderer[*usecase.ReadSwitchStateResult](&out).Render(&usecase.ReadSwitchStateResult{
		Address: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		Source:  usecase.AddressFromRegistry,
		Block:   "latest",
		State:   state,
	})
	require.NoError(t, err)

	// common.Address marshals as lowercase hex
	assert.JSONEq(t, `{
		"address": "0x5fbdb2315678afecb367f032d93f642f64180aa3",
		"source": "registry",
		"block": "latest",
		"state": {"raw": "OFF", "label": "OFF", "on": false}
	}`, out.String())
}

func TestSwitchDeploymentOutput(t *testing.T) {
	var out bytes.Buffer
	r := NewContractsRenderer(&out, "https://sepolia.basescan.org")

	err := r.RenderSwitchDeployment(&usecase.DeploySwitchResult{
		Deployment: &models.Deployment{
			ContractName: models.ContractSwitch,
			Network:      "base-sepolia",
			ChainID:      84532,
			Address:      "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			Deployer:     "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
			TxHash:       "0x01",
			BlockNumber:  7,
			GasUsed:      250000,
			CodeSize:     1234,
		},
		Owner: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		State: domain.SwitchState{Raw: "OFF", Label: domain.SwitchOff},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Switch deployed to 0x5FbDB2315678afecb367f032d93F642f64180aa3")
	assert.Contains(t, text, "base-sepolia (chain 84532)")
	assert.Contains(t, text, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	assert.Contains(t, text, "https://sepolia.basescan.org/address/0x5FbDB2315678afecb367f032d93F642f64180aa3")
	assert.Contains(t, text, "Code size")
	assert.Contains(t, text, "1234 bytes")
	assert.Contains(t, text, "OFF")
}

func TestDeploymentsRenderer(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewDeploymentsRenderer(&out).Render(&usecase.DeploymentListResult{}))
		assert.Equal(t, "No deployments found\n", out.String())
	})

	t.Run("grouped by chain", func(t *testing.T) {
		created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		deployments := []*models.Deployment{
			{ContractName: "Switch", Label: "default", Project: models.ProjectButton, ChainID: 31337, Network: "localhost", Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3", CreatedAt: created},
			{ContractName: "TokenGate", Label: "default", Project: models.ProjectTokenGate, ChainID: 84532, Network: "base-sepolia", Address: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512", CreatedAt: created,
				Verification: models.VerificationInfo{Status: models.VerificationStatusVerified}},
		}
		result := &usecase.DeploymentListResult{
			Deployments: deployments,
			Summary: usecase.DeploymentSummary{
				Total:          2,
				ByChain:        map[uint64]int{31337: 1, 84532: 1},
				ByContract:     map[string]int{"Switch": 1, "TokenGate": 1},
				ByVerification: map[models.VerificationStatus]int{models.VerificationStatusVerified: 1, models.VerificationStatusUnverified: 1},
			},
		}

		var out bytes.Buffer
		require.NoError(t, NewDeploymentsRenderer(&out).Render(result))

		text := out.String()
		assert.Less(t, bytes.Index(out.Bytes(), []byte("chain 31337")), bytes.Index(out.Bytes(), []byte("chain 84532")))
		assert.Contains(t, text, "Switch:default")
		assert.Contains(t, text, "2026-03-01 12:00:00")
		assert.Contains(t, text, "Total deployments: 2 across 2 chains (Switch 1, TokenGate 1)")
		assert.Contains(t, text, "Verified: 1/2")
	})
}

func TestConfigRenderer(t *testing.T) {
	var out bytes.Buffer
	err := NewConfigRenderer(&out).Render(&usecase.EffectiveConfig{
		ProjectRoot: "/work",
		DataDir:     "/work/.hwchain",
		PrivateKey:  "****abcd",
		Network:     &config.Network{Name: "localhost", ChainID: 31337, RPCURL: "http://127.0.0.1:8545"},
		Registry:    config.RegistrySettings{Backend: config.RegistryBackendJSON},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "# no project file")
	assert.Contains(t, text, "****abcd")
	assert.Contains(t, text, "chain_id: 31337")
	assert.Contains(t, text, "backend: json")
}

func TestGateSummary(t *testing.T) {
	var out bytes.Buffer
	err := NewGateRenderer(&out).Render(&usecase.ListenGateResult{
		SessionID:  "s-1",
		StartBlock: 10,
		LastBlock:  20,
		Received:   3,
		Handled:    2,
		Dropped:    1,
		Duration:   90 * time.Second,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Gate session s-1")
	assert.Contains(t, text, "10 → 20")
	assert.Contains(t, text, "3 received, 2 handled")
	assert.Contains(t, text, "1 pulses dropped")
	assert.NotContains(t, text, "abandoned")
}
