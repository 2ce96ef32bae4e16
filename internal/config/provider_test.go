package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
)

// isolateEnv blanks every variable the provider reads so the host
// environment cannot leak into assertions. Empty values are ignored by viper.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, names := range envAliases {
		for _, name := range names {
			t.Setenv(name, "")
		}
	}
	for _, name := range []string{"HWCHAIN_NETWORK", "HWCHAIN_REGISTRY_BACKEND", "HWCHAIN_ARTIFACTS_DIR"} {
		t.Setenv(name, "")
	}
}

func writeProjectFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0644))
}

func TestProviderDefaults(t *testing.T) {
	isolateEnv(t)
	root := t.TempDir()

	cfg, err := Provider(SetupViper(root, nil))
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, ".hwchain"), cfg.DataDir)
	assert.Empty(t, cfg.ConfigFile)
	assert.False(t, cfg.HasSigner())

	require.NotNil(t, cfg.Network)
	assert.Equal(t, "base-sepolia", cfg.Network.Name)
	assert.Equal(t, uint64(84532), cfg.Network.ChainID)
	assert.Equal(t, "https://sepolia.base.org", cfg.Network.RPCURL)

	assert.Equal(t, "1.5", cfg.Deploy.MaxFeeGwei)
	assert.Equal(t, "0.2", cfg.Deploy.MaxPriorityFeeGwei)
	assert.Equal(t, 180*time.Second, cfg.Deploy.ReceiptTimeout)
	assert.Equal(t, 2*time.Second, cfg.Deploy.PollInterval)
	assert.Zero(t, cfg.Deploy.GasLimit)

	assert.Equal(t, uint64(120000), cfg.Switch.GasLimit)
	assert.Equal(t, 5, cfg.Switch.ReadRetries)
	assert.Equal(t, 400*time.Millisecond, cfg.Switch.ReadDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Switch.StatePoll)
	assert.Equal(t, 20*time.Second, cfg.Switch.StateWait)

	assert.Equal(t, time.Second, cfg.Gate.PollInterval)
	assert.Equal(t, 256, cfg.Gate.QueueSize)
	assert.Equal(t, time.Second, cfg.Gate.Step)
	assert.Equal(t, 30*time.Second, cfg.Gate.DrainTimeout)

	assert.Equal(t, config.RegistryBackendJSON, cfg.Registry.Backend)
	assert.Equal(t, "https://api.etherscan.io/v2/api", cfg.Verify.APIURL)
	assert.Equal(t, 4.0, cfg.Verify.RatePerSecond)
}

func TestProviderEnvAliases(t *testing.T) {
	isolateEnv(t)
	root := t.TempDir()

	t.Setenv("PRIVATE_KEY", " 0xabc ")
	t.Setenv("ETHERSCAN_API_KEY", "scan-key")
	t.Setenv("CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	t.Setenv("GATE_ADDRESS", "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	t.Setenv("MAX_FEE_GWEI", "3")
	t.Setenv("HWCHAIN_SWITCH_READ_RETRIES", "9")

	cfg, err := Provider(SetupViper(root, nil))
	require.NoError(t, err)

	assert.Equal(t, "0xabc", cfg.PrivateKey)
	assert.True(t, cfg.HasSigner())
	assert.Equal(t, "scan-key", cfg.EtherscanAPIKey)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", cfg.Switch.Address)
	assert.Equal(t, "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512", cfg.Gate.Address)
	assert.Equal(t, "3", cfg.Deploy.MaxFeeGwei)
	assert.Equal(t, 9, cfg.Switch.ReadRetries)
}

func TestProviderProjectFile(t *testing.T) {
	isolateEnv(t)
	root := t.TempDir()
	t.Setenv("HWCHAIN_TEST_LAB_RPC", "http://10.0.0.5:8545")

	writeProjectFile(t, root, `
default_network = "lab"
artifacts_dir = "out"

[networks.lab]
rpc_url = "${HWCHAIN_TEST_LAB_RPC}"
chain_id = 1337

[networks.base-sepolia]
rpc_url = "https://base-sepolia.example.org"

[deploy]
gas_limit = 900000
max_fee_gwei = "2.5"

[switch]
read_delay = "1s"

[registry]
backend = "sqlite"
`)

	t.Run("file values", func(t *testing.T) {
		cfg, err := Provider(SetupViper(root, nil))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(root, ProjectFileName), cfg.ConfigFile)
		assert.Equal(t, filepath.Join(root, "out"), cfg.ArtifactsDir)
		assert.Equal(t, "lab", cfg.Network.Name)
		assert.Equal(t, uint64(1337), cfg.Network.ChainID)
		assert.Equal(t, "http://10.0.0.5:8545", cfg.Network.RPCURL)
		assert.Equal(t, uint64(900000), cfg.Deploy.GasLimit)
		assert.Equal(t, "2.5", cfg.Deploy.MaxFeeGwei)
		assert.Equal(t, time.Second, cfg.Switch.ReadDelay)
		assert.Equal(t, config.RegistryBackendSQLite, cfg.Registry.Backend)

		base := cfg.Networks["base-sepolia"]
		require.NotNil(t, base)
		assert.Equal(t, "https://base-sepolia.example.org", base.RPCURL)
		assert.Equal(t, uint64(84532), base.ChainID)
	})

	t.Run("env beats file", func(t *testing.T) {
		t.Setenv("MAX_FEE_GWEI", "4")
		cfg, err := Provider(SetupViper(root, nil))
		require.NoError(t, err)
		assert.Equal(t, "4", cfg.Deploy.MaxFeeGwei)
	})

	t.Run("explicit network beats default_network", func(t *testing.T) {
		v := SetupViper(root, nil)
		v.Set("network", "localhost")
		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Network.Name)
		assert.Equal(t, uint64(31337), cfg.Network.ChainID)
	})
}

func TestProviderNetworkResolution(t *testing.T) {
	t.Run("unknown network suggests close names", func(t *testing.T) {
		isolateEnv(t)
		v := SetupViper(t.TempDir(), nil)
		v.Set("network", "base-sepola")

		_, err := Provider(v)
		require.Error(t, err)

		var unknown *domain.UnknownNetworkError
		require.True(t, errors.As(err, &unknown))
		assert.Contains(t, unknown.Suggestions, "base-sepolia")
		assert.True(t, errors.Is(err, domain.ErrNoNetwork))
	})

	t.Run("rpc override on a builtin", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("RPC_URL", "http://127.0.0.1:9545")
		cfg, err := Provider(SetupViper(t.TempDir(), nil))
		require.NoError(t, err)
		assert.Equal(t, "base-sepolia", cfg.Network.Name)
		assert.Equal(t, "http://127.0.0.1:9545", cfg.Network.RPCURL)
		assert.Equal(t, uint64(84532), cfg.Network.ChainID)
	})

	t.Run("rpc override makes an unknown name custom", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("RPCURL", "http://127.0.0.1:9545")
		t.Setenv("CHAIN_ID", "4242")
		v := SetupViper(t.TempDir(), nil)
		v.Set("network", "bench")

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, "bench", cfg.Network.Name)
		assert.Equal(t, "http://127.0.0.1:9545", cfg.Network.RPCURL)
		assert.Equal(t, uint64(4242), cfg.Network.ChainID)
	})

	t.Run("unset env reference fails only when selected", func(t *testing.T) {
		isolateEnv(t)
		root := t.TempDir()
		writeProjectFile(t, root, `
[networks.private]
rpc_url = "${HWCHAIN_TEST_NEVER_SET_RPC}"
chain_id = 99
`)
		_, err := Provider(SetupViper(root, nil))
		require.NoError(t, err)

		v := SetupViper(root, nil)
		v.Set("network", "private")
		_, err = Provider(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HWCHAIN_TEST_NEVER_SET_RPC")
	})
}

func TestProviderRejectsUnknownRegistryBackend(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HWCHAIN_REGISTRY_BACKEND", "postgres")

	_, err := Provider(SetupViper(t.TempDir(), nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestSetupViperLoadsDotEnv(t *testing.T) {
	isolateEnv(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("HWCHAIN_TEST_DOTENV=from-dotenv\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env.local"), []byte("HWCHAIN_TEST_DOTENV_LOCAL=from-local\n"), 0644))
	t.Cleanup(func() {
		_ = os.Unsetenv("HWCHAIN_TEST_DOTENV")
		_ = os.Unsetenv("HWCHAIN_TEST_DOTENV_LOCAL")
	})

	SetupViper(root, nil)

	assert.Equal(t, "from-dotenv", os.Getenv("HWCHAIN_TEST_DOTENV"))
	assert.Equal(t, "from-local", os.Getenv("HWCHAIN_TEST_DOTENV_LOCAL"))
}

func TestFindProjectRoot(t *testing.T) {
	tests := []struct {
		name   string
		marker string
	}{
		{name: "project file", marker: ProjectFileName},
		{name: "hardhat js", marker: "hardhat.config.js"},
		{name: "hardhat ts", marker: "hardhat.config.ts"},
		{name: "foundry", marker: "foundry.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := filepath.EvalSymlinks(t.TempDir())
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(filepath.Join(root, tt.marker), nil, 0644))
			nested := filepath.Join(root, "scripts", "deep")
			require.NoError(t, os.MkdirAll(nested, 0755))
			t.Chdir(nested)

			got, err := FindProjectRoot()
			require.NoError(t, err)
			assert.Equal(t, root, got)
		})
	}
}

func TestProviderRejectsUnusableGateSettings(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantMsg string
	}{
		{name: "negative queue", env: "HWCHAIN_GATE_QUEUE_SIZE", value: "-1", wantMsg: "gate.queue_size must be at least 1"},
		{name: "zero queue", env: "HWCHAIN_GATE_QUEUE_SIZE", value: "0", wantMsg: "gate.queue_size must be at least 1"},
		{name: "zero poll", env: "HWCHAIN_GATE_POLL_INTERVAL", value: "0s", wantMsg: "gate.poll_interval must be positive"},
		{name: "negative step", env: "HWCHAIN_GATE_STEP", value: "-1s", wantMsg: "gate.step must be positive"},
		{name: "negative drain", env: "HWCHAIN_GATE_DRAIN_TIMEOUT", value: "-5s", wantMsg: "gate.drain_timeout must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(tt.env, tt.value)

			_, err := Provider(SetupViper(t.TempDir(), nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
