package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hwchain/hwchain-cli/internal/domain/config"
)

// DataDirName holds the registry and local node state
const DataDirName = ".hwchain"

// envAliases binds config keys to the unprefixed variables used by the
// contract toolchain's own .env files. Listed names are tried in order.
var envAliases = map[string][]string{
	"private_key":                  {"HWCHAIN_PRIVATE_KEY", "PRIVATE_KEY"},
	"etherscan_api_key":            {"HWCHAIN_ETHERSCAN_API_KEY", "ETHERSCAN_API_KEY"},
	"rpc_url":                      {"HWCHAIN_RPC_URL", "RPC_URL", "RPCURL"},
	"chain_id":                     {"HWCHAIN_CHAIN_ID", "CHAIN_ID"},
	"deploy.max_fee_gwei":          {"HWCHAIN_DEPLOY_MAX_FEE_GWEI", "MAX_FEE_GWEI"},
	"deploy.max_priority_fee_gwei": {"HWCHAIN_DEPLOY_MAX_PRIORITY_FEE_GWEI", "MAX_PRIORITY_FEE_GWEI"},
	"switch.address":               {"HWCHAIN_SWITCH_ADDRESS", "CONTRACT_ADDRESS"},
	"gate.address":                 {"HWCHAIN_GATE_ADDRESS", "GATE_ADDRESS"},
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	file, _, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:     projectRoot,
		DataDir:         filepath.Join(projectRoot, DataDirName),
		PrivateKey:      strings.TrimSpace(v.GetString("private_key")),
		EtherscanAPIKey: strings.TrimSpace(v.GetString("etherscan_api_key")),
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		JSON:            v.GetBool("json"),
		Timeout:         v.GetDuration("timeout"),
		Deploy: config.DeploySettings{
			GasLimit:           v.GetUint64("deploy.gas_limit"),
			MaxFeeGwei:         v.GetString("deploy.max_fee_gwei"),
			MaxPriorityFeeGwei: v.GetString("deploy.max_priority_fee_gwei"),
			ReceiptTimeout:     v.GetDuration("deploy.receipt_timeout"),
			PollInterval:       v.GetDuration("deploy.poll_interval"),
			Label:              v.GetString("deploy.label"),
		},
		Switch: config.SwitchSettings{
			Address:     strings.TrimSpace(v.GetString("switch.address")),
			GasLimit:    v.GetUint64("switch.gas_limit"),
			ReadRetries: v.GetInt("switch.read_retries"),
			ReadDelay:   v.GetDuration("switch.read_delay"),
			StatePoll:   v.GetDuration("switch.state_poll"),
			StateWait:   v.GetDuration("switch.state_wait"),
		},
		Gate: config.GateSettings{
			Address:      strings.TrimSpace(v.GetString("gate.address")),
			PollInterval: v.GetDuration("gate.poll_interval"),
			QueueSize:    v.GetInt("gate.queue_size"),
			Step:         v.GetDuration("gate.step"),
			DrainTimeout: v.GetDuration("gate.drain_timeout"),
			MetricsAddr:  v.GetString("gate.metrics_addr"),
		},
		Registry: config.RegistrySettings{
			Backend: config.RegistryBackend(strings.ToLower(v.GetString("registry.backend"))),
		},
		Verify: config.VerifySettings{
			APIURL:        v.GetString("verify.api_url"),
			PollInterval:  v.GetDuration("verify.poll_interval"),
			Timeout:       v.GetDuration("verify.timeout"),
			RatePerSecond: v.GetFloat64("verify.rate_per_second"),
		},
	}

	switch cfg.Registry.Backend {
	case config.RegistryBackendJSON, config.RegistryBackendSQLite:
	default:
		return nil, fmt.Errorf("unknown registry backend %q (expected json or sqlite)", cfg.Registry.Backend)
	}
	if err := validateSettings(cfg); err != nil {
		return nil, err
	}

	if dir := v.GetString("artifacts_dir"); dir != "" {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(projectRoot, dir)
		}
		cfg.ArtifactsDir = dir
	}

	if _, err := os.Stat(filepath.Join(projectRoot, ProjectFileName)); err == nil {
		cfg.ConfigFile = filepath.Join(projectRoot, ProjectFileName)
	}

	networks, expandErrs := buildNetworks(file)
	cfg.Networks = networks

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = file.DefaultNetwork
	}
	if networkName == "" {
		networkName = DefaultNetwork
	}

	network, err := resolveNetwork(
		networkName,
		networks,
		expandErrs,
		strings.TrimSpace(v.GetString("rpc_url")),
		v.GetUint64("chain_id"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
	}
	cfg.Network = network

	return cfg, nil
}

// validateSettings rejects values the deploy and gate loops cannot run with
func validateSettings(cfg *config.RuntimeConfig) error {
	positive := []struct {
		key   string
		value time.Duration
	}{
		{"deploy.poll_interval", cfg.Deploy.PollInterval},
		{"gate.poll_interval", cfg.Gate.PollInterval},
		{"gate.step", cfg.Gate.Step},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", p.key, p.value)
		}
	}
	if cfg.Gate.QueueSize < 1 {
		return fmt.Errorf("gate.queue_size must be at least 1, got %d", cfg.Gate.QueueSize)
	}
	if cfg.Gate.DrainTimeout < 0 {
		return fmt.Errorf("gate.drain_timeout must not be negative, got %s", cfg.Gate.DrainTimeout)
	}
	return nil
}

// FindProjectRoot walks up from the current directory to the nearest
// directory holding hwchain.toml or a contract toolchain config. Outside of
// any project the working directory is used.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance. cmd may be nil.
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	loadEnvFiles(projectRoot)

	// Set up environment variables
	v.SetEnvPrefix("HWCHAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	setDefaults(v, projectRoot)

	// hwchain.toml sits below env and flags
	if _, raw, err := loadProjectFile(projectRoot); err == nil && raw != nil {
		if err := v.MergeConfigMap(raw); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to merge %s: %v\n", ProjectFileName, err)
		}
	}

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func setDefaults(v *viper.Viper, projectRoot string) {
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)

	v.SetDefault("deploy.gas_limit", 0)
	v.SetDefault("deploy.max_fee_gwei", "1.5")
	v.SetDefault("deploy.max_priority_fee_gwei", "0.2")
	v.SetDefault("deploy.receipt_timeout", "180s")
	v.SetDefault("deploy.poll_interval", "2s")
	v.SetDefault("deploy.label", "")

	v.SetDefault("switch.gas_limit", 120000)
	v.SetDefault("switch.read_retries", 5)
	v.SetDefault("switch.read_delay", "400ms")
	v.SetDefault("switch.state_poll", "500ms")
	v.SetDefault("switch.state_wait", "20s")

	v.SetDefault("gate.poll_interval", "1s")
	v.SetDefault("gate.queue_size", 256)
	v.SetDefault("gate.step", "1s")
	v.SetDefault("gate.drain_timeout", "30s")

	v.SetDefault("registry.backend", string(config.RegistryBackendJSON))

	v.SetDefault("verify.api_url", "https://api.etherscan.io/v2/api")
	v.SetDefault("verify.poll_interval", "5s")
	v.SetDefault("verify.timeout", "2m")
	v.SetDefault("verify.rate_per_second", 4.0)
}
