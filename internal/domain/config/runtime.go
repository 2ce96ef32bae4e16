package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	DataDir      string
	ArtifactsDir string

	// Network is the selected network, nil if none resolves
	Network  *Network
	Networks map[string]*Network

	// Credentials, never rendered
	PrivateKey      string
	EtherscanAPIKey string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration

	Deploy   DeploySettings
	Switch   SwitchSettings
	Gate     GateSettings
	Registry RegistrySettings
	Verify   VerifySettings

	// ConfigFile is the project file that was loaded, empty if none
	ConfigFile string
}

// Network represents network configuration
type Network struct {
	Name        string `json:"name" yaml:"name"`
	ChainID     uint64 `json:"chainId" yaml:"chain_id"`
	RPCURL      string `json:"rpcUrl" yaml:"rpc_url"`
	ExplorerURL string `json:"explorerUrl,omitempty" yaml:"explorer_url,omitempty"`
}

// DeploySettings controls how transactions are built and awaited
type DeploySettings struct {
	GasLimit           uint64        `yaml:"gas_limit"` // 0 means estimate
	MaxFeeGwei         string        `yaml:"max_fee_gwei"`
	MaxPriorityFeeGwei string        `yaml:"max_priority_fee_gwei"`
	ReceiptTimeout     time.Duration `yaml:"receipt_timeout"`
	PollInterval       time.Duration `yaml:"poll_interval"`
	Label              string        `yaml:"label"`
}

// SwitchSettings mirrors the button client's tuning
type SwitchSettings struct {
	Address     string        `yaml:"address,omitempty"`
	GasLimit    uint64        `yaml:"gas_limit"`
	ReadRetries int           `yaml:"read_retries"`
	ReadDelay   time.Duration `yaml:"read_delay"`
	StatePoll   time.Duration `yaml:"state_poll"`
	StateWait   time.Duration `yaml:"state_wait"`
}

// GateSettings mirrors the gate controller's tuning
type GateSettings struct {
	Address      string        `yaml:"address,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval"`
	QueueSize    int           `yaml:"queue_size"`
	Step         time.Duration `yaml:"step"`
	DrainTimeout time.Duration `yaml:"drain_timeout"`
	MetricsAddr  string        `yaml:"metrics_addr,omitempty"`
}

// RegistryBackend selects the deployment registry storage
type RegistryBackend string

const (
	RegistryBackendJSON   RegistryBackend = "json"
	RegistryBackendSQLite RegistryBackend = "sqlite"
)

// RegistrySettings selects the registry storage
type RegistrySettings struct {
	Backend RegistryBackend `yaml:"backend"`
}

// VerifySettings configures the Etherscan client
type VerifySettings struct {
	APIURL        string        `yaml:"api_url"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
}

// HasSigner reports whether a private key is configured
func (c *RuntimeConfig) HasSigner() bool {
	return c.PrivateKey != ""
}
