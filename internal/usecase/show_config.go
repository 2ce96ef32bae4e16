package usecase

import (
	"context"

	"github.com/hwchain/hwchain-cli/internal/domain/config"
)

// EffectiveConfig is the rendered view of the runtime configuration with
// secrets masked
type EffectiveConfig struct {
	ProjectRoot  string                     `json:"projectRoot" yaml:"project_root"`
	ConfigFile   string                     `json:"configFile,omitempty" yaml:"config_file,omitempty"`
	DataDir      string                     `json:"dataDir" yaml:"data_dir"`
	ArtifactsDir string                     `json:"artifactsDir,omitempty" yaml:"artifacts_dir,omitempty"`
	Network      *config.Network            `json:"network,omitempty" yaml:"network,omitempty"`
	PrivateKey   string                     `json:"privateKey" yaml:"private_key"`
	Account      string                     `json:"account,omitempty" yaml:"account,omitempty"`
	EtherscanKey string                     `json:"etherscanApiKey" yaml:"etherscan_api_key"`
	Deploy       config.DeploySettings      `json:"deploy" yaml:"deploy"`
	Switch       config.SwitchSettings      `json:"switch" yaml:"switch"`
	Gate         config.GateSettings        `json:"gate" yaml:"gate"`
	Registry     config.RegistrySettings    `json:"registry" yaml:"registry"`
	Verify       config.VerifySettings      `json:"verify" yaml:"verify"`
	Networks     map[string]*config.Network `json:"networks" yaml:"networks"`
}

// ShowConfig is a use case for showing the effective configuration
type ShowConfig struct {
	config *config.RuntimeConfig
	chain  ChainClient
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, chain ChainClient) *ShowConfig {
	return &ShowConfig{config: cfg, chain: chain}
}

// Run builds the effective configuration
func (uc *ShowConfig) Run(ctx context.Context) (*EffectiveConfig, error) {
	c := uc.config
	out := &EffectiveConfig{
		ProjectRoot:  c.ProjectRoot,
		ConfigFile:   c.ConfigFile,
		DataDir:      c.DataDir,
		ArtifactsDir: c.ArtifactsDir,
		Network:      c.Network,
		PrivateKey:   maskSecret(c.PrivateKey),
		EtherscanKey: maskSecret(c.EtherscanAPIKey),
		Deploy:       c.Deploy,
		Switch:       c.Switch,
		Gate:         c.Gate,
		Registry:     c.Registry,
		Verify:       c.Verify,
		Networks:     c.Networks,
	}
	if c.HasSigner() && uc.chain != nil {
		if account, err := uc.chain.Account(); err == nil {
			out.Account = account.Hex()
		}
	}
	return out, nil
}

// maskSecret keeps the last four characters of a secret
func maskSecret(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 8:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
