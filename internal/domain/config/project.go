package config

// ProjectFile is the typed view of hwchain.toml
//
//	default_network = "base-sepolia"
//	artifacts_dir = "artifacts"
//
//	[networks.base-sepolia]
//	rpc_url = "${BASE_SEPOLIA_RPC_URL}"
//	chain_id = 84532
//
//	[deploy]
//	max_fee_gwei = "1.5"
//
// Scalar sections ([deploy], [switch], [gate], [registry], [verify]) are read
// through viper; only networks need the typed form.
type ProjectFile struct {
	DefaultNetwork string                  `toml:"default_network"`
	ArtifactsDir   string                  `toml:"artifacts_dir"`
	Networks       map[string]NetworkEntry `toml:"networks"`
}

// NetworkEntry is a [networks.<name>] table
type NetworkEntry struct {
	RPCURL      string `toml:"rpc_url"`
	ChainID     uint64 `toml:"chain_id"`
	ExplorerURL string `toml:"explorer_url"`
}
