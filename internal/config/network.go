package config

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
)

// DefaultNetwork is used when neither --network nor default_network is set
const DefaultNetwork = "base-sepolia"

// builtinNetworks are always available; hwchain.toml entries with the same
// name override individual fields
var builtinNetworks = map[string]config.Network{
	"base-sepolia": {ChainID: 84532, RPCURL: "https://sepolia.base.org", ExplorerURL: "https://sepolia.basescan.org"},
	"base":         {ChainID: 8453, RPCURL: "https://mainnet.base.org", ExplorerURL: "https://basescan.org"},
	"sepolia":      {ChainID: 11155111, RPCURL: "https://ethereum-sepolia-rpc.publicnode.com", ExplorerURL: "https://sepolia.etherscan.io"},
	"mainnet":      {ChainID: 1, RPCURL: "https://ethereum-rpc.publicnode.com", ExplorerURL: "https://etherscan.io"},
	"localhost":    {ChainID: 31337, RPCURL: "http://127.0.0.1:8545"},
	"anvil":        {ChainID: 31337, RPCURL: "http://127.0.0.1:8545"},
}

// buildNetworks merges the builtin table with the project's [networks]
// section. RPC URLs whose env reference cannot be expanded are kept out of
// the table and reported per network, so only selecting them fails.
func buildNetworks(file *config.ProjectFile) (map[string]*config.Network, map[string]error) {
	networks := make(map[string]*config.Network, len(builtinNetworks)+len(file.Networks))
	expandErrs := map[string]error{}

	for name, n := range builtinNetworks {
		n.Name = name
		networks[name] = &n
	}

	for name, entry := range file.Networks {
		n, ok := networks[name]
		if !ok {
			n = &config.Network{Name: name}
			networks[name] = n
		}
		if entry.RPCURL != "" {
			url, err := ExpandRPCURL(name, entry.RPCURL)
			if err != nil {
				expandErrs[name] = err
			} else {
				n.RPCURL = url
			}
		}
		if entry.ChainID != 0 {
			n.ChainID = entry.ChainID
		}
		if entry.ExplorerURL != "" {
			n.ExplorerURL = entry.ExplorerURL
		}
	}

	return networks, expandErrs
}

// resolveNetwork picks the named network and applies the RPC_URL / CHAIN_ID
// overrides. An unknown name is accepted only when an RPC URL override is
// present, which makes it a custom network.
func resolveNetwork(
	name string,
	networks map[string]*config.Network,
	expandErrs map[string]error,
	rpcOverride string,
	chainOverride uint64,
) (*config.Network, error) {
	n, ok := networks[name]
	if !ok {
		if rpcOverride == "" {
			return nil, &domain.UnknownNetworkError{
				Name:        name,
				Suggestions: suggestNetworks(name, networks),
			}
		}
		return &config.Network{Name: name, RPCURL: rpcOverride, ChainID: chainOverride}, nil
	}

	if err, failed := expandErrs[name]; failed && rpcOverride == "" {
		return nil, err
	}

	resolved := *n
	if rpcOverride != "" {
		resolved.RPCURL = rpcOverride
	}
	if chainOverride != 0 {
		resolved.ChainID = chainOverride
	}
	return &resolved, nil
}

// suggestNetworks returns up to three known names that fuzzy-match name
func suggestNetworks(name string, networks map[string]*config.Network) []string {
	names := NetworkNames(networks)
	matches := fuzzy.Find(name, names)

	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// NetworkNames returns the sorted names of a network table
func NetworkNames(networks map[string]*config.Network) []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupNetwork returns a copy of the named network from a resolved table,
// or an UnknownNetworkError carrying close matches
func LookupNetwork(networks map[string]*config.Network, name string) (*config.Network, error) {
	n, ok := networks[name]
	if !ok {
		return nil, &domain.UnknownNetworkError{Name: name, Suggestions: suggestNetworks(name, networks)}
	}
	resolved := *n
	return &resolved, nil
}
