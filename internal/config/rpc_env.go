package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, base-sepolia -> BASE_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// ExpandRPCURL expands env references in a configured RPC URL. A value that
// is exactly ${VAR} must resolve to something, so a missing variable is
// reported instead of yielding an empty URL.
func ExpandRPCURL(networkName, raw string) (string, error) {
	if name, ok := DetectEnvVar(raw); ok {
		val, set := os.LookupEnv(name)
		if !set || strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("network %s: rpc_url references %s which is not set (add it to .env)", networkName, name)
		}
		return strings.TrimSpace(val), nil
	}
	return os.ExpandEnv(raw), nil
}

// LoadRawRPCEndpoints reads hwchain.toml and returns RPC endpoints without env var expansion.
func LoadRawRPCEndpoints(projectRoot string) (map[string]string, error) {
	file, _, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}
	endpoints := make(map[string]string, len(file.Networks))
	for name, entry := range file.Networks {
		endpoints[name] = entry.RPCURL
	}
	return endpoints, nil
}
