package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEnvVar(t *testing.T) {
	tests := []struct {
		name       string
		rawValue   string
		wantEnvVar string
		wantIsVar  bool
	}{
		{
			name:       "simple env var",
			rawValue:   "${SEPOLIA_RPC_URL}",
			wantEnvVar: "SEPOLIA_RPC_URL",
			wantIsVar:  true,
		},
		{
			name:       "env var with underscores",
			rawValue:   "${BASE_SEPOLIA_RPC_URL}",
			wantEnvVar: "BASE_SEPOLIA_RPC_URL",
			wantIsVar:  true,
		},
		{
			name:       "hardcoded URL",
			rawValue:   "https://sepolia.base.org",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "env var with path suffix",
			rawValue:   "${MY_VAR}/path",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "empty string",
			rawValue:   "",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "localhost URL",
			rawValue:   "http://localhost:8545",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "env var starting with underscore",
			rawValue:   "${_MY_VAR}",
			wantEnvVar: "_MY_VAR",
			wantIsVar:  true,
		},
		{
			name:       "partial env var syntax - missing closing brace",
			rawValue:   "${UNCLOSED",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "dollar without braces",
			rawValue:   "$MY_VAR",
			wantEnvVar: "",
			wantIsVar:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envVar, isVar := DetectEnvVar(tt.rawValue)
			assert.Equal(t, tt.wantEnvVar, envVar)
			assert.Equal(t, tt.wantIsVar, isVar)
		})
	}
}

func TestGenerateEnvVarName(t *testing.T) {
	tests := []struct {
		name        string
		networkName string
		want        string
	}{
		{
			name:        "simple network",
			networkName: "sepolia",
			want:        "SEPOLIA_RPC_URL",
		},
		{
			name:        "network with dash",
			networkName: "base-sepolia",
			want:        "BASE_SEPOLIA_RPC_URL",
		},
		{
			name:        "network with number and dash",
			networkName: "anvil-31337",
			want:        "ANVIL_31337_RPC_URL",
		},
		{
			name:        "already uppercase",
			networkName: "MAINNET",
			want:        "MAINNET_RPC_URL",
		},
		{
			name:        "mixed case with dash",
			networkName: "Base-Sepolia",
			want:        "BASE_SEPOLIA_RPC_URL",
		},
		{
			name:        "network with dot",
			networkName: "polygon.zkevm",
			want:        "POLYGON_ZKEVM_RPC_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateEnvVarName(tt.networkName)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandRPCURL(t *testing.T) {
	t.Setenv("HWCHAIN_TEST_RPC", "https://rpc.example.org")
	t.Setenv("HWCHAIN_TEST_EMPTY", "")

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr string
	}{
		{name: "literal url", raw: "https://sepolia.base.org", want: "https://sepolia.base.org"},
		{name: "pure reference", raw: "${HWCHAIN_TEST_RPC}", want: "https://rpc.example.org"},
		{name: "embedded reference", raw: "${HWCHAIN_TEST_RPC}/v2", want: "https://rpc.example.org/v2"},
		{name: "unset reference", raw: "${HWCHAIN_TEST_UNSET_RPC}", wantErr: "HWCHAIN_TEST_UNSET_RPC which is not set"},
		{name: "empty reference", raw: "${HWCHAIN_TEST_EMPTY}", wantErr: "HWCHAIN_TEST_EMPTY which is not set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandRPCURL("custom", tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadRawRPCEndpoints(t *testing.T) {
	tmpDir := t.TempDir()
	content := `[networks.sepolia]
rpc_url = "${SEPOLIA_RPC_URL}"

[networks.base-sepolia]
rpc_url = "https://sepolia.base.org"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ProjectFileName), []byte(content), 0644))

	endpoints, err := LoadRawRPCEndpoints(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "${SEPOLIA_RPC_URL}", endpoints["sepolia"])
	assert.Equal(t, "https://sepolia.base.org", endpoints["base-sepolia"])

	t.Run("missing file", func(t *testing.T) {
		endpoints, err := LoadRawRPCEndpoints(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, endpoints)
	})
}
