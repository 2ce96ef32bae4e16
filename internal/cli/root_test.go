package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwchain/hwchain-cli/internal/app"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/logging"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

func failingInit(t *testing.T, called *bool) initializer {
	return func(v *viper.Viper) (*app.App, func(), error) {
		*called = true
		return nil, nil, errors.New("init failed")
	}
}

func TestCommandTree(t *testing.T) {
	root := NewRootCmd()

	paths := []string{
		"deploy switch",
		"deploy tokengate",
		"switch state",
		"switch toggle",
		"gate listen",
		"deployments list",
		"deployments show",
		"deployments check",
		"verify",
		"networks",
		"config show",
		"dev anvil start",
		"dev anvil stop",
		"dev anvil restart",
		"dev anvil status",
		"dev anvil logs",
		"version",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			cmd, _, err := root.Find(strings.Fields(path))
			require.NoError(t, err)
			assert.Equal(t, strings.Fields(path)[len(strings.Fields(path))-1], cmd.Name())
		})
	}

	for _, name := range []string{"network", "debug", "non-interactive", "json"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "n", root.PersistentFlags().Lookup("network").Shorthand)
}

func TestLongRunningCommands(t *testing.T) {
	root := NewRootCmd()

	tests := []struct {
		path     string
		expected bool
	}{
		{path: "gate listen", expected: true},
		{path: "dev anvil logs", expected: true},
		{path: "dev anvil start", expected: false},
		{path: "switch toggle", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cmd, _, err := root.Find(strings.Fields(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd.Annotations[longRunningAnnotation] != "")
		})
	}
}

func TestSkipsApp(t *testing.T) {
	root := NewRootCmd()

	tests := []struct {
		path     string
		expected bool
	}{
		{path: "version", expected: true},
		{path: "deploy", expected: true},
		{path: "dev anvil", expected: true},
		{path: "deploy switch", expected: false},
		{path: "networks", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cmd, _, err := root.Find(strings.Fields(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, skipsApp(cmd))
		})
	}
}

func TestVersionRunsWithoutApp(t *testing.T) {
	called := false
	root := newRootCmd(failingInit(t, &called))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.False(t, called)
	assert.Equal(t, "hwchain version dev\n", out.String())
}

func TestInitErrorIsReturned(t *testing.T) {
	t.Chdir(t.TempDir())
	called := false
	root := newRootCmd(failingInit(t, &called))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"networks", "--network", "localhost"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, called)
	assert.Equal(t, "init failed", err.Error())
}

func TestBindGlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected map[string]string
		unset    []string
	}{
		{
			name:     "changed flags are bound",
			args:     []string{"-n", "localhost", "--json", "--debug", "--non-interactive"},
			expected: map[string]string{"network": "localhost", "json": "true", "debug": "true", "non_interactive": "true"},
		},
		{
			name:  "unchanged flags are left to env and defaults",
			args:  []string{},
			unset: []string{"network", "json", "debug", "non_interactive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
			cmd.Flags().StringP("network", "n", "", "")
			cmd.Flags().Bool("debug", false, "")
			cmd.Flags().Bool("non-interactive", false, "")
			cmd.Flags().Bool("json", false, "")
			require.NoError(t, cmd.ParseFlags(tt.args))

			v := viper.New()
			bindGlobalFlags(v, cmd)

			for key, want := range tt.expected {
				assert.Equal(t, want, v.GetString(key), key)
			}
			for _, key := range tt.unset {
				assert.False(t, v.IsSet(key), key)
			}
		})
	}
}

func TestGetAppWithoutApp(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(context.Background())

	_, err := getApp(cmd)
	assert.EqualError(t, err, "app not initialized")
}

// rejectingChain is a local node that refuses every transaction
type rejectingChain struct {
	usecase.ChainClient
}

func (rejectingChain) Account() (common.Address, error) {
	return common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), nil
}

func (rejectingChain) ChainID(context.Context) (uint64, error) { return 31337, nil }

func (rejectingChain) SendTransaction(context.Context, usecase.TxRequest) (*usecase.SentTx, error) {
	return nil, errors.New("insufficient funds for gas * price + value")
}

type oneByteArtifacts struct {
	usecase.ArtifactRepository
}

func (oneByteArtifacts) GetArtifact(_ context.Context, name string) (*models.Artifact, error) {
	return &models.Artifact{Name: name, Bytecode: []byte{0x60}}, nil
}

func TestFailedDeployPrintsNothing(t *testing.T) {
	for _, args := range [][]string{
		{"deploy", "switch"},
		{"deploy", "switch", "--json"},
		{"deploy", "tokengate"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			t.Chdir(t.TempDir())

			cfg := &config.RuntimeConfig{Network: &config.Network{Name: "localhost", ChainID: 31337, RPCURL: "http://127.0.0.1:8545"}}
			log := logging.NewLogger(cfg)
			chain := rejectingChain{}
			deployer := usecase.NewDeployer(cfg, chain, oneByteArtifacts{}, nil, nil, usecase.NopProgress{}, log)
			a := &app.App{
				Config:          cfg,
				Log:             log,
				DeploySwitch:    usecase.NewDeploySwitch(cfg, deployer, chain, usecase.NopProgress{}, log),
				DeployTokenGate: usecase.NewDeployTokenGate(cfg, deployer, chain, usecase.NopProgress{}, log),
			}

			root := newRootCmd(func(*viper.Viper) (*app.App, func(), error) { return a, func() {}, nil })
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(args)

			err := root.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "insufficient funds")
			assert.Empty(t, out.String())
		})
	}
}
