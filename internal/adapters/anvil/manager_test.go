package anvil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := &config.RuntimeConfig{DataDir: t.TempDir()}
	m := NewManager(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.tailPeriod = 10 * time.Millisecond
	return m
}

func TestBuildAnvilArgs(t *testing.T) {
	tests := []struct {
		name     string
		instance *domain.AnvilInstance
		want     []string
	}{
		{
			name:     "basic",
			instance: &domain.AnvilInstance{Port: "8545"},
			want:     []string{"--port", "8545", "--host", "0.0.0.0"},
		},
		{
			name:     "with chain id",
			instance: &domain.AnvilInstance{Port: "9000", ChainID: "31337"},
			want:     []string{"--port", "9000", "--host", "0.0.0.0", "--chain-id", "31337"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildAnvilArgs(tt.instance))
		})
	}
}

func TestSetFilePaths(t *testing.T) {
	m := newTestManager(t)

	t.Run("default instance", func(t *testing.T) {
		instance := &domain.AnvilInstance{}
		m.setFilePaths(instance)
		assert.Equal(t, "anvil", instance.Name)
		assert.Equal(t, DefaultAnvilPort, instance.Port)
		assert.Equal(t, filepath.Join(m.dataDir, "anvil.pid"), instance.PidFile)
		assert.Equal(t, filepath.Join(m.dataDir, "anvil.log"), instance.LogFile)
	})

	t.Run("named instance", func(t *testing.T) {
		instance := &domain.AnvilInstance{Name: "lab", Port: "9000"}
		m.setFilePaths(instance)
		assert.Equal(t, filepath.Join(m.dataDir, "lab.pid"), instance.PidFile)
		assert.Equal(t, filepath.Join(m.dataDir, "lab.log"), instance.LogFile)
	})

	t.Run("preset paths preserved", func(t *testing.T) {
		instance := &domain.AnvilInstance{Name: "lab", PidFile: "/custom/my.pid", LogFile: "/custom/my.log"}
		m.setFilePaths(instance)
		assert.Equal(t, "/custom/my.pid", instance.PidFile)
		assert.Equal(t, "/custom/my.log", instance.LogFile)
	})
}

// newMockRPCServer answers eth_blockNumber
func newMockRPCServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if req.Method == "eth_blockNumber" {
			resp["result"] = "0x2a"
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func serverPort(server *httptest.Server) string {
	parts := strings.Split(server.URL, ":")
	return parts[len(parts)-1]
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("not running", func(t *testing.T) {
		m := newTestManager(t)
		status, err := m.GetStatus(ctx, &domain.AnvilInstance{})
		require.NoError(t, err)
		assert.False(t, status.Running)
		assert.Equal(t, filepath.Join(m.dataDir, "anvil.log"), status.LogFile)
	})

	t.Run("running and healthy", func(t *testing.T) {
		m := newTestManager(t)
		server := newMockRPCServer(t)
		instance := &domain.AnvilInstance{Name: "lab", Port: serverPort(server)}
		m.setFilePaths(instance)
		// the test process stands in for a live anvil PID
		require.NoError(t, os.WriteFile(instance.PidFile, []byte(strconv.Itoa(os.Getpid())), 0644))

		status, err := m.GetStatus(ctx, instance)
		require.NoError(t, err)
		assert.True(t, status.Running)
		assert.Equal(t, os.Getpid(), status.PID)
		assert.True(t, status.RPCHealthy)
		assert.Equal(t, uint64(42), status.BlockNumber)
		assert.Equal(t, "http://127.0.0.1:"+instance.Port, status.RPCURL)
	})
}

func TestStopRemovesStalePidFile(t *testing.T) {
	m := newTestManager(t)
	instance := &domain.AnvilInstance{Name: "stale"}
	m.setFilePaths(instance)
	require.NoError(t, os.WriteFile(instance.PidFile, []byte("not-a-pid"), 0644))

	require.NoError(t, m.Stop(context.Background(), instance))
	_, err := os.Stat(instance.PidFile)
	assert.True(t, os.IsNotExist(err))
}

func TestStreamLogs(t *testing.T) {
	m := newTestManager(t)
	instance := &domain.AnvilInstance{}
	m.setFilePaths(instance)

	t.Run("missing log file", func(t *testing.T) {
		err := m.StreamLogs(context.Background(), instance, io.Discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log file does not exist")
	})

	t.Run("copies existing content", func(t *testing.T) {
		require.NoError(t, os.WriteFile(instance.LogFile, []byte("Listening on 0.0.0.0:8545\n"), 0644))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		var buf bytes.Buffer
		require.NoError(t, m.StreamLogs(ctx, instance, &buf))
		assert.Equal(t, "Listening on 0.0.0.0:8545\n", buf.String())
	})
}
