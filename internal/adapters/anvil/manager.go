package anvil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

const (
	DefaultAnvilName = "anvil"
	DefaultAnvilPort = "8545"
)

// Manager runs local anvil nodes as detached processes tracked by PID files
type Manager struct {
	dataDir    string
	binary     string
	log        *slog.Logger
	readyWait  time.Duration
	stopWait   time.Duration
	tailPeriod time.Duration
}

// NewManager creates a new anvil manager keeping its files under the data dir
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	return &Manager{
		dataDir:    cfg.DataDir,
		binary:     "anvil",
		log:        log.With("component", "anvil"),
		readyWait:  5 * time.Second,
		stopWait:   5 * time.Second,
		tailPeriod: 250 * time.Millisecond,
	}
}

// setFilePaths fills in defaults for name, port and the PID/log files
func (m *Manager) setFilePaths(instance *domain.AnvilInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = DefaultAnvilName
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultAnvilPort
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(m.dataDir, fmt.Sprintf("%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.dataDir, fmt.Sprintf("%s.log", instance.Name))
	}
}

func buildAnvilArgs(instance *domain.AnvilInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	return args
}

func rpcURL(instance *domain.AnvilInstance) string {
	return fmt.Sprintf("http://127.0.0.1:%s", instance.Port)
}

// Start launches anvil and waits until its RPC answers
func (m *Manager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	if pid, running := m.running(instance); running {
		return fmt.Errorf("anvil '%s' is already running (PID %d, PID file %s)", instance.Name, pid, instance.PidFile)
	}

	if err := os.MkdirAll(filepath.Dir(instance.PidFile), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(instance.PidFile), err)
	}
	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildAnvilArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}
	if err := os.WriteFile(instance.PidFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0644); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	m.log.Debug("started anvil", "name", instance.Name, "pid", cmd.Process.Pid, "port", instance.Port)

	if err := m.waitReady(ctx, instance); err != nil {
		return fmt.Errorf("anvil '%s' did not become ready (see %s): %w", instance.Name, instance.LogFile, err)
	}
	return nil
}

func (m *Manager) waitReady(ctx context.Context, instance *domain.AnvilInstance) error {
	ctx, cancel := context.WithTimeout(ctx, m.readyWait)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		if _, lastErr = blockNumber(ctx, rpcURL(instance)); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return lastErr
		case <-ticker.C:
		}
	}
}

// Stop sends SIGTERM and waits for the process to exit, then removes the PID
// file. Stopping an instance that is not running is not an error.
func (m *Manager) Stop(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)
	pid, running := m.running(instance)
	if !running {
		m.log.Debug("anvil not running", "name", instance.Name)
		return removePidFile(instance)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	deadline := time.Now().Add(m.stopWait)
	for processAlive(pid) {
		if time.Now().After(deadline) {
			// Force kill if SIGTERM didn't work in time
			_ = process.Kill()
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	return removePidFile(instance)
}

// GetStatus reports whether the instance runs and whether its RPC answers
func (m *Manager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	m.setFilePaths(instance)
	status := &domain.AnvilStatus{LogFile: instance.LogFile}

	pid, running := m.running(instance)
	if !running {
		return status, nil
	}
	status.Running = true
	status.PID = pid
	status.RPCURL = rpcURL(instance)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	block, err := blockNumber(ctx, status.RPCURL)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.BlockNumber = block
	return status, nil
}

// StreamLogs copies the log file to writer and follows it until ctx is done
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error {
	m.setFilePaths(instance)
	f, err := os.Open(instance.LogFile)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("log file does not exist: %s", instance.LogFile)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	ticker := time.NewTicker(m.tailPeriod)
	defer ticker.Stop()
	for {
		if _, err := io.Copy(writer, f); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// running reads the PID file and probes the process with signal 0
func (m *Manager) running(instance *domain.AnvilInstance) (int, bool) {
	data, err := os.ReadFile(instance.PidFile)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		m.log.Warn("invalid PID file", "path", instance.PidFile)
		return 0, false
	}
	return pid, processAlive(pid)
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func removePidFile(instance *domain.AnvilInstance) error {
	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

func blockNumber(ctx context.Context, url string) (uint64, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return 0, err
	}
	defer client.Close()
	return client.BlockNumber(ctx)
}

// Ensure the adapter implements the interface
var _ usecase.AnvilManager = (*Manager)(nil)
