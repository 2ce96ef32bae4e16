package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/hwchain/hwchain-cli/internal/domain"
)

// AnvilOperation names a dev node action
type AnvilOperation string

const (
	AnvilStart   AnvilOperation = "start"
	AnvilStop    AnvilOperation = "stop"
	AnvilRestart AnvilOperation = "restart"
	AnvilStatus  AnvilOperation = "status"
	AnvilLogs    AnvilOperation = "logs"
)

// ManageAnvil handles local anvil node operations
type ManageAnvil struct {
	anvil    AnvilManager
	progress ProgressSink
}

// NewManageAnvil creates a new anvil management use case
func NewManageAnvil(anvil AnvilManager, progress ProgressSink) *ManageAnvil {
	return &ManageAnvil{
		anvil:    anvil,
		progress: progress,
	}
}

// ManageAnvilParams contains parameters for anvil operations
type ManageAnvilParams struct {
	Operation AnvilOperation
	Name      string
	Port      string
	ChainID   string
	// LogWriter receives the followed log for the logs operation
	LogWriter io.Writer
}

// ManageAnvilResult contains the result of anvil operations
type ManageAnvilResult struct {
	Operation AnvilOperation        `json:"operation"`
	Instance  *domain.AnvilInstance `json:"instance"`
	Status    *domain.AnvilStatus   `json:"status,omitempty"`
	Message   string                `json:"message,omitempty"`
}

// Run performs the anvil operation
func (m *ManageAnvil) Run(ctx context.Context, params ManageAnvilParams) (*ManageAnvilResult, error) {
	instance := &domain.AnvilInstance{
		Name:    params.Name,
		Port:    params.Port,
		ChainID: params.ChainID,
	}

	switch params.Operation {
	case AnvilStart:
		return m.start(ctx, instance)
	case AnvilStop:
		return m.stop(ctx, instance)
	case AnvilRestart:
		return m.restart(ctx, instance)
	case AnvilStatus:
		return m.status(ctx, instance)
	case AnvilLogs:
		return m.logs(ctx, instance, params.LogWriter)
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

func (m *ManageAnvil) start(ctx context.Context, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	status, err := m.anvil.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return nil, fmt.Errorf("anvil '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	m.progress.OnProgress(ctx, ProgressEvent{Stage: "Anvil", Message: fmt.Sprintf("starting '%s' on port %s", instance.Name, instance.Port), Spinner: true})
	if err := m.anvil.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	status, err = m.anvil.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after start: %w", err)
	}
	return &ManageAnvilResult{
		Operation: AnvilStart,
		Instance:  instance,
		Status:    status,
		Message:   fmt.Sprintf("anvil '%s' started with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageAnvil) stop(ctx context.Context, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	status, err := m.anvil.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		return &ManageAnvilResult{
			Operation: AnvilStop,
			Instance:  instance,
			Message:   fmt.Sprintf("anvil '%s' is not running", instance.Name),
		}, nil
	}

	m.progress.OnProgress(ctx, ProgressEvent{Stage: "Anvil", Message: fmt.Sprintf("stopping '%s'", instance.Name), Spinner: true})
	if err := m.anvil.Stop(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to stop anvil: %w", err)
	}
	return &ManageAnvilResult{
		Operation: AnvilStop,
		Instance:  instance,
		Message:   fmt.Sprintf("anvil '%s' stopped", instance.Name),
	}, nil
}

func (m *ManageAnvil) restart(ctx context.Context, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	status, err := m.anvil.GetStatus(ctx, instance)
	if err == nil && status.Running {
		if err := m.anvil.Stop(ctx, instance); err != nil {
			return nil, fmt.Errorf("failed to stop anvil: %w", err)
		}
	}

	result, err := m.start(ctx, instance)
	if err != nil {
		return nil, err
	}
	result.Operation = AnvilRestart
	result.Message = fmt.Sprintf("anvil '%s' restarted with PID %d", instance.Name, result.Status.PID)
	return result, nil
}

func (m *ManageAnvil) status(ctx context.Context, instance *domain.AnvilInstance) (*ManageAnvilResult, error) {
	status, err := m.anvil.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return &ManageAnvilResult{
		Operation: AnvilStatus,
		Instance:  instance,
		Status:    status,
	}, nil
}

// logs follows the log file until ctx is done
func (m *ManageAnvil) logs(ctx context.Context, instance *domain.AnvilInstance, w io.Writer) (*ManageAnvilResult, error) {
	if w == nil {
		return nil, fmt.Errorf("no log writer")
	}
	if err := m.anvil.StreamLogs(ctx, instance, w); err != nil {
		return nil, err
	}
	return &ManageAnvilResult{
		Operation: AnvilLogs,
		Instance:  instance,
	}, nil
}
