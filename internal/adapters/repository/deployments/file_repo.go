package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

const (
	DeploymentsFile = "deployments.json"
	SQLiteFile      = "registry.db"
)

// FileRepository stores the deployments in a json file under the data dir
type FileRepository struct {
	dataDir     string
	mu          sync.RWMutex
	deployments map[string]*models.Deployment
	// byAddress maps chainID -> lowercase address -> deployment ID
	byAddress map[uint64]map[string]string
	now       func() time.Time
}

// NewFileRepository creates a new registry backed by deployments.json
func NewFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dataDir, err)
	}

	m := &FileRepository{
		dataDir:     dataDir,
		deployments: make(map[string]*models.Deployment),
		byAddress:   make(map[uint64]map[string]string),
		now:         time.Now,
	}

	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	return m, nil
}

// load reads the registry file
func (m *FileRepository) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &m.deployments); err != nil {
		return fmt.Errorf("failed to parse %s: %w", m.path(), err)
	}
	if m.deployments == nil {
		m.deployments = make(map[string]*models.Deployment)
	}

	m.rebuildLookups()
	return nil
}

func (m *FileRepository) path() string {
	return filepath.Join(m.dataDir, DeploymentsFile)
}

// save writes the registry file
func (m *FileRepository) save() error {
	data, err := json.MarshalIndent(m.deployments, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := m.path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, m.path())
}

// rebuildLookups rebuilds the address index from the loaded data
func (m *FileRepository) rebuildLookups() {
	m.byAddress = make(map[uint64]map[string]string)
	for id, dep := range m.deployments {
		if m.byAddress[dep.ChainID] == nil {
			m.byAddress[dep.ChainID] = make(map[string]string)
		}
		m.byAddress[dep.ChainID][strings.ToLower(dep.Address)] = id
	}
}

// GetDeployment retrieves a deployment by ID
func (m *FileRepository) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dep, exists := m.deployments[id]
	if !exists {
		return nil, fmt.Errorf("%w: deployment %s", domain.ErrNotFound, id)
	}

	// Clone to avoid mutations
	clone := *dep
	return &clone, nil
}

// GetDeploymentByAddress retrieves a deployment by chain ID and address
func (m *FileRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.byAddress[chainID][strings.ToLower(address)]
	if !exists {
		return nil, fmt.Errorf("%w: deployment at address %s on chain %d", domain.ErrNotFound, address, chainID)
	}

	dep, exists := m.deployments[id]
	if !exists {
		return nil, fmt.Errorf("%w: deployment %s", domain.ErrNotFound, id)
	}

	clone := *dep
	return &clone, nil
}

// ListDeployments retrieves deployments matching the filter, newest first
func (m *FileRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*models.Deployment
	for _, dep := range m.deployments {
		if !filter.Matches(dep) {
			continue
		}
		clone := *dep
		result = append(result, &clone)
	}

	SortNewestFirst(result)
	return result, nil
}

// LatestDeployment returns the most recently deployed matching deployment
func (m *FileRepository) LatestDeployment(ctx context.Context, filter domain.DeploymentFilter) (*models.Deployment, error) {
	list, err := m.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no matching deployment", domain.ErrNotFound)
	}
	return list[0], nil
}

// SaveDeployment inserts or replaces a deployment. Replacing keeps the
// original CreatedAt and moves DeployedAt when the address changes.
func (m *FileRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.ID == "" {
		return fmt.Errorf("deployment has no ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *deployment
	existing := m.deployments[clone.ID]
	if existing != nil {
		// the address may have moved if the same ID was redeployed
		delete(m.byAddress[existing.ChainID], strings.ToLower(existing.Address))
	}
	stamp(&clone, existing, m.now().UTC())

	m.deployments[clone.ID] = &clone
	if m.byAddress[clone.ChainID] == nil {
		m.byAddress[clone.ChainID] = make(map[string]string)
	}
	m.byAddress[clone.ChainID][strings.ToLower(clone.Address)] = clone.ID

	deployment.CreatedAt = clone.CreatedAt
	deployment.UpdatedAt = clone.UpdatedAt
	deployment.DeployedAt = clone.DeployedAt

	return m.save()
}

// DeleteDeployment removes a deployment
func (m *FileRepository) DeleteDeployment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dep, exists := m.deployments[id]
	if !exists {
		return fmt.Errorf("%w: deployment %s", domain.ErrNotFound, id)
	}

	delete(m.deployments, id)
	delete(m.byAddress[dep.ChainID], strings.ToLower(dep.Address))

	return m.save()
}

// Ensure FileRepository implements the interface
var _ usecase.DeploymentRepository = (*FileRepository)(nil)
