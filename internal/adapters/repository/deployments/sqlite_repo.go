package deployments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// timeLayout is fixed width so timestamps sort lexicographically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteRepository stores deployments in a sqlite database under the data dir
type SQLiteRepository struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// NewSQLiteRepository opens (and migrates) the registry database at path
func NewSQLiteRepository(ctx context.Context, path string, log *slog.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	r := &SQLiteRepository{db: db, log: log.With("component", "registry"), now: time.Now}
	if err := r.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Migrate creates the schema
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS deployments (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		chain_id INTEGER NOT NULL,
		contract_name TEXT NOT NULL,
		label TEXT NOT NULL,
		address TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deployed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_deployments_address ON deployments(chain_id, lower(address));
	CREATE INDEX IF NOT EXISTS idx_deployments_deployed ON deployments(deployed_at);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating registry: %w", err)
	}
	return nil
}

// GetDeployment retrieves a deployment by ID
func (r *SQLiteRepository) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM deployments WHERE id = ?`, id)
	dep, err := scanDeployment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: deployment %s", domain.ErrNotFound, id)
	}
	return dep, err
}

// GetDeploymentByAddress retrieves a deployment by chain ID and address
func (r *SQLiteRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT data FROM deployments WHERE chain_id = ? AND lower(address) = ? ORDER BY deployed_at DESC LIMIT 1`,
		int64(chainID), strings.ToLower(address))
	dep, err := scanDeployment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: deployment at address %s on chain %d", domain.ErrNotFound, address, chainID)
	}
	return dep, err
}

// ListDeployments retrieves deployments matching the filter, newest first
func (r *SQLiteRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	query, args := filterQuery(filter)
	rows, err := r.db.QueryContext(ctx, query+` ORDER BY deployed_at DESC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing deployments: %w", err)
	}
	defer rows.Close()

	var result []*models.Deployment
	for rows.Next() {
		dep, err := scanDeployment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, dep)
	}
	return result, rows.Err()
}

// LatestDeployment returns the most recently deployed matching deployment
func (r *SQLiteRepository) LatestDeployment(ctx context.Context, filter domain.DeploymentFilter) (*models.Deployment, error) {
	query, args := filterQuery(filter)
	row := r.db.QueryRowContext(ctx, query+` ORDER BY deployed_at DESC, id ASC LIMIT 1`, args...)
	dep, err := scanDeployment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no matching deployment", domain.ErrNotFound)
	}
	return dep, err
}

// SaveDeployment inserts or replaces a deployment. Replacing keeps the
// original CreatedAt and moves DeployedAt when the address changes.
func (r *SQLiteRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.ID == "" {
		return fmt.Errorf("deployment has no ID")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	clone := *deployment
	existing, err := scanDeployment(tx.QueryRowContext(ctx, `SELECT data FROM deployments WHERE id = ?`, clone.ID))
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		existing = nil
	default:
		return fmt.Errorf("reading deployment %s: %w", clone.ID, err)
	}
	stamp(&clone, existing, r.now().UTC())

	data, err := json.Marshal(&clone)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO deployments (id, project, chain_id, contract_name, label, address, data, created_at, updated_at, deployed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project = excluded.project,
			chain_id = excluded.chain_id,
			contract_name = excluded.contract_name,
			label = excluded.label,
			address = excluded.address,
			data = excluded.data,
			updated_at = excluded.updated_at,
			deployed_at = excluded.deployed_at`,
		clone.ID, string(clone.Project), int64(clone.ChainID), clone.ContractName, clone.Label, clone.Address,
		string(data), clone.CreatedAt.Format(timeLayout), clone.UpdatedAt.Format(timeLayout), clone.DeployedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("saving deployment %s: %w", clone.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing deployment %s: %w", clone.ID, err)
	}

	r.log.Debug("saved deployment", "id", clone.ID, "address", clone.Address)
	deployment.CreatedAt = clone.CreatedAt
	deployment.UpdatedAt = clone.UpdatedAt
	deployment.DeployedAt = clone.DeployedAt
	return nil
}

// DeleteDeployment removes a deployment
func (r *SQLiteRepository) DeleteDeployment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deployments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting deployment %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: deployment %s", domain.ErrNotFound, id)
	}
	return nil
}

func filterQuery(filter domain.DeploymentFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Project != "" {
		where = append(where, "project = ?")
		args = append(args, string(filter.Project))
	}
	if filter.ChainID != 0 {
		where = append(where, "chain_id = ?")
		args = append(args, int64(filter.ChainID))
	}
	if filter.ContractName != "" {
		where = append(where, "lower(contract_name) = lower(?)")
		args = append(args, filter.ContractName)
	}
	if filter.Label != "" {
		where = append(where, "label = ?")
		args = append(args, filter.Label)
	}

	query := `SELECT data FROM deployments`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeployment(row rowScanner) (*models.Deployment, error) {
	var data string
	if err := row.Scan(&data); err != nil {
		return nil, err
	}
	var dep models.Deployment
	if err := json.Unmarshal([]byte(data), &dep); err != nil {
		return nil, fmt.Errorf("decoding deployment: %w", err)
	}
	return &dep, nil
}

// Ensure SQLiteRepository implements the interface
var _ usecase.DeploymentRepository = (*SQLiteRepository)(nil)
