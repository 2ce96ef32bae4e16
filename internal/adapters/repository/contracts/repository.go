package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/domain/models"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// Repository indexes the compiled artifacts of the contract toolchain.
// Hardhat (artifacts/contracts/<File>.sol/<Name>.json, bytecode as a hex
// string) and Foundry (out/<File>.sol/<Name>.json, bytecode.object) layouts
// are both understood.
type Repository struct {
	dirs      []string
	artifacts map[string]*models.Artifact   // key: "source:Name"
	byName    map[string][]*models.Artifact // key: contract name
	log       *slog.Logger
	mu        sync.RWMutex
	indexed   bool
}

// NewRepository creates a new artifact repository. With no artifacts_dir
// configured both artifacts/ and out/ under the project root are scanned.
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	dirs := []string{cfg.ArtifactsDir}
	if cfg.ArtifactsDir == "" {
		dirs = []string{
			filepath.Join(cfg.ProjectRoot, "artifacts"),
			filepath.Join(cfg.ProjectRoot, "out"),
		}
	}
	return &Repository{
		dirs:      dirs,
		artifacts: make(map[string]*models.Artifact),
		byName:    make(map[string][]*models.Artifact),
		log:       log.With("component", "artifacts"),
	}
}

// rawArtifact covers both toolchain formats
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata"`
}

type foundryBytecode struct {
	Object string `json:"object"`
}

type foundryMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// hardhatDebug is the <Name>.dbg.json file pointing at the build info
type hardhatDebug struct {
	BuildInfo string `json:"buildInfo"`
}

// Index discovers all artifacts
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	r.artifacts = make(map[string]*models.Artifact)
	r.byName = make(map[string][]*models.Artifact)

	for _, dir := range r.dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if info.Name() == "build-info" || info.Name() == "cache" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}
			return r.processArtifact(path)
		})
		if err != nil {
			return fmt.Errorf("failed to index artifacts in %s: %w", dir, err)
		}
	}

	r.indexed = true
	return nil
}

// processArtifact processes a single artifact file
func (r *Repository) processArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil || len(raw.ABI) == 0 || len(raw.Bytecode) == 0 {
		// not an artifact
		return nil
	}

	name, sourceName := raw.ContractName, raw.SourceName
	if sourceName == "" && len(raw.Metadata) > 0 {
		var meta foundryMetadata
		if json.Unmarshal(raw.Metadata, &meta) == nil {
			for source, contract := range meta.Settings.CompilationTarget {
				sourceName, name = source, contract
				break // There should only be one entry
			}
		}
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	bytecode, err := decodeBytecode(raw.Bytecode)
	if err != nil {
		r.log.Warn("skipping artifact", "path", path, "error", err)
		return nil
	}

	artifact := &models.Artifact{
		Name:       name,
		SourceName: sourceName,
		Path:       path,
		ABI:        raw.ABI,
		Bytecode:   bytecode,
	}

	r.log.Debug("indexed artifact", "name", name, "source", sourceName, "path", path)

	r.artifacts[artifact.FullyQualifiedName()] = artifact
	r.byName[name] = append(r.byName[name], artifact)
	return nil
}

// decodeBytecode accepts a hex string (Hardhat) or {"object": hex} (Foundry)
func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	var hexCode string
	if err := json.Unmarshal(raw, &hexCode); err != nil {
		var fb foundryBytecode
		if err := json.Unmarshal(raw, &fb); err != nil {
			return nil, fmt.Errorf("unrecognised bytecode field")
		}
		hexCode = fb.Object
	}

	hexCode = strings.TrimSpace(hexCode)
	if hexCode == "" || hexCode == "0x" {
		return nil, nil
	}
	if strings.Contains(hexCode, "__") {
		return nil, fmt.Errorf("bytecode has unlinked library placeholders")
	}
	if !strings.HasPrefix(hexCode, "0x") {
		hexCode = "0x" + hexCode
	}
	return hexutil.Decode(hexCode)
}

// GetArtifact retrieves an artifact by contract name or "source:Name"
func (r *Repository) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if artifact, exists := r.artifacts[name]; exists {
		return artifact, nil
	}

	matches := r.byName[name]
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s (compile the contracts first, searched %s)",
			domain.ErrContractNotFound, name, strings.Join(r.dirs, ", "))
	case 1:
		return matches[0], nil
	default:
		fqns := lo.Map(matches, func(a *models.Artifact, _ int) string { return a.FullyQualifiedName() })
		sort.Strings(fqns)
		return nil, fmt.Errorf("multiple artifacts named %s, use one of: %s", name, strings.Join(fqns, ", "))
	}
}

// GetBuildInfo loads the compiler input the artifact was built from. The
// Hardhat .dbg.json pointer is followed when present; otherwise build-info
// files next to the artifacts are searched for the artifact's source.
func (r *Repository) GetBuildInfo(ctx context.Context, artifact *models.Artifact) (*models.BuildInfo, error) {
	dbgPath := strings.TrimSuffix(artifact.Path, ".json") + ".dbg.json"
	if data, err := os.ReadFile(dbgPath); err == nil {
		var dbg hardhatDebug
		if err := json.Unmarshal(data, &dbg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", dbgPath, err)
		}
		if dbg.BuildInfo != "" {
			return loadBuildInfo(filepath.Join(filepath.Dir(dbgPath), dbg.BuildInfo))
		}
	}

	for _, dir := range r.dirs {
		files, _ := filepath.Glob(filepath.Join(dir, "build-info", "*.json"))
		sort.Strings(files)
		for _, file := range files {
			info, err := loadBuildInfo(file)
			if err != nil {
				r.log.Debug("skipping build info", "path", file, "error", err)
				continue
			}
			if buildInfoHasSource(info, artifact.SourceName) {
				return info, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: build info for %s", domain.ErrNotFound, artifact.FullyQualifiedName())
}

func loadBuildInfo(path string) (*models.BuildInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info models.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(info.Input) == 0 {
		return nil, fmt.Errorf("%s has no compiler input", path)
	}
	info.Path = path
	return &info, nil
}

func buildInfoHasSource(info *models.BuildInfo, sourceName string) bool {
	if sourceName == "" {
		return false
	}
	var input struct {
		Sources map[string]json.RawMessage `json:"sources"`
	}
	if err := json.Unmarshal(info.Input, &input); err != nil {
		return false
	}
	_, ok := input.Sources[sourceName]
	return ok
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactRepository = (*Repository)(nil)
