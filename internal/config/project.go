package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/hwchain/hwchain-cli/internal/domain/config"
)

// ProjectFileName is the optional per-project configuration file
const ProjectFileName = "hwchain.toml"

// projectMarkers identify a project root, checked in order in each directory
var projectMarkers = []string{
	ProjectFileName,
	"hardhat.config.js",
	"hardhat.config.ts",
	"foundry.toml",
}

// loadEnvFiles loads .env then .env.local from the project root. Variables
// already present in the process environment are never overridden.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectFile decodes hwchain.toml twice: into the typed ProjectFile for
// networks and into a generic map that is merged into viper. A missing file
// yields an empty ProjectFile and a nil map.
func loadProjectFile(projectRoot string) (*config.ProjectFile, map[string]any, error) {
	path := filepath.Join(projectRoot, ProjectFileName)
	file := &config.ProjectFile{Networks: map[string]config.NetworkEntry{}}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return file, nil, nil
	}

	if _, err := toml.DecodeFile(path, file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}
	if file.Networks == nil {
		file.Networks = map[string]config.NetworkEntry{}
	}

	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	return file, raw, nil
}
