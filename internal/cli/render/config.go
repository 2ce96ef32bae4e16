package render

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// ConfigRenderer renders the effective configuration as YAML
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// Render renders the configuration, secrets already masked
func (r *ConfigRenderer) Render(cfg *usecase.EffectiveConfig) error {
	if cfg.ConfigFile != "" {
		fmt.Fprintf(r.out, "# loaded from %s\n", cfg.ConfigFile)
	} else {
		fmt.Fprintln(r.out, "# no project file, defaults and environment only")
	}

	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
