package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tangram/internal/paths"
	"github.com/mesh-intelligence/tangram/internal/sqlite"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend     string          `yaml:"backend"`
	DataDir     string          `yaml:"data_dir,omitempty"`
	Tolerance   types.Tolerance `yaml:"tolerance"`
	BoardOffset types.Point     `yaml:"board_offset"`
	TrayOffset  types.Point     `yaml:"tray_offset"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tangram configuration and catalog storage",
		Long:  "Create the configuration and data directories, write a default config.yaml,\nand seed the catalog store with the built-in shapes.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return systemError("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return systemError("create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, flags.dataDir); err != nil {
		return systemError("write config: %w", err)
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	store := sqlite.NewBackend()
	if err := store.Attach(cfg); err != nil {
		return systemError("initialize storage: %w", err)
	}
	if err := store.Detach(); err != nil {
		return systemError("finalize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Tangram initialized (config: %s, data: %s)\n", configDir, cfg.DataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Backend:   types.BackendSQLite,
		DataDir:   dataDir,
		Tolerance: types.DefaultTolerance(),
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
