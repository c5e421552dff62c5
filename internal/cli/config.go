package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tangram/internal/paths"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend           = "backend"
	cfgKeyDataDir           = "data_dir"
	cfgKeyTolerancePosition = "tolerance.position"
	cfgKeyToleranceRotation = "tolerance.rotation"
	cfgKeyBoardOffsetX      = "board_offset.x"
	cfgKeyBoardOffsetY      = "board_offset.y"
	cfgKeyTrayOffsetX       = "tray_offset.x"
	cfgKeyTrayOffsetY       = "tray_offset.y"
)

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyTolerancePosition, types.DefaultPositionTolerance)
	v.SetDefault(cfgKeyToleranceRotation, types.DefaultRotationTolerance)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveConfig resolves directories from flags, environment and
// config.yaml and returns the validated Config.
func resolveConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, systemError("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, systemError("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
		Tolerance: types.Tolerance{
			Position: v.GetFloat64(cfgKeyTolerancePosition),
			Rotation: v.GetFloat64(cfgKeyToleranceRotation),
		},
		BoardOffset: types.Point{X: v.GetFloat64(cfgKeyBoardOffsetX), Y: v.GetFloat64(cfgKeyBoardOffsetY)},
		TrayOffset:  types.Point{X: v.GetFloat64(cfgKeyTrayOffsetX), Y: v.GetFloat64(cfgKeyTrayOffsetY)},
	}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
