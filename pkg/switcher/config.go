package switcher

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/stalexteam/pulse-switcher/pkg/switcher/util"
)

// CanonicalConfig provides access to the filter configuration, as well as
// the logic for locating and loading pulse-switcher's configuration file
type CanonicalConfig struct {
	Filter FilterConfig

	// path of the file the config was loaded from, empty when running on defaults
	Path string

	logger     *zap.SugaredLogger
	userConfig *viper.Viper
}

const (
	appDirName         = "pulse-switcher"
	userConfigFilename = "config.toml"

	configType = "toml"

	configKey_IncludeNames        = "include_names"
	configKey_IncludeDescriptions = "include_descriptions"
	configKey_ExcludeNames        = "exclude_names"
	configKey_ExcludeDescriptions = "exclude_descriptions"
)

var configKeys = []string{
	configKey_IncludeNames,
	configKey_IncludeDescriptions,
	configKey_ExcludeNames,
	configKey_ExcludeDescriptions,
}

// NewConfig creates a config instance and sets up its viper instance
func NewConfig(logger *zap.SugaredLogger) (*CanonicalConfig, error) {
	logger = logger.Named("config")

	cc := &CanonicalConfig{
		logger: logger,
	}

	userConfig := viper.New()
	userConfig.SetConfigType(configType)

	userConfig.SetDefault(configKey_IncludeNames, []string{})
	userConfig.SetDefault(configKey_IncludeDescriptions, []string{})
	userConfig.SetDefault(configKey_ExcludeNames, []string{})
	userConfig.SetDefault(configKey_ExcludeDescriptions, []string{})

	cc.userConfig = userConfig

	logger.Debug("Created config instance")

	return cc, nil
}

// Load reads the config file at path. An empty path means the default location
// ($XDG_CONFIG_HOME/pulse-switcher/config.toml), which is allowed to be missing.
func (cc *CanonicalConfig) Load(path string) error {
	if path != "" {
		if err := cc.loadFile(path); err != nil {
			return fmt.Errorf("failed to load '%s': %w", path, err)
		}
		return nil
	}

	defaultPath, err := util.UserConfigFile(appDirName, userConfigFilename)
	if err != nil {
		cc.logger.Warnw("Failed to locate user config directory, using default config", "error", err)
		return nil
	}

	if !util.FileExists(defaultPath) {
		cc.logger.Debugw("Default config file not found, using default config", "path", defaultPath)
		return nil
	}

	return cc.loadFile(defaultPath)
}

func (cc *CanonicalConfig) loadFile(path string) error {
	cc.logger.Debugw("Loading config", "path", path)

	if !util.FileExists(path) {
		cc.logger.Warnw("Config file not found", "path", path)
		return newSwitchError(ErrorConfigLoad, "read failed", fmt.Errorf("config file doesn't exist: %s", path))
	}

	cc.userConfig.SetConfigFile(path)

	if err := cc.userConfig.ReadInConfig(); err != nil {
		cc.logger.Warnw("Viper failed to read user config", "error", err)
		return newSwitchError(ErrorConfigLoad, "read failed", err)
	}

	if err := checkConfigKeys(path); err != nil {
		cc.logger.Warnw("Config file has unexpected keys", "error", err)
		return newSwitchError(ErrorConfigLoad, "parse failed", err)
	}

	if err := cc.populateFromViper(); err != nil {
		cc.logger.Warnw("Failed to populate config fields", "error", err)
		return newSwitchError(ErrorConfigLoad, "parse failed", err)
	}

	cc.Path = path

	cc.logger.Debugw("Loaded config successfully", "path", path)
	cc.logger.Debugw("Config values",
		configKey_IncludeNames, cc.Filter.IncludeNames,
		configKey_IncludeDescriptions, cc.Filter.IncludeDescriptions,
		configKey_ExcludeNames, cc.Filter.ExcludeNames,
		configKey_ExcludeDescriptions, cc.Filter.ExcludeDescriptions,
	)

	return nil
}

func (cc *CanonicalConfig) populateFromViper() error {
	var filter FilterConfig

	// every key must hold an array of strings; no string-to-list conversion
	strict := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = false
		dc.DecodeHook = nil
	})

	if err := cc.userConfig.UnmarshalExact(&filter, strict); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	cc.Filter = filter

	return nil
}

// checkConfigKeys rejects keys viper would otherwise accept case-insensitively
func checkConfigKeys(path string) error {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load toml tree: %w", err)
	}

	for _, key := range tree.Keys() {
		if !funk.ContainsString(configKeys, key) {
			return fmt.Errorf("unknown config key %q", key)
		}
	}

	return nil
}
