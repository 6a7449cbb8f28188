package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"rewind/internal/logs"
)

const (
	GlobalConfigDirName = ".rewind"
	LocalConfigFile     = "rewind.yaml"

	// DefaultTimelineDirName is where the timeline document lives when no
	// override is configured.
	DefaultTimelineDirName = ".rewind"
)

func getXDGConfigPath() (string, error) {
	// XDG_CONFIG_HOME or fallback to `~/.config`
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdg = filepath.Join(home, ".config")
	}
	p := filepath.Join(xdg, "rewind", "config.yaml")
	return p, nil
}

var (
	globalConfig = make(map[string]string)
	localConfig  = make(map[string]string)

	globalLoaded bool
	localLoaded  bool
)

func InitializeGlobalConfig() error {
	if globalLoaded {
		return nil
	}

	configPath, err := getXDGConfigPath()
	if err != nil {
		return err
	}

	// ensure directory
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create XDG config dir: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// create minimal default
		def := map[string]string{"force": "false"}
		if e := saveYAML(configPath, def); e != nil {
			return e
		}
	}

	data, err := loadYAML(configPath)
	if err != nil {
		return err
	}
	for k, v := range data {
		globalConfig[k] = v
	}
	globalLoaded = true
	logs.Debug("Loaded global config from %s", configPath)
	return nil
}

func InitializeLocalConfig() error {
	if localLoaded {
		return nil
	}
	localPath := filepath.Join(".", LocalConfigFile)
	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		localLoaded = true
		return nil
	}
	data, err := loadYAML(localPath)
	if err != nil {
		return err
	}
	for k, v := range data {
		localConfig[k] = v
	}
	localLoaded = true
	return nil
}

func GetConfigValue(key string) string {
	// local overrides global
	if val, ok := localConfig[key]; ok {
		return val
	}
	if val, ok := globalConfig[key]; ok {
		return val
	}
	return ""
}

func SetConfigValue(key, value string, global bool) error {
	if global {
		configPath, err := getXDGConfigPath()
		if err != nil {
			return err
		}
		globalConfig[key] = value
		return saveYAML(configPath, globalConfig)
	}
	// local
	localConfig[key] = value
	localPath := filepath.Join(".", LocalConfigFile)
	return saveYAML(localPath, localConfig)
}

// TimelineDir resolves the storage root. Priority: explicit flag value,
// REWIND_DIR environment variable, configured timeline_dir, ~/.rewind.
func TimelineDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("REWIND_DIR"); env != "" {
		return env
	}
	if cfg := GetConfigValue("timeline_dir"); cfg != "" {
		return cfg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		logs.Warn("Cannot determine home directory, using current directory: %v", err)
		return DefaultTimelineDirName
	}
	return filepath.Join(home, DefaultTimelineDirName)
}

// ForceEnabled reports whether confirmation prompts should be skipped,
// beyond any per-command --force flag.
func ForceEnabled() bool {
	if env := os.Getenv("REWIND_FORCE"); env == "1" || env == "true" {
		return true
	}
	return GetConfigValue("force") == "true"
}

func saveYAML(path string, data map[string]string) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

func loadYAML(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := make(map[string]string)
	if err := yaml.Unmarshal(content, &d); err != nil {
		return nil, err
	}
	return d, nil
}
