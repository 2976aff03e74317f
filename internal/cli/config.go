package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/teachingtorch/torch/internal/paths"
	"github.com/teachingtorch/torch/pkg/types"
)

// Config keys.
const (
	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyResetInterval = "reset_interval"
	cfgKeyS3Bucket      = "s3.bucket"
	cfgKeyS3Region      = "s3.region"
	cfgKeyS3Endpoint    = "s3.endpoint"
	cfgKeyS3Prefix      = "s3.prefix"
	cfgKeyS3PathStyle   = "s3.path_style"
	cfgKeyS3AccessKey   = "s3.access_key_id"
	cfgKeyS3SecretKey   = "s3.secret_access_key"
)

// envBindings maps config keys onto environment overrides. data_dir is left
// out so that config.yaml keeps precedence over TORCH_DATA_DIR.
var envBindings = map[string]string{
	cfgKeyBackend:       "TORCH_BACKEND",
	cfgKeyResetInterval: "TORCH_RESET_INTERVAL",
	cfgKeyS3Bucket:      "TORCH_S3_BUCKET",
	cfgKeyS3Region:      "TORCH_S3_REGION",
	cfgKeyS3Endpoint:    "TORCH_S3_ENDPOINT",
	cfgKeyS3Prefix:      "TORCH_S3_PREFIX",
	cfgKeyS3PathStyle:   "TORCH_S3_PATH_STYLE",
	cfgKeyS3AccessKey:   "TORCH_S3_ACCESS_KEY_ID",
	cfgKeyS3SecretKey:   "TORCH_S3_SECRET_ACCESS_KEY",
}

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend       string `yaml:"backend"`
	DataDir       string `yaml:"data_dir,omitempty"`
	ResetInterval string `yaml:"reset_interval"`
}

// loadConfig reads config.yaml from configDir, writing a default one on
// first run, and resolves the data directory against dataFlag.
func loadConfig(configDir, dataFlag string) (types.Config, error) {
	if err := paths.EnsureDir(configDir); err != nil {
		return types.Config{}, fmt.Errorf("config directory: %w", err)
	}
	path := paths.ConfigFile(configDir)
	if err := writeConfigIfMissing(path); err != nil {
		return types.Config{}, fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendFile)
	v.SetDefault(cfgKeyResetInterval, types.DefaultResetInterval)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return types.Config{}, fmt.Errorf("read config: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(dataFlag, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:       v.GetString(cfgKeyBackend),
		DataDir:       dataDir,
		ResetInterval: v.GetDuration(cfgKeyResetInterval),
		S3: types.S3Config{
			Bucket:    v.GetString(cfgKeyS3Bucket),
			Region:    v.GetString(cfgKeyS3Region),
			Endpoint:  v.GetString(cfgKeyS3Endpoint),
			Prefix:    v.GetString(cfgKeyS3Prefix),
			PathStyle: v.GetBool(cfgKeyS3PathStyle),

			AccessKeyID:     v.GetString(cfgKeyS3AccessKey),
			SecretAccessKey: v.GetString(cfgKeyS3SecretKey),
		},
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:       types.BackendFile,
		ResetInterval: types.DefaultResetInterval.String(),
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
