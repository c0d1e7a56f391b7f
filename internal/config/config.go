package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/sonnh58/lieng.wtf/internal/util"
	"gopkg.in/yaml.v2"
)

// defaultStartBettingDelay is used when the config doesn't specify one
const defaultStartBettingDelay = 5

// Config provides configuration for the Liêng server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	// StartBettingDelay is how many seconds a room lingers in the
	// dealing phase before betting opens
	StartBettingDelay int `yaml:"startBettingDelay" envconfig:"start_betting_delay"`
	Log               struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
func Load() error {
	configFile := util.Getenv("LIENG_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil {
		return err
	}
	defer file.Close()

	config = Config{}
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return err
	}

	if err := envconfig.Process("lieng", &config); err != nil {
		return err
	}

	if config.StartBettingDelay <= 0 {
		config.StartBettingDelay = defaultStartBettingDelay
	}

	config.loaded = true
	return nil
}
