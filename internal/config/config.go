package config

import (
	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/udharokhata/credit-ledger/pkg/logger"
)

var config *Config

// Config holds every environment-sourced value. Nothing else in the module
// reads the environment directly.
type Config struct {
	AppEnv   string `env:"APP_ENV" default:"dev"`
	AppName  string `env:"APP_NAME" default:"credit_ledger"`
	AppDebug bool   `env:"APP_DEBUG" default:"1"`

	HttpListenAddr string `env:"HTTP_LISTEN_ADDR" default:":8080"`

	SqlitePath        string `env:"SQLITE_PATH" default:"ledger.db"`
	SqliteBusyTimeout int    `env:"SQLITE_BUSY_TIMEOUT" default:"5000"`

	// BackupDir is where export writes .sql scripts.
	BackupDir string `env:"BACKUP_DIR" default:"backups"`

	PromNamespace string `env:"PROM_NAMESPACE" default:"ledger"`
}

// IsDev gates behavior that must never run in production, like demo seeding.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func Load(path string) error {
	c := &Config{}
	if path != "" {
		logger.Info("loading env file", "path", path)
		if err := godotenv.Load(path); err != nil {
			return errors.Wrap(err, "failed to load configuration file "+path)
		}
	}

	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return errors.Wrap(err, "failed to map env variables to configuration")
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		panic("config is not initialized")
	}
	return config
}
