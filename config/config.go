// Package config loads bot settings from an optional YAML file and applies
// environment overrides on top, so a bare deployment can run on env vars
// alone.
package config

import (
	"os"
	"path"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Config is everything the binaries need to start.
type Config struct {
	Telegram struct {
		Token    string `yaml:"token"`
		Username string `yaml:"username"` // without the leading @
	} `yaml:"telegram"`
	Store struct {
		Backend     string `yaml:"backend"` // bolt | dynamo | memory
		Path        string `yaml:"path"`    // bolt file
		DynamoTable string `yaml:"dynamo_table"`
		Region      string `yaml:"region"`
		Endpoint    string `yaml:"endpoint"` // local DynamoDB endpoint
	} `yaml:"store"`
	Currency string `yaml:"currency"` // optional symbol prefixed to amounts in reports
}

// DefaultDir is where the config file and the bolt store live unless
// overridden.
func DefaultDir() string {
	return path.Join(os.Getenv("HOME"), ".accountbot")
}

// Load reads the YAML file at confPath if it exists, then applies env
// overrides. A missing file is not an error; env-only setups are common.
func Load(confPath string) (Config, error) {
	var c Config
	c.Store.Backend = "bolt"
	c.Store.Path = path.Join(DefaultDir(), "store.db")
	c.Store.Region = "us-east-1"

	if confPath != "" {
		data, err := os.ReadFile(confPath)
		switch {
		case os.IsNotExist(err):
			// Fall through to env.
		case err != nil:
			return Config{}, errors.Wrapf(err, "reading config %q", confPath)
		default:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return Config{}, errors.Wrapf(err, "parsing config %q", confPath)
			}
		}
	}

	c.Telegram.Token = env("TELEGRAM_TOKEN", c.Telegram.Token)
	c.Telegram.Username = trimAt(env("BOT_USERNAME", c.Telegram.Username))
	c.Store.Backend = env("ACCOUNTBOT_STORE", c.Store.Backend)
	c.Store.Path = env("ACCOUNTBOT_DB", c.Store.Path)
	c.Store.DynamoTable = env("ACCOUNTBOT_DYNAMO_TABLE", c.Store.DynamoTable)
	c.Store.Region = env("AWS_REGION", c.Store.Region)
	c.Store.Endpoint = env("ACCOUNTBOT_DYNAMO_ENDPOINT", c.Store.Endpoint)
	c.Currency = env("ACCOUNTBOT_CURRENCY", c.Currency)
	return c, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func trimAt(username string) string {
	if len(username) > 0 && username[0] == '@' {
		return username[1:]
	}
	return username
}
