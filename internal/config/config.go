package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is the human-readable name of the chain.
	AppName = "PythyBird"

	// BinaryName is the name of the daemon binary.
	BinaryName = "wagerd"

	// EnvPrefix is the environment variable prefix, e.g. WAGERD_HOME.
	EnvPrefix = "WAGERD"
)

// Flag names, shared by the cobra commands and the viper keys.
const (
	FlagHome            = "home"
	FlagAddr            = "addr"
	FlagTransport       = "transport"
	FlagDBBackend       = "db-backend"
	FlagLogLevel        = "log-level"
	FlagLogFormat       = "log-format"
	FlagAllowMint       = "allow-mint"
	FlagCheckInvariants = "check-invariants"
)

type Config struct {
	Home            string `mapstructure:"home"`
	Addr            string `mapstructure:"addr"`
	Transport       string `mapstructure:"transport"`
	DBBackend       string `mapstructure:"db-backend"`
	LogLevel        string `mapstructure:"log-level"`
	LogFormat       string `mapstructure:"log-format"`
	AllowMint       bool   `mapstructure:"allow-mint"`
	CheckInvariants bool   `mapstructure:"check-invariants"`
}

func Default() Config {
	return Config{
		Home:            ".wagerd",
		Addr:            "tcp://127.0.0.1:26658",
		Transport:       "socket",
		DBBackend:       "goleveldb",
		LogLevel:        "info",
		LogFormat:       "plain",
		AllowMint:       false,
		CheckInvariants: false,
	}
}

// DataDir is where the state database lives.
func (c Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// ConfigFile is the optional TOML file read on startup.
func (c Config) ConfigFile() string {
	return filepath.Join(c.Home, "config", "app.toml")
}

func (c Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("home must be set")
	}
	if c.Addr == "" {
		return fmt.Errorf("addr must be set")
	}
	switch c.Transport {
	case "socket", "grpc":
	default:
		return fmt.Errorf("unknown transport %q (socket|grpc)", c.Transport)
	}
	switch c.DBBackend {
	case "goleveldb", "memdb":
	default:
		return fmt.Errorf("unknown db backend %q (goleveldb|memdb)", c.DBBackend)
	}
	switch c.LogFormat {
	case "plain", "json":
	default:
		return fmt.Errorf("unknown log format %q (plain|json)", c.LogFormat)
	}
	return nil
}

// AddFlags registers the daemon flags with their defaults.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagHome, d.Home, "app home directory (state under <home>/data, config under <home>/config/app.toml)")
	fs.String(FlagAddr, d.Addr, "ABCI listen address")
	fs.String(FlagTransport, d.Transport, "ABCI transport (socket|grpc)")
	fs.String(FlagDBBackend, d.DBBackend, "state database backend (goleveldb|memdb)")
	fs.String(FlagLogLevel, d.LogLevel, "log level (trace|debug|info|warn|error)")
	fs.String(FlagLogFormat, d.LogFormat, "log format (plain|json)")
	fs.Bool(FlagAllowMint, d.AllowMint, "accept bank/mint faucet txs (devnets only)")
	fs.Bool(FlagCheckInvariants, d.CheckInvariants, "audit vault and supply invariants after every block")
}

// Load resolves the config from flags, WAGERD_* env vars and
// <home>/config/app.toml, in that order of precedence.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	d := Default()
	v.SetDefault(FlagHome, d.Home)
	v.SetDefault(FlagAddr, d.Addr)
	v.SetDefault(FlagTransport, d.Transport)
	v.SetDefault(FlagDBBackend, d.DBBackend)
	v.SetDefault(FlagLogLevel, d.LogLevel)
	v.SetDefault(FlagLogFormat, d.LogFormat)
	v.SetDefault(FlagAllowMint, d.AllowMint)
	v.SetDefault(FlagCheckInvariants, d.CheckInvariants)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	home := v.GetString(FlagHome)
	cfgFile := Config{Home: home}.ConfigFile()
	if _, err := os.Stat(cfgFile); err == nil {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", cfgFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat %s: %w", cfgFile, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
