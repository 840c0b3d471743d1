// internal/config/config.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/soyuz43/svninfo-go/internal/svn"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SVNINFO_SVN.
const EnvPrefix = "SVNINFO"

// Keys, shared by flags, environment variables and config files.
const (
	KeySVN         = "svn"
	KeyEncoding    = "encoding"
	KeyLogLevel    = "log-level"
	KeyLogFormat   = "log-format"
	KeyTimeout     = "timeout"
	KeyUsername    = "username"
	KeyPassword    = "password"
	KeyListen      = "listen"
	KeyIdleTimeout = "idle-timeout"
	KeyPortFile    = "port-file"
)

const (
	defaultListen      = "localhost:0"
	defaultIdleTimeout = 30 * time.Minute
)

// Config holds everything the CLI and the server need.
type Config struct {
	SVN       string
	Encoding  string
	LogLevel  string
	LogFormat string
	// Timeout bounds one svn info call. Zero means no timeout.
	Timeout     time.Duration
	Username    string
	Password    string
	Listen      string
	IdleTimeout time.Duration
	PortFile    string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SVN:         svn.DefaultCommand,
		Encoding:    "utf-8",
		LogLevel:    "warn",
		LogFormat:   "text",
		Listen:      defaultListen,
		IdleTimeout: defaultIdleTimeout,
	}
}

// New returns a viper instance seeded with defaults and wired to SVNINFO_*
// environment variables.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeySVN, d.SVN)
	v.SetDefault(KeyEncoding, d.Encoding)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyUsername, "")
	v.SetDefault(KeyPassword, "")
	v.SetDefault(KeyListen, d.Listen)
	v.SetDefault(KeyIdleTimeout, d.IdleTimeout)
	v.SetDefault(KeyPortFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags lets explicitly set flags override every other source.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	return errors.Wrap(v.BindPFlags(fs), "bind flags")
}

// ReadFile loads an optional config file. With an explicit path a missing
// file is an error; otherwise svninfo.{yaml,toml,json} is searched in the
// working directory and ~/.config/svninfo.
func ReadFile(v *viper.Viper, explicitPath string) error {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName("svninfo")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "svninfo"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && explicitPath == "" {
			return nil
		}
		return errors.Wrap(err, "read config file")
	}
	return nil
}

// Load resolves and validates the configuration.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		SVN:         v.GetString(KeySVN),
		Encoding:    v.GetString(KeyEncoding),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		Timeout:     v.GetDuration(KeyTimeout),
		Username:    v.GetString(KeyUsername),
		Password:    v.GetString(KeyPassword),
		Listen:      v.GetString(KeyListen),
		IdleTimeout: v.GetDuration(KeyIdleTimeout),
		PortFile:    v.GetString(KeyPortFile),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := svn.ParseCommand(c.SVN); err != nil {
		return errors.Wrap(err, "invalid svn setting")
	}
	if _, err := svn.LookupEncoding(c.Encoding); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log-level")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("invalid log-format %q (expected text or json)", c.LogFormat)
	}
	if c.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.IdleTimeout < 0 {
		return errors.Errorf("idle-timeout must not be negative, got %s", c.IdleTimeout)
	}
	return nil
}

// Credentials returns the configured pass-through credentials.
func (c Config) Credentials() svn.Credentials {
	return svn.Credentials{Username: c.Username, Password: c.Password}
}

// NewRunner builds the exec runner described by c.
func (c Config) NewRunner() (*svn.ExecRunner, error) {
	return svn.NewExecRunner(svn.ExecConfig{Command: c.SVN, Encoding: c.Encoding})
}

// ConfigureLogger applies level and format to logger.
func (c Config) ConfigureLogger(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log-level")
	}
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}
