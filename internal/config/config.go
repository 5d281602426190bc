// Package config provides the settings of the dbf command line tool.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	defaultEncoding  = "utf-8"
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
	defaultDelimiter = ","

	// Name of the config file looked up in the home directory, without extension.
	configName = ".dbf"
	envPrefix  = "DBF"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyEncoding  = "encoding"
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
	KeyLogFile   = "log-file"
	KeyDelimiter = "delimiter"
	KeyTrim      = "trim"
)

// Config holds the tool settings.
type Config struct {
	Encoding  string
	LogLevel  string
	LogFormat string
	LogFile   string
	Delimiter string
	Trim      bool
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Encoding:  defaultEncoding,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		Delimiter: defaultDelimiter,
		Trim:      true,
	}
}

// FillDefaults sets empty fields to their default values.
func (c *Config) FillDefaults() {
	def := DefaultConfig()
	if c.Encoding == "" {
		c.Encoding = def.Encoding
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
	if c.Delimiter == "" {
		c.Delimiter = def.Delimiter
	}
}

// DelimiterRune returns the CSV delimiter as a single rune.
func (c *Config) DelimiterRune() (rune, error) {
	r, size := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError || size != len(c.Delimiter) {
		return 0, fmt.Errorf("delimiter %q must be a single character", c.Delimiter)
	}
	return r, nil
}

// NewViper returns a viper instance reading cfgFile, or $HOME/.dbf.yaml when
// cfgFile is empty, and DBF_ prefixed environment variables. A missing
// default config file is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault(KeyEncoding, def.Encoding)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeyDelimiter, def.Delimiter)
	v.SetDefault(KeyTrim, def.Trim)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return v, nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return v, nil
	}
	v.AddConfigPath(home)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Join(home, configName+".yaml"), err)
		}
	}
	return v, nil
}

// Load builds a Config from v.
func Load(v *viper.Viper) *Config {
	c := &Config{
		Encoding:  v.GetString(KeyEncoding),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		LogFile:   v.GetString(KeyLogFile),
		Delimiter: v.GetString(KeyDelimiter),
		Trim:      v.GetBool(KeyTrim),
	}
	c.FillDefaults()
	return c
}
