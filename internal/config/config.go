// Package config loads crispdm settings from defaults, an optional YAML
// file and CRISPDM_* environment variables, in increasing precedence.
// Flags bound by the CLI take precedence over all three.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ezoic/crispdm/datasets"
	"github.com/ezoic/crispdm/pkg/errors"
)

// EnvPrefix is the prefix of environment overrides, e.g. CRISPDM_SERVER_ADDR.
const EnvPrefix = "CRISPDM"

// Config is the full application configuration.
type Config struct {
	Server    Server    `mapstructure:"server" yaml:"server"`
	Log       Log       `mapstructure:"log" yaml:"log"`
	Defaults  Defaults  `mapstructure:"defaults" yaml:"defaults"`
	Generator Generator `mapstructure:"generator" yaml:"generator"`
	Split     Split     `mapstructure:"split" yaml:"split"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required"`
	Mode string `mapstructure:"mode" yaml:"mode" validate:"oneof=release debug test"`
}

// Log configures the global logger.
type Log struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error disabled"`
}

// Defaults are the parameters a new session starts with.
type Defaults struct {
	datasets.Params `mapstructure:",squash" yaml:",inline"`
	FixedSeed       bool `mapstructure:"fixed_seed" yaml:"fixed_seed"`
}

// Generator configures seed derivation.
type Generator struct {
	BaseSeed uint64 `mapstructure:"base_seed" yaml:"base_seed"`
}

// Split configures the train/test partition.
type Split struct {
	TestSize    float64 `mapstructure:"test_size" yaml:"test_size" validate:"gt=0,lt=1"`
	RandomState uint64  `mapstructure:"random_state" yaml:"random_state"`
}

// SetDefaults registers every key with its default value on v.
func SetDefaults(v *viper.Viper) {
	d := datasets.DefaultParams()

	v.SetDefault("server.addr", ":8501")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("defaults.a", d.A)
	v.SetDefault("defaults.b", d.B)
	v.SetDefault("defaults.noise", d.NoiseSigma)
	v.SetDefault("defaults.n", d.N)
	v.SetDefault("defaults.fixed_seed", true)
	v.SetDefault("generator.base_seed", datasets.DefaultBaseSeed)
	v.SetDefault("split.test_size", 0.2)
	v.SetDefault("split.random_state", 42)
}

// New returns a viper instance with defaults and environment overrides
// configured.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads cfgFile into v. With an empty cfgFile it looks for
// crispdm.yaml in the working directory and ./config, and a missing file is
// not an error. It returns the path of the file used, if any.
func ReadFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("crispdm")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	err := v.ReadInConfig()

	notFound := viper.ConfigFileNotFoundError{}
	switch {
	case err != nil && cfgFile == "" && errors.As(err, &notFound):
		// The config file is optional.
		return "", nil
	case err != nil:
		return "", errors.Wrap(err, "read config")
	}
	return v.ConfigFileUsed(), nil
}

// Decode unmarshals and validates v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is New, ReadFile and Decode in one call.
func Load(cfgFile string) (*Config, error) {
	v := New()
	if _, err := ReadFile(v, cfgFile); err != nil {
		return nil, err
	}
	return Decode(v)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section. Invalid default parameters are reported
// as an InvalidParameterError.
func (c *Config) Validate() error {
	if err := c.Defaults.Params.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(struct {
		Server Server
		Log    Log
		Split  Split
	}{c.Server, c.Log, c.Split}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewValueError("config",
				fmt.Sprintf("%s: failed %q (value %v)", strings.ToLower(fe.Namespace()), fe.Tag(), fe.Value()))
		}
		return errors.Wrap(err, "validate config")
	}
	return nil
}

// Default returns the configuration with no file or environment applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Decode(v)
	if err != nil {
		panic(err)
	}
	return cfg
}
