package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ssokit/slogate/pkg/logging"
)

type Config struct {
	BindAddress        string `json:"bind-address"`
	LogFormat          string `json:"log-format"`
	LogLevel           string `json:"log-level"`
	MetricsBindAddress string `json:"metrics-bind-address"`

	ShutdownGracefulPeriod   time.Duration `json:"shutdown-graceful-period"`
	ShutdownWaitBeforePeriod time.Duration `json:"shutdown-wait-before-period"`

	SLO      SLO      `json:"slo"`
	Services Services `json:"services"`
	Redis    Redis    `json:"redis"`
}

const (
	BindAddress        = "bind-address"
	LogFormat          = "log-format"
	LogLevel           = "log-level"
	MetricsBindAddress = "metrics-bind-address"

	ShutdownGracefulPeriod   = "shutdown-graceful-period"
	ShutdownWaitBeforePeriod = "shutdown-wait-before-period"
)

func Initialize() (*Config, error) {
	viper.SetEnvPrefix("SLOGATE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.SetConfigName("slogate")
	viper.AddConfigPath(".")

	flag.String(BindAddress, "127.0.0.1:3000", "Listen address for the logout API.")
	flag.String(LogFormat, "json", "Log format, either 'json' or 'text'.")
	flag.String(LogLevel, "info", "Logging verbosity level.")
	flag.String(MetricsBindAddress, "127.0.0.1:3001", "Listen address for metrics only.")

	flag.Duration(ShutdownGracefulPeriod, 30*time.Second, "Total time allowed for graceful shutdown.")
	flag.Duration(ShutdownWaitBeforePeriod, 0, "Time to wait after receiving a shutdown signal before starting graceful shutdown.")

	sloFlags()
	servicesFlags()
	redisFlags()

	flag.Parse()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		return nil, err
	}

	cfg := new(Config)
	if err := viper.Unmarshal(cfg, jsonTagNames); err != nil {
		return nil, err
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}

	log.Tracef("Trace logging enabled")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.SLO.Validate(); err != nil {
		return err
	}

	if c.Services.RegistryFile == "" {
		return fmt.Errorf("%q must point to a service registry file", ServicesRegistryFile)
	}

	return nil
}

// The struct tags follow the flag names, which use the json tag convention.
func jsonTagNames(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
}
