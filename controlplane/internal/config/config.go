package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"vpnaas/controlplane/internal/infra"
	"vpnaas/controlplane/internal/service"
	"vpnaas/controlplane/internal/validation"
)

// Environment variables that override the config file.
const (
	EnvBackend    = "VPN_BACKEND"
	EnvDBDriver   = "VPN_DB_DRIVER"
	EnvDBDSN      = "VPN_DB_DSN"
	EnvLogLevel   = "VPN_LOG_LEVEL"
	EnvLogFormat  = "VPN_LOG_FORMAT"
	EnvNetworkURL = "VPN_NETWORK_API_URL"
	EnvNetworkTok = "VPN_NETWORK_TOKEN"
)

const (
	defaultDSN       = "controlplane.db"
	defaultInventory = "inventory.yaml"
)

type Config struct {
	Backend  string         `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Resolver ResolverConfig `yaml:"resolver"`
	IDRanges IDRangesConfig `yaml:"id_ranges"`
	Network  NetworkConfig  `yaml:"network"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ResolverConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// IDRangesConfig holds device capacity limits. Tunnel ids run from 0 to
// MaxTunnels-1, policy ids from 1 to their max.
type IDRangesConfig struct {
	MaxTunnels       int `yaml:"max_tunnels"`
	MaxIkePolicies   int `yaml:"max_ike_policies"`
	MaxIpsecPolicies int `yaml:"max_ipsec_policies"`
}

// NetworkConfig selects where router and subnet data comes from. An
// empty APIURL means the inventory file is used.
type NetworkConfig struct {
	APIURL    string `yaml:"api_url"`
	Token     string `yaml:"token"`
	Inventory string `yaml:"inventory"`
}

func Default() Config {
	return Config{
		Backend:  validation.BackendReference,
		Database: DatabaseConfig{Driver: infra.DriverSQLite, DSN: defaultDSN},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Resolver: ResolverConfig{Timeout: validation.DefaultResolveTimeout},
		IDRanges: IDRangesConfig{
			MaxTunnels:       service.DefaultMaxTunnels,
			MaxIkePolicies:   service.DefaultMaxIkePolicies,
			MaxIpsecPolicies: service.DefaultMaxIpsecPolicies,
		},
		Network: NetworkConfig{Inventory: defaultInventory},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	override(&c.Backend, EnvBackend)
	override(&c.Database.Driver, EnvDBDriver)
	override(&c.Database.DSN, EnvDBDSN)
	override(&c.Logging.Level, EnvLogLevel)
	override(&c.Logging.Format, EnvLogFormat)
	override(&c.Network.APIURL, EnvNetworkURL)
	override(&c.Network.Token, EnvNetworkTok)
}

// Ranges converts the configured limits into allocator ranges.
func (c Config) Ranges() service.Ranges {
	return service.RangesFromLimits(c.IDRanges.MaxTunnels, c.IDRanges.MaxIkePolicies, c.IDRanges.MaxIpsecPolicies)
}

func (c Config) Validate() error {
	var errs []string

	if !slices.Contains(validation.BackendNames(), c.Backend) {
		errs = append(errs, fmt.Sprintf("backend must be one of %s", strings.Join(validation.BackendNames(), ", ")))
	}

	switch c.Database.Driver {
	case infra.DriverSQLite, infra.DriverPostgres, infra.DriverMySQL:
		// ok
	default:
		errs = append(errs, "database.driver must be sqlite, postgres or mysql")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, "database.dsn is required")
	}

	switch c.Logging.Format {
	case "text", "json":
		// ok
	default:
		errs = append(errs, "logging.format must be text or json")
	}

	if c.Resolver.Timeout <= 0 {
		errs = append(errs, "resolver.timeout must be positive")
	}

	if c.IDRanges.MaxTunnels < 1 {
		errs = append(errs, "id_ranges.max_tunnels must be at least 1")
	}
	if c.IDRanges.MaxIkePolicies < 1 {
		errs = append(errs, "id_ranges.max_ike_policies must be at least 1")
	}
	if c.IDRanges.MaxIpsecPolicies < 1 {
		errs = append(errs, "id_ranges.max_ipsec_policies must be at least 1")
	}

	if c.Network.APIURL != "" {
		if u, err := url.Parse(c.Network.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, "network.api_url must be an absolute URL")
		}
	} else if strings.TrimSpace(c.Network.Inventory) == "" {
		errs = append(errs, "network.inventory is required when network.api_url is empty")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
