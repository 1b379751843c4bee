package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PrivateKeyEnv overrides ledger.private_key so the minter key can stay out of the file.
const PrivateKeyEnv = "LEDGER_PRIVATE_KEY"

type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Course struct {
		TTL string `yaml:"ttl"`
	} `yaml:"course"`
	Ledger struct {
		RPCURL          string `yaml:"rpc_url"`
		ContractAddress string `yaml:"contract_address"`
		PrivateKey      string `yaml:"private_key"`
		GasLimit        uint64 `yaml:"gas_limit"`
	} `yaml:"ledger"`
	Certification struct {
		// PassThreshold is nil when unset; Load rejects values outside (0, 100].
		PassThreshold *float64 `yaml:"pass_threshold"`
		CheckTimeout  string   `yaml:"check_timeout"`
		MintTimeout   string   `yaml:"mint_timeout"`
	} `yaml:"certification"`
}

// Load reads YAML config from path and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if key := os.Getenv(PrivateKeyEnv); key != "" {
		cfg.Ledger.PrivateKey = key
	}
	if t := cfg.Certification.PassThreshold; t != nil && (*t <= 0 || *t > 100) {
		return cfg, fmt.Errorf("certification.pass_threshold must be in (0, 100], got %v", *t)
	}
	if cfg.Env == "" {
		cfg.Env = "local"
	}
	return cfg, nil
}

// LedgerEnabled reports whether an on-chain ledger is configured.
func (c Config) LedgerEnabled() bool {
	return c.Ledger.RPCURL != ""
}

// PassThreshold returns the configured threshold, or fallback when unset.
func (c Config) PassThreshold(fallback float64) float64 {
	if c.Certification.PassThreshold == nil {
		return fallback
	}
	return *c.Certification.PassThreshold
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
