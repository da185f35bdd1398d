package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config drives the greenchaind daemon. Addresses are bech32 strings with the
// grn prefix; they are validated by Validate, not at decode time, so a broken
// file produces one aggregate error instead of a partial struct.
type Config struct {
	RPCAddress     string `toml:"RPCAddress"`
	DataDir        string `toml:"DataDir"`
	NetworkName    string `toml:"NetworkName"`
	TokenSymbol    string `toml:"TokenSymbol"`
	PauseAuthority string `toml:"PauseAuthority"`
	Verifier       string `toml:"Verifier"`
	// EpochIntervalSeconds controls how often the daemon advances the
	// monotonic epoch counter.
	EpochIntervalSeconds uint64 `toml:"EpochIntervalSeconds"`
	StartEpoch           uint64 `toml:"StartEpoch"`
	// RPCTokenEnv names the environment variable holding the bearer token
	// for privileged RPC methods.
	RPCTokenEnv string `toml:"RPCTokenEnv"`
}

// Load reads the configuration from the given path, creating a default file
// on first run.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = ":8080"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./greenchain-data"
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "greenchain-local"
	}
	if strings.TrimSpace(cfg.TokenSymbol) == "" {
		cfg.TokenSymbol = "GRN"
	}
	if cfg.EpochIntervalSeconds == 0 {
		cfg.EpochIntervalSeconds = 5
	}
	if strings.TrimSpace(cfg.RPCTokenEnv) == "" {
		cfg.RPCTokenEnv = "GRN_RPC_TOKEN"
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
