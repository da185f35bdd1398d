package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"greenchain/crypto"
)

func testAddress(t *testing.T) string {
	t.Helper()
	key, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	return key.PubKey().Address().String()
}

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.RPCAddress)
	require.Equal(t, "GRN", cfg.TokenSymbol)
	require.Equal(t, uint64(5), cfg.EpochIntervalSeconds)
	_, err = os.Stat(path)
	require.NoError(t, err, "default config file should be persisted")
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("NetworkName = \"testnet\"\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "testnet", cfg.NetworkName)
	require.Equal(t, "GRN_RPC_TOKEN", cfg.RPCTokenEnv)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "PauseAuthority")
	require.Contains(t, err.Error(), "Verifier")

	cfg.PauseAuthority = testAddress(t)
	cfg.Verifier = testAddress(t)
	require.NoError(t, cfg.Validate())

	cfg.Verifier = "xyz1notvalidhere"
	require.Error(t, cfg.Validate())
}
