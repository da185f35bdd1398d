package config

import (
	"fmt"
	"strings"

	"greenchain/crypto"
)

// Validate checks that the loaded configuration can actually run a daemon.
// Validation errors are aggregated so operators see every problem at once.
func (cfg *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(cfg.PauseAuthority) == "" {
		problems = append(problems, "PauseAuthority is required")
	} else if _, err := crypto.DecodeAddress(cfg.PauseAuthority); err != nil {
		problems = append(problems, fmt.Sprintf("PauseAuthority: %v", err))
	}
	if strings.TrimSpace(cfg.Verifier) == "" {
		problems = append(problems, "Verifier is required")
	} else if _, err := crypto.DecodeAddress(cfg.Verifier); err != nil {
		problems = append(problems, fmt.Sprintf("Verifier: %v", err))
	}
	if cfg.EpochIntervalSeconds == 0 {
		problems = append(problems, "EpochIntervalSeconds must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}
