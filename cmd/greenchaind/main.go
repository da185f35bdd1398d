package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenchain/config"
	"greenchain/core/epoch"
	"greenchain/core/state"
	"greenchain/crypto"
	"greenchain/native/bank"
	nativecommon "greenchain/native/common"
	"greenchain/native/incentive"
	"greenchain/observability/logging"
	"greenchain/rpc"
	"greenchain/storage"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./config.toml", "path to configuration file")
	flag.Parse()

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "greenchaind: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Setup("greenchaind", cfg.NetworkName)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	manager := state.NewManager(db)
	if !manager.TokenExists(cfg.TokenSymbol) {
		if err := manager.RegisterToken(cfg.TokenSymbol, "GreenChain Token", 18); err != nil {
			return fmt.Errorf("register token: %w", err)
		}
	}

	authority, err := crypto.DecodeAddress(cfg.PauseAuthority)
	if err != nil {
		return fmt.Errorf("pause authority: %w", err)
	}
	verifier, err := crypto.DecodeAddress(cfg.Verifier)
	if err != nil {
		return fmt.Errorf("verifier: %w", err)
	}
	verifierBytes := verifier.Bytes()
	if err := manager.SetRole(incentive.RoleProofVerifier, verifierBytes[:]); err != nil {
		return fmt.Errorf("grant verifier role: %w", err)
	}

	ledger, err := bank.NewLedger(manager, cfg.TokenSymbol)
	if err != nil {
		return fmt.Errorf("token ledger: %w", err)
	}

	clock := epoch.NewCounter(cfg.StartEpoch)
	engine := incentive.NewEngine(manager)
	engine.SetLedger(ledger)
	engine.SetEpochFunc(clock.Current)
	engine.SetPauseRegistry(nativecommon.NewPauseRegistry(authority.Bytes()))

	ticker := time.NewTicker(time.Duration(cfg.EpochIntervalSeconds) * time.Second)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			clock.Advance()
		}
	}()

	server := rpc.NewServer(engine, cfg.RPCTokenEnv)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("rpc server listening", "address", cfg.RPCAddress)
		errCh <- server.Start(cfg.RPCAddress)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		return nil
	case err := <-errCh:
		return fmt.Errorf("rpc server: %w", err)
	}
}
