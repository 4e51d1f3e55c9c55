// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	flags "github.com/jessevdk/go-flags"
	"github.com/walletkit/descwallet/chain"
	"github.com/walletkit/descwallet/descriptor"
	"github.com/walletkit/descwallet/wallet"
)

const (
	defaultLogFilename = "descwallet.log"

	// defaultStallTimeout bounds how long a sync session waits for the
	// backend's one-shot state update before giving up.
	defaultStallTimeout = 30 * time.Minute
)

// config describes the command line options of the tool. The first
// positional argument selects the operation to run.
type config struct {
	Network      string        `long:"network" description:"Bitcoin network to operate on {mainnet, testnet, signet, regtest, simnet}" default:"mainnet"`
	Key          string        `long:"key" description:"Extended key (xprv or xpub) to derive descriptors from"`
	ScriptType   string        `long:"type" description:"Script type of the derived descriptors {bip44, bip49, bip84, bip86}" default:"bip84"`
	Backend      string        `long:"backend" description:"Chain backend to sync against {cbf, rpc, esplora, electrum}" default:"cbf"`
	URL          string        `long:"url" description:"Backend endpoint (host:port for rpc/electrum, base URL for esplora)"`
	User         string        `long:"user" description:"RPC username"`
	Pass         string        `long:"pass" description:"RPC password"`
	DataDir      string        `long:"datadir" description:"Directory to store chain data in" default:"."`
	ConnectPeers []string      `long:"connect" description:"Peer addresses the compact filter backend connects to instead of discovering peers"`
	StallTimeout time.Duration `long:"stalltimeout" description:"Abort the sync session if no state update arrives within this duration"`
	LogDir       string        `long:"logdir" description:"Directory to write rotated log files into; logging goes to stdout only when unset"`
	DebugLevel   string        `long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}" default:"info"`

	Args struct {
		Command string `positional-arg-name:"command" description:"Operation to run {derive, multipath, generate, sync}"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if _, err := flags.Parse(&cfg); err != nil {
		// The help flag prints usage on its own.
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	if cfg.LogDir != "" {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := initLogRotator(logFile); err != nil {
			return err
		}
		defer logRotator.Close()
	}
	if err := setLogLevels(cfg.DebugLevel); err != nil {
		return err
	}

	params, err := netParams(cfg.Network)
	if err != nil {
		return err
	}

	switch cfg.Args.Command {
	case "derive":
		scriptType, err := descriptor.ParseScriptType(cfg.ScriptType)
		if err != nil {
			return err
		}

		resp, err := descriptor.DeriveFromKey(
			params, cfg.Key, scriptType,
		)
		if err != nil {
			return err
		}

		return printJSON(resp)

	case "multipath":
		scriptType, err := descriptor.ParseScriptType(cfg.ScriptType)
		if err != nil {
			return err
		}

		resp, err := descriptor.DeriveMultipath(
			params, cfg.Key, scriptType,
		)
		if err != nil {
			return err
		}

		return printJSON(resp)

	case "generate":
		generated, err := descriptor.GenerateBip84Wallet(params)
		if err != nil {
			return err
		}

		return printJSON(generated)

	case "sync":
		return runSync(&cfg, params)

	default:
		return fmt.Errorf("unknown command %q, want one of "+
			"{derive, multipath, generate, sync}",
			cfg.Args.Command)
	}
}

// runSync starts the configured chain backend, multiplexes its event streams
// and applies the resulting wallet state update. It blocks until the sync
// session finishes or an interrupt is received.
func runSync(cfg *config, params *chaincfg.Params) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	backend, err := chain.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	client, err := chain.NewClient(&chain.Config{
		Backend:      backend,
		Params:       params,
		URL:          cfg.URL,
		User:         cfg.User,
		Pass:         cfg.Pass,
		DataDir:      cfg.DataDir,
		ConnectPeers: cfg.ConnectPeers,
	})
	if err != nil {
		return err
	}

	// Streaming sync sessions are currently only implemented by the
	// compact filter backend; the other backends expose polling access
	// only.
	cbf, ok := client.(*chain.CBFClient)
	if !ok {
		return fmt.Errorf("the %s backend does not stream sync "+
			"events, use the cbf backend", client.BackendName())
	}

	if err := client.Start(ctx); err != nil {
		return err
	}
	defer client.Stop()

	stallTimeout := cfg.StallTimeout
	if stallTimeout == 0 {
		stallTimeout = defaultStallTimeout
	}

	store := wallet.New()
	syncer := wallet.NewSyncer(wallet.SyncConfig{
		Store:        store,
		Logs:         cbf.Logs(),
		Infos:        cbf.Infos(),
		Warnings:     cbf.Warnings(),
		Updates:      cbf.Updates(),
		StallTimeout: stallTimeout,
	})

	outcome, err := syncer.Run(ctx, client)
	if err != nil {
		return err
	}

	return printJSON(outcome)
}

// netParams maps a network name to its chain parameters.
func netParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil

	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil

	case "signet":
		return &chaincfg.SigNetParams, nil

	case "regtest":
		return &chaincfg.RegressionNetParams, nil

	case "simnet":
		return &chaincfg.SimNetParams, nil

	default:
		return nil, fmt.Errorf("unknown network %q", network)
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}
