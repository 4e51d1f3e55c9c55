// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrNodeNotRunning is returned when an operation requires a started
	// chain backend but the backend is stopped or never started.
	ErrNodeNotRunning = errors.New("chain backend is not running")

	// ErrUnknownBackend is returned when a backend name or value is not
	// one of the supported variants.
	ErrUnknownBackend = errors.New("unknown chain backend")
)

// Backend identifies a chain backend variant. The variant is selected at
// construction time via Config rather than at compile time.
type Backend uint8

const (
	// BackendCompactFilters is an in-process BIP157/158 light client.
	BackendCompactFilters Backend = iota

	// BackendRPC is a btcd or bitcoind full node reached over JSON-RPC.
	BackendRPC

	// BackendEsplora is an Esplora HTTP API endpoint.
	BackendEsplora

	// BackendElectrum is an Electrum server reached over TCP.
	BackendElectrum
)

// String returns the string representation of a Backend.
func (b Backend) String() string {
	switch b {
	case BackendCompactFilters:
		return "compact-filters"

	case BackendRPC:
		return "rpc"

	case BackendEsplora:
		return "esplora"

	case BackendElectrum:
		return "electrum"

	default:
		return "unknown backend"
	}
}

// ParseBackend parses a textual backend name such as "esplora". The
// compact-filter backend is also accepted under its short alias "cbf".
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "compact-filters", "cbf":
		return BackendCompactFilters, nil

	case "rpc":
		return BackendRPC, nil

	case "esplora":
		return BackendEsplora, nil

	case "electrum":
		return BackendElectrum, nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Client is the opaque handle every chain backend exposes to the rest of the
// wallet. Construction, connection management and transport details stay
// inside the chain package.
type Client interface {
	// Start connects the backend and makes it ready to serve queries.
	Start(ctx context.Context) error

	// Stop disconnects the backend and releases its resources. It is
	// safe to call on a client that was never started.
	Stop()

	// IsRunning reports whether the backend has been started and not yet
	// stopped.
	IsRunning() bool

	// BestBlockHeight returns the backend's best known block height.
	BestBlockHeight() (int32, error)

	// BackendName returns the name of the backend variant.
	BackendName() string
}

// Config describes how to construct a chain backend.
type Config struct {
	// Backend selects the backend variant.
	Backend Backend

	// Params defines the bitcoin network the backend must serve.
	Params *chaincfg.Params

	// URL is the server address: host:port for rpc and electrum, a base
	// URL for esplora. Unused by the compact-filter backend.
	URL string

	// User and Pass are the JSON-RPC credentials for the rpc backend.
	User string
	Pass string

	// DataDir is the directory the compact-filter backend keeps its
	// header store in.
	DataDir string

	// ConnectPeers are the peers the compact-filter backend connects to.
	// When empty the backend discovers peers on its own.
	ConnectPeers []string
}

// validate checks the required config options are set for the selected
// backend.
func (c *Config) validate() error {
	if c == nil {
		return errors.New("missing chain config")
	}

	if c.Params == nil {
		return errors.New("missing chain params config")
	}

	switch c.Backend {
	case BackendCompactFilters:
		if c.DataDir == "" {
			return errors.New("compact-filter backend requires " +
				"a data directory")
		}

	case BackendRPC, BackendEsplora, BackendElectrum:
		if c.URL == "" {
			return fmt.Errorf("%s backend requires a URL",
				c.Backend)
		}

	default:
		return fmt.Errorf("%w: %d", ErrUnknownBackend, c.Backend)
	}

	return nil
}

// NewClient constructs the chain backend selected by the config.
func NewClient(cfg *Config) (Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendCompactFilters:
		return NewCBFClient(cfg)

	case BackendRPC:
		return NewRPCClient(cfg)

	case BackendEsplora:
		return NewEsploraClient(cfg)

	case BackendElectrum:
		return NewElectrumClient(cfg)

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBackend,
			cfg.Backend)
	}
}
