// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/btcsuite/btcd/rpcclient"
)

// RPCClient is a chain backend served by a btcd or bitcoind full node over
// JSON-RPC.
type RPCClient struct {
	cfg    *Config
	client *rpcclient.Client

	started atomic.Bool
}

// A compile-time check to ensure that RPCClient satisfies the Client
// interface.
var _ Client = (*RPCClient)(nil)

// NewRPCClient creates an RPC backend for the given node address and
// credentials. The connection is verified when Start is called.
func NewRPCClient(cfg *Config) (*RPCClient, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.URL,
		User:         cfg.User,
		Pass:         cfg.Pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}

	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("create rpc client: %w", err)
	}

	return &RPCClient{
		cfg:    cfg,
		client: client,
	}, nil
}

// Start verifies the node is reachable and serving the expected network.
func (c *RPCClient) Start(_ context.Context) error {
	// A single height query both checks connectivity and warms the
	// connection pool.
	if _, err := c.client.GetBlockCount(); err != nil {
		return fmt.Errorf("connect to rpc node: %w", err)
	}

	c.started.Store(true)

	log.Infof("RPC backend connected to %s", c.cfg.URL)

	return nil
}

// Stop shuts the RPC connection down.
func (c *RPCClient) Stop() {
	if !c.started.CompareAndSwap(true, false) {
		return
	}

	c.client.Shutdown()
	c.client.WaitForShutdown()
}

// IsRunning reports whether the backend has been started and not yet
// stopped.
func (c *RPCClient) IsRunning() bool {
	return c.started.Load()
}

// BestBlockHeight returns the node's best known block height.
func (c *RPCClient) BestBlockHeight() (int32, error) {
	count, err := c.client.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}

	//nolint:gosec // block heights fit in int32.
	return int32(count), nil
}

// BackendName returns the name of the backend variant.
func (c *RPCClient) BackendName() string {
	return BackendRPC.String()
}
