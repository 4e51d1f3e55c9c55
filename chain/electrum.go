// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// electrumDialTimeout bounds the initial TCP connection.
	electrumDialTimeout = 10 * time.Second

	// electrumCallTimeout bounds each request/response round trip.
	electrumCallTimeout = 30 * time.Second

	// electrumProtocolVersion is the protocol version negotiated during
	// the server.version handshake.
	electrumProtocolVersion = "1.4"
)

// electrumRequest is a single JSON-RPC request frame.
type electrumRequest struct {
	ID     uint64 `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params"`
}

// electrumResponse is a single JSON-RPC response frame.
type electrumResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// ElectrumClient is a chain backend served by an Electrum server over a
// plain TCP JSON-RPC connection.
type ElectrumClient struct {
	cfg *Config

	// mu serializes request/response round trips on the shared
	// connection.
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID uint64

	started atomic.Bool
}

// A compile-time check to ensure that ElectrumClient satisfies the Client
// interface.
var _ Client = (*ElectrumClient)(nil)

// NewElectrumClient creates an Electrum backend for the given server
// address. The connection is established when Start is called.
func NewElectrumClient(cfg *Config) (*ElectrumClient, error) {
	return &ElectrumClient{cfg: cfg}, nil
}

// Start connects to the server and performs the protocol version handshake.
func (c *ElectrumClient) Start(_ context.Context) error {
	conn, err := net.DialTimeout("tcp", c.cfg.URL, electrumDialTimeout)
	if err != nil {
		return fmt.Errorf("connect to electrum server: %w", err)
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)

	_, err = c.call("server.version", []any{
		"descwallet", electrumProtocolVersion,
	})
	if err != nil {
		_ = conn.Close()

		return fmt.Errorf("electrum version handshake: %w", err)
	}

	c.started.Store(true)

	log.Infof("Electrum backend connected to %s", c.cfg.URL)

	return nil
}

// Stop closes the server connection.
func (c *ElectrumClient) Stop() {
	if !c.started.CompareAndSwap(true, false) {
		return
	}

	_ = c.conn.Close()
}

// IsRunning reports whether the backend has been started and not yet
// stopped.
func (c *ElectrumClient) IsRunning() bool {
	return c.started.Load()
}

// BestBlockHeight returns the server's best known block height.
func (c *ElectrumClient) BestBlockHeight() (int32, error) {
	result, err := c.call("blockchain.headers.subscribe", []any{})
	if err != nil {
		return 0, fmt.Errorf("subscribe to headers: %w", err)
	}

	var tip struct {
		Height int32 `json:"height"`
	}
	if err := json.Unmarshal(result, &tip); err != nil {
		return 0, fmt.Errorf("parse headers response: %w", err)
	}

	return tip.Height, nil
}

// BackendName returns the name of the backend variant.
func (c *ElectrumClient) BackendName() string {
	return BackendElectrum.String()
}

// call performs one synchronous JSON-RPC round trip. Electrum servers may
// interleave subscription notifications (frames without a matching id) with
// responses, so the read loop skips frames until the request id answers.
func (c *ElectrumClient) call(method string, params []any) (json.RawMessage,
	error) {

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	req := electrumRequest{
		ID:     c.nextID,
		Method: method,
		Params: params,
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	deadline := time.Now().Add(electrumCallTimeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		var resp electrumResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}

		if resp.ID != req.ID {
			continue
		}

		if len(resp.Error) > 0 && string(resp.Error) != "null" {
			return nil, fmt.Errorf("electrum error: %s",
				resp.Error)
		}

		return resp.Result, nil
	}
}
