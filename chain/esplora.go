// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// esploraRequestTimeout bounds each HTTP request to the Esplora API.
	esploraRequestTimeout = 30 * time.Second

	// esploraMaxBodySize caps Esplora response bodies. The endpoints used
	// here return a bare integer, so anything larger indicates a
	// misbehaving server.
	esploraMaxBodySize = 1 << 10
)

// EsploraClient is a chain backend served by an Esplora HTTP API.
type EsploraClient struct {
	cfg        *Config
	baseURL    string
	httpClient *http.Client

	started atomic.Bool
}

// A compile-time check to ensure that EsploraClient satisfies the Client
// interface.
var _ Client = (*EsploraClient)(nil)

// NewEsploraClient creates an Esplora backend for the given base URL. The
// endpoint is verified when Start is called.
func NewEsploraClient(cfg *Config) (*EsploraClient, error) {
	return &EsploraClient{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: esploraRequestTimeout,
		},
	}, nil
}

// Start verifies the endpoint is reachable by querying the chain tip.
func (c *EsploraClient) Start(ctx context.Context) error {
	if _, err := c.tipHeight(ctx); err != nil {
		return fmt.Errorf("connect to esplora endpoint: %w", err)
	}

	c.started.Store(true)

	log.Infof("Esplora backend connected to %s", c.baseURL)

	return nil
}

// Stop releases the backend's idle connections.
func (c *EsploraClient) Stop() {
	if !c.started.CompareAndSwap(true, false) {
		return
	}

	c.httpClient.CloseIdleConnections()
}

// IsRunning reports whether the backend has been started and not yet
// stopped.
func (c *EsploraClient) IsRunning() bool {
	return c.started.Load()
}

// BestBlockHeight returns the endpoint's best known block height.
func (c *EsploraClient) BestBlockHeight() (int32, error) {
	return c.tipHeight(context.Background())
}

// BackendName returns the name of the backend variant.
func (c *EsploraClient) BackendName() string {
	return BackendEsplora.String()
}

// tipHeight queries the /blocks/tip/height endpoint.
func (c *EsploraClient) tipHeight(ctx context.Context) (int32, error) {
	url := c.baseURL + "/blocks/tip/height"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build tip request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("query tip height: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("query tip height: unexpected status %s",
			resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, esploraMaxBodySize))
	if err != nil {
		return 0, fmt.Errorf("read tip response: %w", err)
	}

	height, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse tip height: %w", err)
	}

	return int32(height), nil
}
