// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcwallet/walletdb"
	_ "github.com/btcsuite/btcwallet/walletdb/bdb" // Register bdb walletdb driver.
	"github.com/lightninglabs/neutrino"
)

const (
	// cbfDBTimeout bounds how long the header store waits for its
	// database lock.
	cbfDBTimeout = 5 * time.Second

	// cbfPollInterval is how often the client samples the light client's
	// sync progress while producing status events.
	cbfPollInterval = time.Second

	// Event channel capacities. The buffers absorb short consumer stalls
	// without blocking the poll loop; within each channel delivery order
	// is preserved.
	cbfLogBuffer     = 64
	cbfInfoBuffer    = 16
	cbfWarningBuffer = 16
)

// CBFClient is a compact-filter light client backend. Besides the plain
// Client surface it exposes four independently-owned event stream handles:
// three recurring streams (debug log lines, status events, warnings) and a
// one-shot update channel that yields once the light client considers itself
// synced.
type CBFClient struct {
	cfg *Config

	svc *neutrino.ChainService
	db  walletdb.DB

	logs     chan string
	infos    chan SyncInfo
	warnings chan SyncWarning
	updates  chan *Update

	started atomic.Bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

// A compile-time check to ensure that CBFClient satisfies the Client
// interface.
var _ Client = (*CBFClient)(nil)

// NewCBFClient creates a compact-filter backend over the given data
// directory. The connection is not established until Start is called.
func NewCBFClient(cfg *Config) (*CBFClient, error) {
	db, err := walletdb.Create(
		"bdb", filepath.Join(cfg.DataDir, "neutrino.db"), true,
		cbfDBTimeout, false,
	)
	if err != nil {
		return nil, fmt.Errorf("create header store: %w", err)
	}

	svc, err := neutrino.NewChainService(neutrino.Config{
		DataDir:      cfg.DataDir,
		Database:     db,
		ChainParams:  *cfg.Params,
		ConnectPeers: cfg.ConnectPeers,
	})
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("create chain service: %w", err)
	}

	return &CBFClient{
		cfg:      cfg,
		svc:      svc,
		db:       db,
		logs:     make(chan string, cbfLogBuffer),
		infos:    make(chan SyncInfo, cbfInfoBuffer),
		warnings: make(chan SyncWarning, cbfWarningBuffer),
		updates:  make(chan *Update, 1),
		quit:     make(chan struct{}),
	}, nil
}

// Start connects the light client to the network and begins producing sync
// events.
func (c *CBFClient) Start(ctx context.Context) error {
	if err := c.svc.Start(ctx); err != nil {
		return fmt.Errorf("start chain service: %w", err)
	}

	c.started.Store(true)

	c.wg.Add(1)
	go c.pollSync()

	log.Infof("Compact-filter backend started on %s", c.cfg.Params.Name)

	return nil
}

// Stop disconnects the light client and closes the header store. The event
// channels stop producing but are intentionally left open; consumers exit
// via their own lifecycle, not by observing channel closure.
func (c *CBFClient) Stop() {
	if !c.started.CompareAndSwap(true, false) {
		return
	}

	close(c.quit)
	c.wg.Wait()

	if err := c.svc.Stop(); err != nil {
		log.Warnf("Unable to stop chain service cleanly: %v", err)
	}
	if err := c.db.Close(); err != nil {
		log.Warnf("Unable to close header store cleanly: %v", err)
	}
}

// IsRunning reports whether the backend has been started and not yet
// stopped.
func (c *CBFClient) IsRunning() bool {
	return c.started.Load()
}

// BestBlockHeight returns the light client's best known block height.
func (c *CBFClient) BestBlockHeight() (int32, error) {
	stamp, err := c.svc.BestBlock()
	if err != nil {
		return 0, fmt.Errorf("best block: %w", err)
	}

	return stamp.Height, nil
}

// BackendName returns the name of the backend variant.
func (c *CBFClient) BackendName() string {
	return BackendCompactFilters.String()
}

// Logs returns the recurring debug log stream.
func (c *CBFClient) Logs() <-chan string {
	return c.logs
}

// Infos returns the recurring status event stream.
func (c *CBFClient) Infos() <-chan SyncInfo {
	return c.infos
}

// Warnings returns the recurring warning event stream.
func (c *CBFClient) Warnings() <-chan SyncWarning {
	return c.warnings
}

// Updates returns the one-shot update channel. At most one update is ever
// produced per client lifetime.
func (c *CBFClient) Updates() <-chan *Update {
	return c.updates
}

// pollSync samples the light client's progress and translates it into the
// event streams. The recurring streams keep producing after the one-shot
// update has been delivered; the loop only exits when the client stops.
func (c *CBFClient) pollSync() {
	defer c.wg.Done()

	t := time.NewTicker(cbfPollInterval)
	defer t.Stop()

	updateSent := false

	for {
		select {
		case <-t.C:

		case <-c.quit:
			return
		}

		stamp, err := c.svc.BestBlock()
		if err != nil {
			c.sendWarning(SyncWarning{
				Reason: fmt.Sprintf("best block query "+
					"failed: %v", err),
			})

			continue
		}

		current := c.svc.IsCurrent()

		info := SyncInfo{Height: stamp.Height, Current: current}
		c.sendInfo(info)
		c.sendLog(info.String())

		if current && !updateSent {
			update := &Update{
				Tip: BlockMeta{
					Hash:      stamp.Hash,
					Height:    stamp.Height,
					Timestamp: stamp.Timestamp,
				},
			}

			select {
			case c.updates <- update:
				updateSent = true

			case <-c.quit:
				return
			}
		}
	}
}

// sendLog delivers a log line unless the client is shutting down.
func (c *CBFClient) sendLog(msg string) {
	select {
	case c.logs <- msg:
	case <-c.quit:
	}
}

// sendInfo delivers a status event unless the client is shutting down.
func (c *CBFClient) sendInfo(info SyncInfo) {
	select {
	case c.infos <- info:
	case <-c.quit:
	}
}

// sendWarning delivers a warning event unless the client is shutting down.
func (c *CBFClient) sendWarning(warning SyncWarning) {
	select {
	case c.warnings <- warning:
	case <-c.quit:
	}
}
