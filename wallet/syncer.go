// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/walletkit/descwallet/chain"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUpdateChannelClosed is returned when the one-shot update source
	// terminates without ever producing a value.
	ErrUpdateChannelClosed = errors.New("update source closed without " +
		"a value")

	// ErrSyncStalled is returned when the optional stall watchdog fires
	// before the one-shot update arrives.
	ErrSyncStalled = errors.New("sync session stalled")

	// ErrMissingUpdateSource is returned when a sync session is
	// configured without an update channel or a wallet state store.
	ErrMissingUpdateSource = errors.New("sync session requires an " +
		"update source and a wallet state store")
)

// sessionState represents the lifecycle of a single sync session.
type sessionState uint32

const (
	// sessionStarting indicates the session has been created but not yet
	// run.
	sessionStarting sessionState = iota

	// sessionRunning indicates the session is draining event streams and
	// awaiting the one-shot state update.
	sessionRunning

	// sessionCompleted indicates the update was received and applied.
	sessionCompleted

	// sessionFailed indicates the session ended without applying an
	// update.
	sessionFailed
)

// String returns the string representation of a sessionState.
func (s sessionState) String() string {
	switch s {
	case sessionStarting:
		return "starting"

	case sessionRunning:
		return "running"

	case sessionCompleted:
		return "completed"

	case sessionFailed:
		return "failed"

	default:
		return "unknown session state"
	}
}

// EventSink receives the recurring events a sync backend emits while a
// session runs. The sink is injected by the caller, which owns its
// lifecycle; the syncer never installs process-wide observers.
type EventSink interface {
	// Log receives a debug log line.
	Log(msg string)

	// Info receives an informational status message.
	Info(msg string)

	// Warn receives a warning message.
	Warn(msg string)
}

// logSink is the default sink. It forwards events to the package logger.
type logSink struct{}

func (logSink) Log(msg string)  { log.Debugf("%s", msg) }
func (logSink) Info(msg string) { log.Infof("%s", msg) }
func (logSink) Warn(msg string) { log.Warnf("%s", msg) }

// SyncOutcome reports the wallet state after a completed sync session.
type SyncOutcome struct {
	// TipHeight is the chain tip height the wallet synced to.
	TipHeight int32 `json:"tip_height"`

	// TxCount is the number of wallet transactions known.
	TxCount int `json:"tx_count"`

	// Balance is the total wallet balance in satoshis.
	Balance btcutil.Amount `json:"balance"`
}

// SyncConfig holds the collaborators and event sources of a sync session.
// The three recurring streams and the one-shot update source are passed as
// four independently-owned channel handles, decoupling the syncer from how
// the backend bundles them.
type SyncConfig struct {
	// Store is the wallet state the received update is applied to.
	Store UpdateStore

	// Logs is the recurring debug log stream. May be nil.
	Logs <-chan string

	// Infos is the recurring status event stream. May be nil.
	Infos <-chan chain.SyncInfo

	// Warnings is the recurring warning event stream. May be nil.
	Warnings <-chan chain.SyncWarning

	// Updates is the one-shot state update source. It is awaited exactly
	// once per session.
	Updates <-chan *chain.Update

	// Sink receives the forwarded recurring events. When nil the events
	// are forwarded to the package logger.
	Sink EventSink

	// StallTimeout optionally bounds how long the session waits for the
	// one-shot update. Zero disables the watchdog, in which case an
	// external watchdog is expected to cancel the session context if the
	// update never arrives.
	StallTimeout time.Duration
}

// Syncer multiplexes the event streams of a sync backend: it concurrently
// drains the three recurring streams into the sink while awaiting the
// one-shot state update, applies the update atomically to the wallet state,
// and reports the resulting state.
type Syncer struct {
	cfg SyncConfig

	// state tracks the session lifecycle.
	state atomic.Uint32

	// stallTicker drives the optional stall watchdog. Nil when the
	// watchdog is disabled.
	stallTicker ticker.Ticker
}

// NewSyncer creates a syncer for a single sync session.
func NewSyncer(cfg SyncConfig) *Syncer {
	if cfg.Sink == nil {
		cfg.Sink = logSink{}
	}

	s := &Syncer{cfg: cfg}
	if cfg.StallTimeout > 0 {
		s.stallTicker = ticker.New(cfg.StallTimeout)
	}

	s.state.Store(uint32(sessionStarting))

	return s
}

// status returns the current session state.
func (s *Syncer) status() sessionState {
	return sessionState(s.state.Load())
}

// Run executes the sync session against the given backend. It blocks until
// the one-shot update has been received and applied, the watchdog fires, or
// the context is canceled. The recurring streams are drained for the whole
// duration of the call, including while a received update is being applied.
func (s *Syncer) Run(ctx context.Context, client chain.Client) (*SyncOutcome,
	error) {

	if s.cfg.Store == nil || s.cfg.Updates == nil {
		s.state.Store(uint32(sessionFailed))

		return nil, ErrMissingUpdateSource
	}

	if client == nil || !client.IsRunning() {
		s.state.Store(uint32(sessionFailed))

		return nil, fmt.Errorf("%w: sync session requires a started "+
			"backend", chain.ErrNodeNotRunning)
	}

	s.state.Store(uint32(sessionRunning))
	log.Infof("Sync session running against %s backend",
		client.BackendName())

	// The drainers are cooperative background tasks: they never
	// terminate on their own and are shut down when the session returns.
	drainCtx, cancel := context.WithCancel(ctx)

	var g errgroup.Group
	g.Go(func() error {
		drainStream(drainCtx, s.cfg.Logs, s.cfg.Sink.Log)
		return nil
	})
	g.Go(func() error {
		drainStream(drainCtx, s.cfg.Infos, func(info chain.SyncInfo) {
			s.cfg.Sink.Info(info.String())
		})
		return nil
	})
	g.Go(func() error {
		drainStream(drainCtx, s.cfg.Warnings,
			func(warning chain.SyncWarning) {
				s.cfg.Sink.Warn(warning.String())
			})
		return nil
	})

	defer func() {
		cancel()
		_ = g.Wait()
	}()

	outcome, err := s.awaitUpdate(ctx)
	if err != nil {
		s.state.Store(uint32(sessionFailed))

		return nil, err
	}

	s.state.Store(uint32(sessionCompleted))

	return outcome, nil
}

// awaitUpdate races the one-shot update source against the optional stall
// watchdog and the session context.
func (s *Syncer) awaitUpdate(ctx context.Context) (*SyncOutcome, error) {
	var stallChan <-chan time.Time
	if s.stallTicker != nil {
		s.stallTicker.Resume()
		defer s.stallTicker.Stop()

		stallChan = s.stallTicker.Ticks()
	}

	select {
	case update, ok := <-s.cfg.Updates:
		if !ok {
			return nil, ErrUpdateChannelClosed
		}

		return s.applyUpdate(update)

	case <-stallChan:
		return nil, fmt.Errorf("%w: no state update within %v",
			ErrSyncStalled, s.cfg.StallTimeout)

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// applyUpdate applies the received update to the wallet state as a single
// atomic operation and assembles the outcome.
func (s *Syncer) applyUpdate(update *chain.Update) (*SyncOutcome, error) {
	err := s.cfg.Store.ApplyUpdate(update)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpdateApplicationFailed,
			err)
	}

	outcome := &SyncOutcome{
		TipHeight: s.cfg.Store.SyncedTo().Height,
		TxCount:   s.cfg.Store.TxCount(),
		Balance:   s.cfg.Store.Balance(),
	}

	log.Infof("Sync session completed: tip=%d, txs=%d, balance=%v",
		outcome.TipHeight, outcome.TxCount, outcome.Balance)

	return outcome, nil
}

// drainStream forwards events from a recurring stream until the context ends
// or the stream closes. Order within the stream is preserved; a nil channel
// simply blocks until the context ends.
func drainStream[T any](ctx context.Context, events <-chan T,
	forward func(T)) {

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}

			forward(ev)
		}
	}
}
