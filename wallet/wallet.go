// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet tracks the synchronized state of a descriptor wallet and
// drives sync sessions against a chain backend. Transaction construction,
// coin selection, signing and fee estimation are the responsibility of
// external collaborators.
package wallet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/walletkit/descwallet/chain"
)

var (
	// ErrNilUpdate is returned when a sync backend delivers a nil state
	// update.
	ErrNilUpdate = errors.New("nil wallet state update")

	// ErrUpdateApplicationFailed is returned when a received state
	// update cannot be applied to the wallet.
	ErrUpdateApplicationFailed = errors.New("unable to apply wallet " +
		"state update")
)

// UpdateStore is the wallet-state collaborator a sync session mutates. The
// update application is the single point of shared-state access during a
// session; the syncer is its sole writer.
type UpdateStore interface {
	// ApplyUpdate applies a received state update atomically.
	ApplyUpdate(update *chain.Update) error

	// SyncedTo returns the block the wallet state is synced to.
	SyncedTo() chain.BlockMeta

	// TxCount returns the number of wallet transactions known.
	TxCount() int

	// Balance returns the total wallet balance.
	Balance() btcutil.Amount
}

// Wallet is an in-memory wallet state snapshot: the synced chain tip, the
// known transaction count and the total balance.
type Wallet struct {
	mu sync.RWMutex

	tip     chain.BlockMeta
	txCount int
	balance btcutil.Amount
}

// A compile time check to ensure that Wallet implements the interface.
var _ UpdateStore = (*Wallet)(nil)

// New creates an empty wallet state.
func New() *Wallet {
	return &Wallet{}
}

// ApplyUpdate applies a state update as a single atomic operation.
//
// This is part of the UpdateStore interface.
func (w *Wallet) ApplyUpdate(update *chain.Update) error {
	if update == nil {
		return ErrNilUpdate
	}

	if update.Tip.Height < 0 {
		return fmt.Errorf("invalid tip height %d", update.Tip.Height)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.tip = update.Tip
	w.txCount = update.TxCount
	w.balance = update.Balance

	log.Debugf("Applied wallet state update: tip=%d (%v), txs=%d, "+
		"balance=%v", update.Tip.Height, update.Tip.Hash,
		update.TxCount, update.Balance)

	return nil
}

// SyncedTo returns the block the wallet state is synced to.
//
// This is part of the UpdateStore interface.
func (w *Wallet) SyncedTo() chain.BlockMeta {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.tip
}

// TxCount returns the number of wallet transactions known.
//
// This is part of the UpdateStore interface.
func (w *Wallet) TxCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.txCount
}

// Balance returns the total wallet balance.
//
// This is part of the UpdateStore interface.
func (w *Wallet) Balance() btcutil.Amount {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.balance
}
