// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockMeta identifies a block by hash and height together with its header
// timestamp.
type BlockMeta struct {
	// Hash is the block hash.
	Hash chainhash.Hash

	// Height is the block height.
	Height int32

	// Timestamp is the block header timestamp.
	Timestamp time.Time
}

// Update is the one-shot wallet state update produced by a sync backend once
// it considers itself caught up with the network. Backends that do not track
// wallet-level accounting leave TxCount and Balance at their zero values.
type Update struct {
	// Tip is the chain tip the backend synced to.
	Tip BlockMeta

	// TxCount is the number of wallet transactions known after the sync.
	TxCount int

	// Balance is the total wallet balance after the sync.
	Balance btcutil.Amount
}

// SyncInfo is a recurring informational status event emitted by a light
// client backend while it synchronizes headers and filters.
type SyncInfo struct {
	// Height is the backend's current best known height.
	Height int32

	// Current indicates whether the backend considers itself caught up
	// with the network.
	Current bool
}

// String returns a human readable form of the status event.
func (i SyncInfo) String() string {
	if i.Current {
		return fmt.Sprintf("synced to height %d", i.Height)
	}

	return fmt.Sprintf("syncing headers, height %d", i.Height)
}

// SyncWarning is a recurring warning event emitted by a light client backend,
// e.g. when a peer misbehaves or a query times out.
type SyncWarning struct {
	// Reason describes the warning condition.
	Reason string
}

// String returns a human readable form of the warning event.
func (w SyncWarning) String() string {
	return w.Reason
}
