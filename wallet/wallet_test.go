// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
	"github.com/walletkit/descwallet/chain"
)

// TestWalletApplyUpdate verifies a state update is applied atomically and is
// visible through every getter.
func TestWalletApplyUpdate(t *testing.T) {
	t.Parallel()

	// Arrange: Create an empty wallet state.
	w := New()
	require.Equal(t, chain.BlockMeta{}, w.SyncedTo())
	require.Equal(t, 0, w.TxCount())
	require.Equal(t, btcutil.Amount(0), w.Balance())

	// Act: Apply a representative update.
	err := w.ApplyUpdate(testUpdate)

	// Assert: All fields of the update are visible.
	require.NoError(t, err)
	require.Equal(t, testUpdate.Tip, w.SyncedTo())
	require.Equal(t, testUpdate.TxCount, w.TxCount())
	require.Equal(t, testUpdate.Balance, w.Balance())
}

// TestWalletApplyUpdateNil verifies nil updates are rejected without touching
// the state.
func TestWalletApplyUpdateNil(t *testing.T) {
	t.Parallel()

	w := New()
	require.NoError(t, w.ApplyUpdate(testUpdate))

	err := w.ApplyUpdate(nil)
	require.ErrorIs(t, err, ErrNilUpdate)

	// The previous state survives.
	require.Equal(t, testUpdate.Tip, w.SyncedTo())
}

// TestWalletApplyUpdateInvalidHeight verifies negative tip heights are
// rejected.
func TestWalletApplyUpdateInvalidHeight(t *testing.T) {
	t.Parallel()

	w := New()

	bad := *testUpdate
	bad.Tip.Height = -1

	err := w.ApplyUpdate(&bad)
	require.ErrorContains(t, err, "invalid tip height")
	require.Equal(t, chain.BlockMeta{}, w.SyncedTo())
}
