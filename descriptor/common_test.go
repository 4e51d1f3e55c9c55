// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

var (
	// testParams are the chain parameters used throughout the descriptor
	// tests. Testnet keys serialize with the tprv/tpub prefixes and use
	// coin type 1.
	testParams = &chaincfg.TestNet3Params
)

// newTestMaster derives a deterministic master private key from a fixed seed.
func newTestMaster(t *testing.T, params *chaincfg.Params) *hdkeychain.ExtendedKey {
	t.Helper()

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 1)
	}

	master, err := hdkeychain.NewMaster(seed, params)
	require.NoError(t, err)

	return master
}

// newTestPublic derives the neutered form of the deterministic master key.
func newTestPublic(t *testing.T, params *chaincfg.Params) *hdkeychain.ExtendedKey {
	t.Helper()

	pub, err := newTestMaster(t, params).Neuter()
	require.NoError(t, err)

	return pub
}
