// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

// TestParseBackend verifies the backend names and the cbf alias.
func TestParseBackend(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want Backend
	}{
		{"compact-filters", BackendCompactFilters},
		{"cbf", BackendCompactFilters},
		{"CBF", BackendCompactFilters},
		{"rpc", BackendRPC},
		{"esplora", BackendEsplora},
		{"electrum", BackendElectrum},
	}

	for _, tc := range testCases {
		got, err := ParseBackend(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}

	_, err := ParseBackend("utreexo")
	require.ErrorIs(t, err, ErrUnknownBackend)
}

// TestBackendString verifies String and ParseBackend are inverses for every
// variant.
func TestBackendString(t *testing.T) {
	t.Parallel()

	backends := []Backend{
		BackendCompactFilters, BackendRPC, BackendEsplora,
		BackendElectrum,
	}

	for _, backend := range backends {
		parsed, err := ParseBackend(backend.String())
		require.NoError(t, err)
		require.Equal(t, backend, parsed)
	}
}

// TestConfigValidate verifies the per-backend required option checks.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	params := &chaincfg.RegressionNetParams

	testCases := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: "missing chain config",
		},
		{
			name:    "missing params",
			cfg:     &Config{Backend: BackendRPC, URL: "host:8334"},
			wantErr: "missing chain params",
		},
		{
			name: "cbf without data directory",
			cfg: &Config{
				Backend: BackendCompactFilters,
				Params:  params,
			},
			wantErr: "data directory",
		},
		{
			name: "rpc without url",
			cfg: &Config{
				Backend: BackendRPC,
				Params:  params,
			},
			wantErr: "requires a URL",
		},
		{
			name: "esplora without url",
			cfg: &Config{
				Backend: BackendEsplora,
				Params:  params,
			},
			wantErr: "requires a URL",
		},
		{
			name: "valid electrum",
			cfg: &Config{
				Backend: BackendElectrum,
				Params:  params,
				URL:     "localhost:50001",
			},
		},
		{
			name: "valid cbf",
			cfg: &Config{
				Backend: BackendCompactFilters,
				Params:  params,
				DataDir: "/tmp/cbf",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.validate()
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

// TestNewClientUnknownBackend verifies construction fails for out-of-range
// backend values.
func TestNewClientUnknownBackend(t *testing.T) {
	t.Parallel()

	client, err := NewClient(&Config{
		Backend: Backend(42),
		Params:  &chaincfg.RegressionNetParams,
	})
	require.ErrorIs(t, err, ErrUnknownBackend)
	require.Nil(t, client)
}

// TestSyncEventStrings verifies the human readable event forms forwarded to
// event sinks.
func TestSyncEventStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "syncing headers, height 1000",
		SyncInfo{Height: 1000}.String())
	require.Equal(t, "synced to height 2500",
		SyncInfo{Height: 2500, Current: true}.String())
	require.Equal(t, "peer timeout",
		SyncWarning{Reason: "peer timeout"}.String())
}
