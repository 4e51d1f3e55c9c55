// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

// TestParseScriptType verifies parsing of the four supported script type
// names.
func TestParseScriptType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want ScriptType
	}{
		{"bip44", Bip44},
		{"bip49", Bip49},
		{"bip84", Bip84},
		{"BIP84", Bip84},
		{"bip86", Bip86},
	}

	for _, tc := range testCases {
		got, err := ParseScriptType(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}

	_, err := ParseScriptType("bip1337")
	require.ErrorIs(t, err, ErrUnknownScriptType)
}

// TestScriptTypeString verifies String and ParseScriptType are inverses.
func TestScriptTypeString(t *testing.T) {
	t.Parallel()

	for _, scriptType := range []ScriptType{Bip44, Bip49, Bip84, Bip86} {
		parsed, err := ParseScriptType(scriptType.String())
		require.NoError(t, err)
		require.Equal(t, scriptType, parsed)
	}
}

// TestAccountPath verifies the canonical account path per script type and
// network coin type.
func TestAccountPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "84h/1h/0h",
		AccountPath(Bip84, &chaincfg.TestNet3Params).String())
	require.Equal(t, "84h/0h/0h",
		AccountPath(Bip84, &chaincfg.MainNetParams).String())
	require.Equal(t, "44h/0h/0h",
		AccountPath(Bip44, &chaincfg.MainNetParams).String())
	require.Equal(t, "86h/1h/0h",
		AccountPath(Bip86, &chaincfg.RegressionNetParams).String())
}
