// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDescriptorChecksumVectors verifies the checksum against published
// reference values.
func TestDescriptorChecksumVectors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc string
		want string
	}{
		{
			desc: "raw(deadbeef)",
			want: "89f8spxm",
		},
		{
			desc: "wpkh([d34db33f/84'/0'/0']xpub6DJ2dNUysrn5Vt" +
				"36jH2KLBT2i1auw1tTSSomg8PhqNiUtx8QX2SvC9nrHu" +
				"81fT41fvDUnhMjEzQgXnQjKEu3oaqMSzhSrHMxyyoEAm" +
				"UHQbY/0/*)",
			want: "trd0mf0l",
		},
	}

	for _, tc := range testCases {
		checksum, err := descriptorChecksum(tc.desc)
		require.NoError(t, err)
		require.Equal(t, tc.want, checksum)
	}
}

// TestDescriptorChecksumProperties verifies structural properties of the
// checksum: fixed length, restricted alphabet, determinism, and sensitivity
// to single character changes.
func TestDescriptorChecksumProperties(t *testing.T) {
	t.Parallel()

	desc := "wpkh([f00dbabe/84h/1h/0h]tpubDCBWBScQPGv4Xk3JSbhw6wYYpay" +
		"Mjb2eAYyArpbSqQTbLDpphHGAetB6VQgVeftLML8vDSUEWcAQuDmmzfnJGAj" +
		"WwXPvQeKqaPlFKidPGCwG/0/*)"

	first, err := descriptorChecksum(desc)
	require.NoError(t, err)

	// Fixed length, restricted alphabet.
	require.Len(t, first, checksumLength)
	for _, c := range first {
		require.Contains(t, checksumCharset, string(c))
	}

	// Deterministic.
	second, err := descriptorChecksum(desc)
	require.NoError(t, err)
	require.Equal(t, first, second)

	// Any single character change is detected.
	mutated := strings.Replace(desc, "/0/*", "/1/*", 1)
	third, err := descriptorChecksum(mutated)
	require.NoError(t, err)
	require.NotEqual(t, first, third)
}

// TestDescriptorChecksumInvalidCharacter verifies characters outside the
// descriptor alphabet are rejected.
func TestDescriptorChecksumInvalidCharacter(t *testing.T) {
	t.Parallel()

	_, err := descriptorChecksum("wpkh(é)")
	require.Error(t, err)
}
