// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"regexp"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

// TestMasterFingerprint verifies the fingerprint is derived from the public
// component only and renders as 8 lowercase hex characters.
func TestMasterFingerprint(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t, testParams)
	pub := newTestPublic(t, testParams)

	fpPriv, err := MasterFingerprint(master)
	require.NoError(t, err)

	fpPub, err := MasterFingerprint(pub)
	require.NoError(t, err)

	// Neutering must not change the fingerprint.
	require.Equal(t, fpPriv, fpPub)
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`),
		fpPriv.String())
}

// TestParseKeyMalformed verifies malformed key text is rejected with a
// wrapped encoding error and never panics.
func TestParseKeyMalformed(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"",
		"notakey",
		"xprv123garbage",
		"tpubD6NzVbkrYhZ4X!!!!",
	} {
		require.NotPanics(t, func() {
			_, err := parseKey(text, testParams)
			require.ErrorIs(t, err, ErrInvalidKeyEncoding)
		})
	}
}

// TestParseKeyWrongNetwork verifies network version bytes are checked.
func TestParseKeyWrongNetwork(t *testing.T) {
	t.Parallel()

	// A testnet key must be rejected when mainnet is requested.
	master := newTestMaster(t, testParams)

	_, err := parseKey(master.String(), &chaincfg.MainNetParams)
	require.ErrorIs(t, err, ErrInvalidKeyEncoding)
}

// TestParseKeyClass verifies the private and public parse entry points
// enforce the key class.
func TestParseKeyClass(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t, testParams)
	pub := newTestPublic(t, testParams)

	parsed, err := ParsePrivateKey(master.String(), testParams)
	require.NoError(t, err)
	require.True(t, parsed.IsPrivate())

	parsed, err = ParsePublicKey(pub.String(), testParams)
	require.NoError(t, err)
	require.False(t, parsed.IsPrivate())

	_, err = ParsePrivateKey(pub.String(), testParams)
	require.ErrorIs(t, err, ErrInvalidKeyEncoding)

	_, err = ParsePublicKey(master.String(), testParams)
	require.ErrorIs(t, err, ErrInvalidKeyEncoding)
}

// TestNewKeyClassChecks verifies the descriptor key constructors enforce the
// class of their root key.
func TestNewKeyClassChecks(t *testing.T) {
	t.Parallel()

	master := newTestMaster(t, testParams)
	pub := newTestPublic(t, testParams)
	accountPath := AccountPath(Bip84, testParams)

	_, err := NewPrivateKey(pub, accountPath, ExternalBranch)
	require.ErrorIs(t, err, ErrInvalidKeyEncoding)

	_, err = NewPublicKey(master, accountPath, ExternalBranch)
	require.ErrorIs(t, err, ErrInvalidKeyEncoding)

	key, err := NewPrivateKey(master, accountPath, InternalBranch)
	require.NoError(t, err)
	require.True(t, key.IsPrivate())
	require.Equal(t, WildcardUnhardened, key.Wildcard)
	require.Equal(t, DerivationPath{{Index: 1}}, key.Path)
	require.Equal(t, accountPath, key.Origin.Path)
}

// TestOriginString verifies the descriptor notation of origins with and
// without an account path.
func TestOriginString(t *testing.T) {
	t.Parallel()

	fp := Fingerprint{0xf0, 0x0d, 0xba, 0xbe}

	bare := Origin{Fingerprint: fp}
	require.Equal(t, "f00dbabe", bare.String())

	path, err := ParseDerivationPath("m/84h/1h/0h")
	require.NoError(t, err)

	full := Origin{Fingerprint: fp, Path: path}
	require.Equal(t, "f00dbabe/84h/1h/0h", full.String())
}

// TestWildcardSuffix verifies the serialized index range suffixes.
func TestWildcardSuffix(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", WildcardNone.suffix())
	require.Equal(t, "/*", WildcardUnhardened.suffix())
	require.Equal(t, "/*h", WildcardHardened.suffix())
}
