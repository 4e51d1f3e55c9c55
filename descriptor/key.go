// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrInvalidKeyEncoding is returned when an extended key string is
	// malformed: bad base58, failing checksum, wrong key class, or
	// version bytes that do not match the target network.
	ErrInvalidKeyEncoding = errors.New("invalid extended key encoding")

	// ErrKeyDerivationFailed is returned when an elliptic-curve operation
	// on an extended key fails. This is astronomically rare but modeled
	// as a recoverable error rather than a crash.
	ErrKeyDerivationFailed = errors.New("key derivation failed")
)

// Wildcard governs whether a descriptor key expands to an unbounded index
// range and whether that range uses hardened derivation.
type Wildcard uint8

const (
	// WildcardNone means the key expands to a single fixed position.
	WildcardNone Wildcard = iota

	// WildcardUnhardened means the key ends in an unbounded unhardened
	// index range ("/*"). This is the only wildcard compatible with
	// public-only watch descriptors.
	WildcardUnhardened

	// WildcardHardened means the key ends in an unbounded hardened index
	// range ("/*h"). Hardened wildcards require private-key descriptors.
	WildcardHardened
)

// String returns the string representation of a Wildcard.
func (w Wildcard) String() string {
	switch w {
	case WildcardNone:
		return "none"

	case WildcardUnhardened:
		return "unhardened"

	case WildcardHardened:
		return "hardened"

	default:
		return "unknown wildcard"
	}
}

// suffix returns the descriptor text suffix of the wildcard.
func (w Wildcard) suffix() string {
	switch w {
	case WildcardNone:
		return ""

	case WildcardUnhardened:
		return "/*"

	case WildcardHardened:
		return "/*h"

	default:
		panic(fmt.Sprintf("no suffix mapping for wildcard %d", w))
	}
}

// Fingerprint is the 4-byte identifier of an extended key, computed as the
// leading bytes of the hash160 of its serialized public key.
type Fingerprint [4]byte

// String returns the fingerprint as 8 lowercase hex characters.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Origin identifies where a descriptor key's extended key was first derived
// from the seed: the master key fingerprint paired with the account-level
// derivation path. The branch and index suffix is never part of the origin.
type Origin struct {
	// Fingerprint is the fingerprint of the master key.
	Fingerprint Fingerprint

	// Path is the account-level derivation path.
	Path DerivationPath
}

// String returns the origin in descriptor notation without the surrounding
// brackets, e.g. "f00dbabe/84h/1h/0h".
func (o Origin) String() string {
	if len(o.Path) == 0 {
		return o.Fingerprint.String()
	}

	return o.Fingerprint.String() + "/" + o.Path.String()
}

// MasterFingerprint computes the fingerprint of the given extended key from
// its public component. The computation is pure and deterministic: identical
// key bytes always yield identical fingerprints.
func MasterFingerprint(key *hdkeychain.ExtendedKey) (Fingerprint, error) {
	var fp Fingerprint

	pub, err := key.ECPubKey()
	if err != nil {
		return fp, fmt.Errorf("%w: %v", ErrKeyDerivationFailed, err)
	}

	copy(fp[:], btcutil.Hash160(pub.SerializeCompressed()))

	return fp, nil
}

// parseKey decodes an extended key of either class and verifies it targets
// the given network.
func parseKey(text string, params *chaincfg.Params) (*hdkeychain.ExtendedKey,
	error) {

	key, err := hdkeychain.NewKeyFromString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}

	if !key.IsForNet(params) {
		return nil, fmt.Errorf("%w: key is not for network %s",
			ErrInvalidKeyEncoding, params.Name)
	}

	return key, nil
}

// ParsePrivateKey decodes an extended private key string (xprv form) and
// verifies it targets the given network.
func ParsePrivateKey(text string, params *chaincfg.Params) (
	*hdkeychain.ExtendedKey, error) {

	key, err := parseKey(text, params)
	if err != nil {
		return nil, err
	}

	if !key.IsPrivate() {
		return nil, fmt.Errorf("%w: expected an extended private key",
			ErrInvalidKeyEncoding)
	}

	return key, nil
}

// ParsePublicKey decodes an extended public key string (xpub form) and
// verifies it targets the given network.
func ParsePublicKey(text string, params *chaincfg.Params) (
	*hdkeychain.ExtendedKey, error) {

	key, err := parseKey(text, params)
	if err != nil {
		return nil, err
	}

	if key.IsPrivate() {
		return nil, fmt.Errorf("%w: expected an extended public key",
			ErrInvalidKeyEncoding)
	}

	return key, nil
}

// Key is a descriptor key: an extended key annotated with its origin, the
// trailing branch derivation, and a wildcard mode. One Key is created fresh
// per (keychain, network) derivation request and never cached or mutated.
type Key struct {
	// Origin is the master fingerprint and account-level path.
	Origin Origin

	// Root is the embedded extended key, either secret-bearing or
	// public-only.
	Root *hdkeychain.ExtendedKey

	// Path is the trailing derivation applied after the root key, e.g.
	// the single branch index 0 or 1.
	Path DerivationPath

	// Wildcard is the index range mode the key expands with.
	Wildcard Wildcard
}

// NewPrivateKey builds a secret-bearing descriptor key from a master private
// key. The origin always carries the master key's fingerprint together with
// the account-level path, and the wildcard is fixed to unhardened, the only
// mode compatible with public-only watch descriptors derived from it.
func NewPrivateKey(master *hdkeychain.ExtendedKey, accountPath DerivationPath,
	branch uint32) (*Key, error) {

	if !master.IsPrivate() {
		return nil, fmt.Errorf("%w: expected an extended private key",
			ErrInvalidKeyEncoding)
	}

	return newKey(master, accountPath, branch)
}

// NewPublicKey builds a public-only descriptor key from a master extended
// public key. The resulting key can only serialize to a public descriptor.
func NewPublicKey(xpub *hdkeychain.ExtendedKey, accountPath DerivationPath,
	branch uint32) (*Key, error) {

	if xpub.IsPrivate() {
		return nil, fmt.Errorf("%w: expected an extended public key",
			ErrInvalidKeyEncoding)
	}

	return newKey(xpub, accountPath, branch)
}

// newKey assembles a descriptor key with the fixed unhardened wildcard
// policy shared by the receive and change keychains.
func newKey(root *hdkeychain.ExtendedKey, accountPath DerivationPath,
	branch uint32) (*Key, error) {

	fp, err := MasterFingerprint(root)
	if err != nil {
		return nil, err
	}

	branchPath, err := BranchPath(branch)
	if err != nil {
		return nil, err
	}

	return &Key{
		Origin: Origin{
			Fingerprint: fp,
			Path:        accountPath,
		},
		Root:     root,
		Path:     branchPath,
		Wildcard: WildcardUnhardened,
	}, nil
}

// IsPrivate reports whether the key carries secret material.
func (k *Key) IsPrivate() bool {
	return k.Root.IsPrivate()
}
