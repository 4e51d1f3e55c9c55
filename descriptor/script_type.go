// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrUnknownScriptType is returned when a script type string cannot
	// be parsed.
	ErrUnknownScriptType = errors.New("unknown script type")
)

// ScriptType identifies the standard single-key script policy a descriptor
// expands to, along with its canonical BIP-defined derivation prefix.
type ScriptType uint8

const (
	// Bip44 is the legacy P2PKH policy with account prefix 44h/coinh/0h.
	Bip44 ScriptType = iota

	// Bip49 is the P2SH-wrapped P2WPKH policy with account prefix
	// 49h/coinh/0h.
	Bip49

	// Bip84 is the native segwit P2WPKH policy with account prefix
	// 84h/coinh/0h.
	Bip84

	// Bip86 is the key-path-only P2TR policy with account prefix
	// 86h/coinh/0h.
	Bip86
)

// String returns the string representation of a ScriptType.
func (t ScriptType) String() string {
	switch t {
	case Bip44:
		return "bip44"

	case Bip49:
		return "bip49"

	case Bip84:
		return "bip84"

	case Bip86:
		return "bip86"

	default:
		return "unknown script type"
	}
}

// purpose returns the hardened BIP43 purpose index of the script type.
func (t ScriptType) purpose() uint32 {
	switch t {
	case Bip44:
		return 44

	case Bip49:
		return 49

	case Bip84:
		return 84

	case Bip86:
		return 86

	default:
		// Every ScriptType value has a fixed purpose. Reaching this
		// is a programming fault, not a runtime condition.
		panic(fmt.Sprintf("no purpose mapping for script type %d", t))
	}
}

// ParseScriptType parses a textual script type such as "bip84".
func ParseScriptType(s string) (ScriptType, error) {
	switch strings.ToLower(s) {
	case "bip44":
		return Bip44, nil

	case "bip49":
		return Bip49, nil

	case "bip84":
		return Bip84, nil

	case "bip86":
		return Bip86, nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScriptType, s)
	}
}

// AccountPath returns the canonical account-level derivation path of the
// script type on the given network, e.g. 84h/1h/0h for bip84 on testnet. The
// account index is fixed to zero; callers needing custom coin types or
// account indexes substitute their own path before building keys.
func AccountPath(t ScriptType, params *chaincfg.Params) DerivationPath {
	return DerivationPath{
		{Index: t.purpose(), Hardened: true},
		{Index: params.HDCoinType, Hardened: true},
		{Index: 0, Hardened: true},
	}
}
