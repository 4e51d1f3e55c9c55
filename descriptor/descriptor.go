// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"fmt"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Descriptor is the serialized form of a single-keychain output descriptor.
type Descriptor struct {
	// Public is the watch-only descriptor text. It is always present,
	// even when built from a secret-bearing key, by stripping the secret
	// material.
	Public string

	// Private is the secret-bearing descriptor text. It is only present
	// when the source key carried secret material.
	Private fn.Option[string]
}

// Build serializes the descriptor for the given key under the script policy
// identified by the script type: bip44 expands to pkh, bip49 to sh(wpkh),
// bip84 to wpkh and bip86 to key-path-only tr. Both the public and, when the
// key is secret-bearing, the private text carry the standard checksum
// suffix.
func Build(key *Key, scriptType ScriptType) (*Descriptor, error) {
	pubRoot := key.Root
	private := fn.None[string]()

	if key.Root.IsPrivate() {
		neutered, err := key.Root.Neuter()
		if err != nil {
			return nil, fmt.Errorf("%w: %v",
				ErrKeyDerivationFailed, err)
		}
		pubRoot = neutered

		privText, err := render(scriptType, keyExpression(
			key, key.Root.String(),
		))
		if err != nil {
			return nil, err
		}
		private = fn.Some(privText)
	}

	public, err := render(scriptType, keyExpression(
		key, pubRoot.String(),
	))
	if err != nil {
		return nil, err
	}

	log.Debugf("Built %s descriptor for origin [%s]", scriptType,
		key.Origin)

	return &Descriptor{
		Public:  public,
		Private: private,
	}, nil
}

// keyExpression renders the descriptor key expression: the bracketed origin,
// the extended key text, the trailing branch path and the wildcard suffix,
// e.g. "[f00dbabe/84h/1h/0h]tpubD6N.../0/*".
func keyExpression(key *Key, keyText string) string {
	var b strings.Builder

	b.WriteString("[")
	b.WriteString(key.Origin.String())
	b.WriteString("]")
	b.WriteString(keyText)

	for _, seg := range key.Path {
		b.WriteString("/")
		b.WriteString(seg.String())
	}

	b.WriteString(key.Wildcard.suffix())

	return b.String()
}

// wrapScript applies the canonical output-script wrapper of the script type
// around a key expression.
func wrapScript(scriptType ScriptType, inner string) string {
	switch scriptType {
	case Bip44:
		return "pkh(" + inner + ")"

	case Bip49:
		return "sh(wpkh(" + inner + "))"

	case Bip84:
		return "wpkh(" + inner + ")"

	case Bip86:
		return "tr(" + inner + ")"

	default:
		// Every ScriptType value has a fixed wrapper. Reaching this
		// is a programming fault, not a runtime condition.
		panic(fmt.Sprintf("no wrapper mapping for script type %d",
			scriptType))
	}
}

// render wraps the key expression and appends the checksum suffix.
func render(scriptType ScriptType, inner string) (string, error) {
	desc := wrapScript(scriptType, inner)

	checksum, err := descriptorChecksum(desc)
	if err != nil {
		return "", err
	}

	return desc + "#" + checksum, nil
}
