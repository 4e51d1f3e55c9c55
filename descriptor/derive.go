// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrUnsupportedMultipath is returned when a multipath derivation is
	// requested for a script type other than bip84.
	ErrUnsupportedMultipath = errors.New("multipath descriptors are " +
		"only supported for bip84")
)

const (
	// ExternalBranch is the branch index of the receive keychain.
	ExternalBranch uint32 = 0

	// InternalBranch is the branch index of the change keychain.
	InternalBranch uint32 = 1
)

// Branch holds the descriptor strings of a single keychain. The private text
// is only present when the source key carried secret material.
type Branch struct {
	Public  string `json:"public"`
	Private string `json:"private,omitempty"`
}

// KeyResponse is the result of deriving a descriptor pair from an extended
// key.
type KeyResponse struct {
	// Type is the script type the descriptors expand to, e.g. "bip84".
	Type string `json:"type"`

	// External is the receive keychain descriptor pair ("/0/*").
	External Branch `json:"external"`

	// Internal is the change keychain descriptor pair ("/1/*").
	Internal Branch `json:"internal"`

	// Fingerprint is the 8-hex-character master key fingerprint shared
	// by both keychains.
	Fingerprint string `json:"fingerprint"`

	// Network is the name of the network the key targets.
	Network string `json:"network"`
}

// MultipathResponse is the result of a public-only bip84 multipath
// derivation.
type MultipathResponse struct {
	Type        string `json:"type"`
	External    string `json:"external"`
	Internal    string `json:"internal"`
	Fingerprint string `json:"fingerprint"`
	Network     string `json:"network"`
}

// DeriveFromKey derives the external and internal output descriptors for the
// given extended key text under the canonical account path of the script
// type. The key may be private (xprv form) or public (xpub form); private
// keys yield both public and secret-bearing descriptor text, public keys
// yield watch-only text. Re-deriving with identical inputs is idempotent and
// produces byte-identical descriptor strings.
func DeriveFromKey(params *chaincfg.Params, keyText string,
	scriptType ScriptType) (*KeyResponse, error) {

	key, err := parseKey(keyText, params)
	if err != nil {
		return nil, err
	}

	accountPath := AccountPath(scriptType, params)

	external, err := buildBranch(key, accountPath, ExternalBranch,
		scriptType)
	if err != nil {
		return nil, err
	}

	internal, err := buildBranch(key, accountPath, InternalBranch,
		scriptType)
	if err != nil {
		return nil, err
	}

	fp, err := MasterFingerprint(key)
	if err != nil {
		return nil, err
	}

	log.Infof("Derived %s descriptors for fingerprint %s on %s",
		scriptType, fp, params.Name)

	return &KeyResponse{
		Type:        scriptType.String(),
		External:    *external,
		Internal:    *internal,
		Fingerprint: fp.String(),
		Network:     params.Name,
	}, nil
}

// buildBranch creates the descriptor key for one keychain branch and
// serializes it.
func buildBranch(root *hdkeychain.ExtendedKey, accountPath DerivationPath,
	branch uint32, scriptType ScriptType) (*Branch, error) {

	var (
		key *Key
		err error
	)
	if root.IsPrivate() {
		key, err = NewPrivateKey(root, accountPath, branch)
	} else {
		key, err = NewPublicKey(root, accountPath, branch)
	}
	if err != nil {
		return nil, err
	}

	desc, err := Build(key, scriptType)
	if err != nil {
		return nil, err
	}

	return &Branch{
		Public:  desc.Public,
		Private: desc.Private.UnwrapOr(""),
	}, nil
}

// DeriveMultipath derives the public-only external and internal descriptors
// for an extended public key. Only bip84 is supported; requesting any other
// script type fails with ErrUnsupportedMultipath and returns no partial
// output. Both descriptor keys share the same origin and fingerprint and
// differ only in the branch index.
func DeriveMultipath(params *chaincfg.Params, xpubText string,
	scriptType ScriptType) (*MultipathResponse, error) {

	if scriptType != Bip84 {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedMultipath,
			scriptType)
	}

	xpub, err := ParsePublicKey(xpubText, params)
	if err != nil {
		return nil, err
	}

	accountPath := AccountPath(Bip84, params)

	external, err := buildBranch(xpub, accountPath, ExternalBranch, Bip84)
	if err != nil {
		return nil, err
	}

	internal, err := buildBranch(xpub, accountPath, InternalBranch, Bip84)
	if err != nil {
		return nil, err
	}

	fp, err := MasterFingerprint(xpub)
	if err != nil {
		return nil, err
	}

	return &MultipathResponse{
		Type:        "bip84-multipath",
		External:    external.Public,
		Internal:    internal.Public,
		Fingerprint: fp.String(),
		Network:     params.Name,
	}, nil
}
