// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/cosmos/go-bip39"
)

// mnemonicEntropyBits is the entropy size of generated recovery phrases. 128
// bits yields a 12-word English mnemonic.
const mnemonicEntropyBits = 128

// GeneratedWallet is the result of generating a fresh bip84 wallet: the
// recovery phrase and the descriptor pair of each keychain.
type GeneratedWallet struct {
	// Mnemonic is the 12-word English recovery phrase.
	Mnemonic string `json:"mnemonic"`

	// External is the receive keychain descriptor pair.
	External Branch `json:"external_descriptor"`

	// Internal is the change keychain descriptor pair.
	Internal Branch `json:"internal_descriptor"`
}

// GenerateBip84Wallet generates a fresh 12-word recovery phrase, derives the
// master key from its seed with an empty passphrase, and produces the bip84
// descriptor pair for both keychains.
func GenerateBip84Wallet(params *chaincfg.Params) (*GeneratedWallet, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return nil, fmt.Errorf("generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}

	seed := bip39.NewSeed(mnemonic, "")

	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivationFailed, err)
	}

	accountPath := AccountPath(Bip84, params)

	external, err := buildBranch(master, accountPath, ExternalBranch, Bip84)
	if err != nil {
		return nil, err
	}

	internal, err := buildBranch(master, accountPath, InternalBranch, Bip84)
	if err != nil {
		return nil, err
	}

	fp, err := MasterFingerprint(master)
	if err != nil {
		return nil, err
	}

	log.Infof("Generated new bip84 wallet with fingerprint %s on %s", fp,
		params.Name)

	return &GeneratedWallet{
		Mnemonic: mnemonic,
		External: *external,
		Internal: *internal,
	}, nil
}
