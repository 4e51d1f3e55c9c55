// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

var (
	// ErrInvalidDerivationPath is returned when a derivation path string
	// cannot be parsed, contains an empty or non-numeric segment, or uses
	// an index beyond the hardened boundary.
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
)

// PathSegment is a single step of a BIP32 derivation path: a child index and
// whether the step uses hardened derivation.
type PathSegment struct {
	// Index is the child index before the hardened offset is applied. It
	// must be below hdkeychain.HardenedKeyStart.
	Index uint32

	// Hardened indicates whether the child is derived with hardened
	// derivation.
	Hardened bool
}

// String returns the textual form of the segment, using the "h" marker for
// hardened steps, e.g. "84h" or "0".
func (s PathSegment) String() string {
	if s.Hardened {
		return strconv.FormatUint(uint64(s.Index), 10) + "h"
	}

	return strconv.FormatUint(uint64(s.Index), 10)
}

// ChildIndex returns the raw uint32 child index with the hardened offset
// applied, suitable for hdkeychain.ExtendedKey.Derive.
func (s PathSegment) ChildIndex() uint32 {
	if s.Hardened {
		return s.Index + hdkeychain.HardenedKeyStart
	}

	return s.Index
}

// DerivationPath is an ordered sequence of path segments. Once constructed it
// is treated as immutable: all operations return fresh copies.
type DerivationPath []PathSegment

// ParseDerivationPath parses a derivation path string such as "m/84h/1h/0h"
// or "84'/1'/0'". The leading "m" element is optional and both the apostrophe
// and the "h"/"H" hardened markers are accepted.
func ParseDerivationPath(s string) (DerivationPath, error) {
	trimmed := strings.TrimPrefix(s, "m/")
	if trimmed == "m" || trimmed == "" {
		if s == "m" || s == "" {
			return DerivationPath{}, nil
		}

		return nil, fmt.Errorf("%w: empty segment in %q",
			ErrInvalidDerivationPath, s)
	}

	parts := strings.Split(trimmed, "/")
	path := make(DerivationPath, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment in %q",
				ErrInvalidDerivationPath, s)
		}

		seg, err := parseSegment(part)
		if err != nil {
			return nil, err
		}

		path = append(path, seg)
	}

	return path, nil
}

// parseSegment parses a single path element such as "84h", "1'" or "0".
func parseSegment(part string) (PathSegment, error) {
	hardened := false

	switch part[len(part)-1] {
	case '\'', 'h', 'H':
		hardened = true
		part = part[:len(part)-1]
	}

	if part == "" {
		return PathSegment{}, fmt.Errorf("%w: bare hardened marker",
			ErrInvalidDerivationPath)
	}

	index, err := strconv.ParseUint(part, 10, 32)
	if err != nil {
		return PathSegment{}, fmt.Errorf("%w: non-numeric segment "+
			"%q", ErrInvalidDerivationPath, part)
	}

	if index >= uint64(hdkeychain.HardenedKeyStart) {
		return PathSegment{}, fmt.Errorf("%w: index %d exceeds the "+
			"hardened boundary", ErrInvalidDerivationPath, index)
	}

	return PathSegment{
		//nolint:gosec // bounded by the hardened boundary above.
		Index:    uint32(index),
		Hardened: hardened,
	}, nil
}

// String returns the textual form of the path without the leading "m/"
// element, using "h" hardened markers, e.g. "84h/1h/0h".
func (p DerivationPath) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}

	return strings.Join(parts, "/")
}

// Append returns a new path consisting of p followed by the given segments.
// The appended segments are assumed to be already validated; this is a pure
// copy-append that preserves segment order and hardness flags exactly.
func (p DerivationPath) Append(segs ...PathSegment) DerivationPath {
	out := make(DerivationPath, 0, len(p)+len(segs))
	out = append(out, p...)
	out = append(out, segs...)

	return out
}

// ChildIndexes returns the raw uint32 child indexes of the path with hardened
// offsets applied, in order.
func (p DerivationPath) ChildIndexes() []uint32 {
	out := make([]uint32, len(p))
	for i, seg := range p {
		out[i] = seg.ChildIndex()
	}

	return out
}

// BranchPath returns the single-segment unhardened path used as the trailing
// derivation of a descriptor key, e.g. "0" for the external keychain and "1"
// for the internal one.
func BranchPath(index uint32) (DerivationPath, error) {
	if index >= hdkeychain.HardenedKeyStart {
		return nil, fmt.Errorf("%w: branch index %d exceeds the "+
			"hardened boundary", ErrInvalidDerivationPath, index)
	}

	return DerivationPath{{Index: index}}, nil
}
