// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package descriptor

import (
	"fmt"
	"strings"
)

// The BIP-380 descriptor checksum operates over a fixed alphabet of the 95
// printable ASCII characters, reordered so the most common descriptor
// characters map to the first symbol group.
const (
	checksumInputCharset = "0123456789()[],'/*abcdefgh@:$%{}" +
		"IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~" +
		"ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "

	checksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

	// checksumLength is the number of checksum characters appended after
	// the "#" separator.
	checksumLength = 8
)

// checksumGenerator holds the BIP-380 BCH generator constants.
var checksumGenerator = [5]uint64{
	0xf5dee51989,
	0xa9fdca3312,
	0x1bab10e32d,
	0x3706b1677a,
	0x644d626ffd,
}

// checksumPolymod feeds one 5-bit value into the BIP-380 checksum register.
func checksumPolymod(chk uint64, value uint64) uint64 {
	top := chk >> 35
	chk = (chk&0x7ffffffff)<<5 ^ value

	for i := 0; i < 5; i++ {
		if (top>>uint(i))&1 != 0 {
			chk ^= checksumGenerator[i]
		}
	}

	return chk
}

// descriptorChecksum computes the 8-character BIP-380 checksum of a
// descriptor string (the text before the "#" separator).
func descriptorChecksum(desc string) (string, error) {
	chk := uint64(1)

	var (
		cls      uint64
		clsCount int
	)

	for _, c := range desc {
		pos := strings.IndexRune(checksumInputCharset, c)
		if pos < 0 {
			return "", fmt.Errorf("invalid character %q in "+
				"descriptor", c)
		}

		// The low five bits of each character feed the checksum
		// directly; the character group feeds it once per three
		// characters.
		chk = checksumPolymod(chk, uint64(pos)&31)

		cls = cls*3 + uint64(pos>>5)
		clsCount++
		if clsCount == 3 {
			chk = checksumPolymod(chk, cls)
			cls = 0
			clsCount = 0
		}
	}

	if clsCount > 0 {
		chk = checksumPolymod(chk, cls)
	}

	for i := 0; i < checksumLength; i++ {
		chk = checksumPolymod(chk, 0)
	}
	chk ^= 1

	var b strings.Builder
	b.Grow(checksumLength)
	for i := 0; i < checksumLength; i++ {
		b.WriteByte(checksumCharset[(chk>>uint(5*(7-i)))&31])
	}

	return b.String(), nil
}
