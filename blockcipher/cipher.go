// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package blockcipher adapts the SPECK-128 and SIMON-128 kernels to
// crypto/cipher.Block, so a single key schedule can drive any of the
// standard library's chaining modes (CBC, CTR, ...) without a caller
// reaching for the six-wide advanced driver. It holds one lane of the
// underlying pair kernel at a fixed, unused value and only ever reads or
// writes the other lane's 16 bytes.
package blockcipher

import (
	"crypto/cipher"
	"fmt"

	"github.com/simonspeck/vecblock/schedule"
	"github.com/simonspeck/vecblock/simon"
	"github.com/simonspeck/vecblock/speck"
)

const blockSize = 16

type speckCipher struct {
	enc    schedule.Splatted
	dec    schedule.Scalar
	rounds int
}

// NewSpeckCipher returns a crypto/cipher.Block for SPECK-128 driven by the
// given raw key (16, 24, or 32 bytes for a 128/192/256-bit key).
func NewSpeckCipher(key []byte) (cipher.Block, error) {
	enc, dec, err := schedule.NewSpeckSchedule(key)
	if err != nil {
		return nil, err
	}
	return &speckCipher{enc: enc, dec: dec, rounds: len(dec)}, nil
}

func (c *speckCipher) BlockSize() int { return blockSize }

func (c *speckCipher) Encrypt(dst, src []byte) {
	checkBlock("src", src)
	checkBlock("dst", dst)
	var buf [2 * blockSize]byte
	copy(buf[0:blockSize], src)
	speck.Encrypt2(buf[:], buf[:], c.enc, c.rounds)
	copy(dst, buf[0:blockSize])
}

func (c *speckCipher) Decrypt(dst, src []byte) {
	checkBlock("src", src)
	checkBlock("dst", dst)
	var buf [2 * blockSize]byte
	copy(buf[0:blockSize], src)
	speck.Decrypt2(buf[:], buf[:], c.dec, c.rounds)
	copy(dst, buf[0:blockSize])
}

type simonCipher struct {
	enc    schedule.Splatted
	dec    schedule.Scalar
	rounds int
}

// NewSimonCipher is NewSpeckCipher's SIMON-128 counterpart.
func NewSimonCipher(key []byte) (cipher.Block, error) {
	enc, dec, err := schedule.NewSimonSchedule(key)
	if err != nil {
		return nil, err
	}
	return &simonCipher{enc: enc, dec: dec, rounds: len(dec)}, nil
}

func (c *simonCipher) BlockSize() int { return blockSize }

func (c *simonCipher) Encrypt(dst, src []byte) {
	checkBlock("src", src)
	checkBlock("dst", dst)
	var buf [2 * blockSize]byte
	copy(buf[0:blockSize], src)
	simon.Encrypt2(buf[:], buf[:], c.enc, c.rounds)
	copy(dst, buf[0:blockSize])
}

func (c *simonCipher) Decrypt(dst, src []byte) {
	checkBlock("src", src)
	checkBlock("dst", dst)
	var buf [2 * blockSize]byte
	copy(buf[0:blockSize], src)
	simon.Decrypt2(buf[:], buf[:], c.dec, c.rounds)
	copy(dst, buf[0:blockSize])
}

func checkBlock(name string, b []byte) {
	if len(b) < blockSize {
		panic(fmt.Sprintf("blockcipher: %s must be at least %d bytes, got %d", name, blockSize, len(b)))
	}
}
