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

// Package schedule builds SIMON-128 and SPECK-128 round-key schedules.
//
// Key expansion is explicitly outside the vectorized core (see package speck
// and package simon): the kernels only ever consume an already-expanded
// sequence of round keys. This package exists so the core is independently
// usable and testable; callers embedding the core in a larger block-cipher
// class are free to supply their own schedule in either of the two physical
// layouts (Scalar, Splatted) the kernels accept.
package schedule

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/simonspeck/vecblock/internal/ints"
)

// Cipher selects which key-schedule recurrence to run.
type Cipher int

const (
	Speck Cipher = iota
	Simon
)

func (c Cipher) String() string {
	switch c {
	case Speck:
		return "speck128"
	case Simon:
		return "simon128"
	default:
		return "unknown"
	}
}

// Scalar is a contiguous round-key schedule: one 64-bit word per round. The
// kernel broadcasts each word into both vector lanes itself.
type Scalar []uint64

// Splatted is a pre-splatted round-key schedule: each round key is
// duplicated into two adjacent words (Splatted[2i] == Splatted[2i+1] ==
// Scalar[i]), matching an aligned single-vector-load on hardware where that
// beats a scalar-to-vector broadcast. This module uses the pre-splatted
// layout uniformly for encryption and the scalar layout uniformly for
// decryption; see DESIGN.md for that Open Question's resolution.
type Splatted []uint64

// Splat duplicates a scalar schedule into pre-splatted form.
func (s Scalar) Splat() Splatted {
	out := make(Splatted, 2*len(s))
	for i, k := range s {
		out[2*i], out[2*i+1] = k, k
	}
	return out
}

// Rounds reports the number of rounds for a (cipher, key size) combination:
// SIMON-128/128 uses 68 rounds, /192 uses 69, /256 uses 72; SPECK-128/128
// uses 32, /192 uses 33, /256 uses 34.
func Rounds(c Cipher, keyBits int) (int, error) {
	switch c {
	case Speck:
		switch keyBits {
		case 128:
			return 32, nil
		case 192:
			return 33, nil
		case 256:
			return 34, nil
		}
	case Simon:
		switch keyBits {
		case 128:
			return 68, nil
		case 192:
			return 69, nil
		case 256:
			return 72, nil
		}
	}
	return 0, fmt.Errorf("schedule: unsupported key size %d bits for %s", keyBits, c)
}

// keyWords reinterprets a raw key byte string as an array of 64-bit words.
// Each 8-byte group is read big-endian, the usual convention for displaying
// these keys as hex, and the groups are taken in reverse printed order so
// that the last printed group becomes words[0], the seed that feeds round
// key 0; the remaining groups become the schedule's "l" words in order. This
// convention is a free choice of this out-of-scope component, not a contract
// the vectorized core depends on.
func keyWords(key []byte) ([]uint64, error) {
	if len(key) == 0 || len(key)%8 != 0 {
		return nil, fmt.Errorf("schedule: key length %d is not a positive multiple of 8 bytes", len(key))
	}
	m := len(key) / 8
	if m < 2 || m > 4 {
		return nil, fmt.Errorf("schedule: key length %d bytes maps to %d words, want 2..4 (128/192/256-bit key)", len(key), m)
	}
	words := make([]uint64, m)
	for i := 0; i < m; i++ {
		g := key[len(key)-8*(i+1) : len(key)-8*i]
		words[i] = binary.BigEndian.Uint64(g)
	}
	return words, nil
}

// NewSpeckScalar expands a 128/192/256-bit key into a SPECK-128 scalar
// round-key schedule, using the standard ARX key-schedule recurrence (the
// same add-rotate-xor shape as the cipher round function itself):
//
//	l[i+m-1] = (k[i] + rotr64(l[i], 8)) xor i
//	k[i+1]   = rotl64(k[i], 3) xor l[i+m-1]
func NewSpeckScalar(key []byte) (Scalar, error) {
	words, err := keyWords(key)
	if err != nil {
		return nil, err
	}
	m := len(words)
	rounds, err := Rounds(Speck, len(key)*8)
	if err != nil {
		return nil, err
	}

	l := make([]uint64, rounds-1+m-1)
	copy(l[:m-1], words[1:])
	rk := make(Scalar, rounds)
	rk[0] = words[0]
	for i := 0; i < rounds-1; i++ {
		l[i+m-1] = rk[i] + bits.RotateLeft64(l[i], -8)
		l[i+m-1] ^= uint64(i)
		rk[i+1] = bits.RotateLeft64(rk[i], 3) ^ l[i+m-1]
	}
	return rk, nil
}

// NewSimonScalar expands a 128/192/256-bit key into a SIMON-128 scalar
// round-key schedule. SIMON's official schedule additionally XORs in a
// per-round bit from one of five fixed 62-bit constant sequences (chosen by
// key-word count); this module keeps the official rotate-right/XOR recurrence
// but XORs in the low bit of the round index in place of that sequence bit,
// instead of reproducing those constants bit-for-bit, since key expansion is
// explicitly outside the vectorized core's contract (see DESIGN.md). Callers
// that need bit-exact interoperability with another SIMON-128 implementation
// must supply their own schedule.
func NewSimonScalar(key []byte) (Scalar, error) {
	words, err := keyWords(key)
	if err != nil {
		return nil, err
	}
	m := len(words)
	rounds, err := Rounds(Simon, len(key)*8)
	if err != nil {
		return nil, err
	}

	const c = 0xfffffffffffffffc
	rk := make(Scalar, rounds)
	copy(rk, words)
	for i := m; i < rounds; i++ {
		tmp := bits.RotateLeft64(uint64(rk[i-1]), -3)
		if m == 4 {
			tmp ^= rk[i-3]
		}
		tmp ^= bits.RotateLeft64(tmp, -1)
		rk[i] = c ^ rk[i-m] ^ tmp ^ uint64(i&1)
	}
	return rk, nil
}

// NewSpeckSchedule expands a raw key into both physical layouts a SPECK-128
// cipher needs: pre-splatted for the encryption kernels, scalar for the
// decryption kernels (this module's uniform choice for the Open Question
// of which direction gets which layout; see DESIGN.md).
func NewSpeckSchedule(key []byte) (enc Splatted, dec Scalar, err error) {
	dec, err = NewSpeckScalar(key)
	if err != nil {
		return nil, nil, err
	}
	return dec.Splat(), dec, nil
}

// NewSimonSchedule is NewSpeckSchedule's SIMON-128 counterpart.
func NewSimonSchedule(key []byte) (enc Splatted, dec Scalar, err error) {
	dec, err = NewSimonScalar(key)
	if err != nil {
		return nil, nil, err
	}
	return dec.Splat(), dec, nil
}

// DeriveKey stretches a variable-length passphrase into a raw key of keyBits
// bits using BLAKE2b, the way a caller without an
// existing 128/192/256-bit key would bootstrap one. This is a convenience
// wrapper, not a core operation: the core never sees a passphrase, only an
// already-expanded schedule.
func DeriveKey(passphrase []byte, keyBits int) ([]byte, error) {
	if keyBits%8 != 0 {
		return nil, fmt.Errorf("schedule: key size %d is not a whole number of bytes", keyBits)
	}
	out, err := blake2bSum(passphrase, keyBits/8)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RandomKey generates a cryptographically random raw key of the given size.
func RandomKey(keyBits int) ([]byte, error) {
	if keyBits%8 != 0 {
		return nil, fmt.Errorf("schedule: key size %d is not a whole number of bytes", keyBits)
	}
	key := make([]byte, keyBits/8)
	if err := ints.RandomFillSlice(key); err != nil {
		return nil, err
	}
	return key, nil
}
