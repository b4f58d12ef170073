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

// Package simon implements the SIMON-128 lane-level round function as a pair
// of SIMD kernels (one independent block-pair, three independent block-pairs
// processed in lockstep) over the simd.Vec128 primitives, including the
// odd-round-count final-swap handling SIMON's Feistel structure requires.
package simon

import (
	"fmt"

	"github.com/simonspeck/vecblock/internal/simd"
	"github.com/simonspeck/vecblock/schedule"
)

const blockSize = 16

type pair struct{ x, y simd.Vec128 }

func loadPair(blockA, blockB []byte) pair {
	a := simd.LoadBlock(blockA)
	b := simd.LoadBlock(blockB)
	return pair{x: simd.UnpackHi64(a, b), y: simd.UnpackLo64(a, b)}
}

func (p pair) store(blockA, blockB []byte) {
	simd.StoreBlock(blockA, simd.UnpackLo64(p.y, p.x))
	simd.StoreBlock(blockB, simd.UnpackHi64(p.y, p.x))
}

// f is SIMON's nonlinear mixing function: rotl2(v) ^ (rotl1(v) & rotl8(v)).
func f(v simd.Vec128) simd.Vec128 {
	return simd.Xor(simd.RotL64By2(v), simd.And(simd.RotL64By1(v), simd.RotL64By8(v)))
}

// encRoundPair runs one encryption round-pair in place:
// y <- y ^ f(x) ^ k0; x <- x ^ f(y) ^ k1, using the already-updated y.
func (p *pair) encRoundPair(k0, k1 simd.Vec128) {
	p.y = simd.Xor(simd.Xor(p.y, f(p.x)), k0)
	p.x = simd.Xor(simd.Xor(p.x, f(p.y)), k1)
}

// decRoundPair runs one decryption round-pair in place, the exact inverse of
// encRoundPair: x <- x ^ f(y) ^ k1; y <- y ^ f(x) ^ k0, using the
// already-updated x.
func (p *pair) decRoundPair(k0, k1 simd.Vec128) {
	p.x = simd.Xor(simd.Xor(p.x, f(p.y)), k1)
	p.y = simd.Xor(simd.Xor(p.y, f(p.x)), k0)
}

// oddTailEnc performs the single unpaired final encryption round (the first
// half of a round-pair only) and then swaps the Feistel halves, which is
// required whenever the schedule has an odd round count.
func (p *pair) oddTailEnc(k simd.Vec128) {
	p.y = simd.Xor(simd.Xor(p.y, f(p.x)), k)
	p.x, p.y = p.y, p.x
}

// oddTailDec swaps the Feistel halves first, then performs the single
// unpaired final round with the same key; this is the exact inverse of
// oddTailEnc.
func (p *pair) oddTailDec(k simd.Vec128) {
	p.x, p.y = p.y, p.x
	p.y = simd.Xor(simd.Xor(p.y, f(p.x)), k)
}

func vecKey(keys schedule.Splatted, i int) simd.Vec128 {
	return simd.Vec128{Lo: keys[2*i], Hi: keys[2*i+1]}
}

func (p *pair) encrypt(keys schedule.Splatted, rounds int) {
	full := rounds &^ 1
	for i := 0; i < full; i += 2 {
		p.encRoundPair(vecKey(keys, i), vecKey(keys, i+1))
	}
	if rounds&1 != 0 {
		p.oddTailEnc(vecKey(keys, rounds-1))
	}
}

func (p *pair) decrypt(keys schedule.Scalar, rounds int) {
	r := rounds
	if r&1 != 0 {
		p.oddTailDec(simd.Broadcast64(keys[r-1]))
		r--
	}
	for i := r - 2; i >= 0; i -= 2 {
		p.decRoundPair(simd.Broadcast64(keys[i]), simd.Broadcast64(keys[i+1]))
	}
}

func checkLen(name string, got, want int) {
	if got != want {
		panic(fmt.Sprintf("simon: %s must be %d bytes, got %d", name, want, got))
	}
}

func checkSplatted(keys schedule.Splatted, rounds int) {
	if len(keys) != 2*rounds {
		panic(fmt.Sprintf("simon: splatted schedule has %d words, want %d for %d rounds", len(keys), 2*rounds, rounds))
	}
}

func checkScalar(keys schedule.Scalar, rounds int) {
	if len(keys) != rounds {
		panic(fmt.Sprintf("simon: scalar schedule has %d words, want %d for %d rounds", len(keys), rounds, rounds))
	}
}

// Encrypt2 runs rounds SIMON-128 encryption rounds over one independent
// block-pair (32 bytes). dst and src may alias.
func Encrypt2(dst, src []byte, keys schedule.Splatted, rounds int) {
	checkLen("src", len(src), 2*blockSize)
	checkLen("dst", len(dst), 2*blockSize)
	checkSplatted(keys, rounds)

	p := loadPair(src[0:16], src[16:32])
	p.encrypt(keys, rounds)
	p.store(dst[0:16], dst[16:32])
}

// Decrypt2 is the inverse of Encrypt2.
func Decrypt2(dst, src []byte, keys schedule.Scalar, rounds int) {
	checkLen("src", len(src), 2*blockSize)
	checkLen("dst", len(dst), 2*blockSize)
	checkScalar(keys, rounds)

	p := loadPair(src[0:16], src[16:32])
	p.decrypt(keys, rounds)
	p.store(dst[0:16], dst[16:32])
}

// Encrypt6 runs rounds SIMON-128 encryption rounds over three independent
// block-pairs (96 bytes), producing byte-identical output to three calls to
// Encrypt2.
func Encrypt6(dst, src []byte, keys schedule.Splatted, rounds int) {
	checkLen("src", len(src), 6*blockSize)
	checkLen("dst", len(dst), 6*blockSize)
	checkSplatted(keys, rounds)

	p0 := loadPair(src[0:16], src[16:32])
	p1 := loadPair(src[32:48], src[48:64])
	p2 := loadPair(src[64:80], src[80:96])

	full := rounds &^ 1
	for i := 0; i < full; i += 2 {
		k0, k1 := vecKey(keys, i), vecKey(keys, i+1)
		p0.encRoundPair(k0, k1)
		p1.encRoundPair(k0, k1)
		p2.encRoundPair(k0, k1)
	}
	if rounds&1 != 0 {
		k := vecKey(keys, rounds-1)
		p0.oddTailEnc(k)
		p1.oddTailEnc(k)
		p2.oddTailEnc(k)
	}

	p0.store(dst[0:16], dst[16:32])
	p1.store(dst[32:48], dst[48:64])
	p2.store(dst[64:80], dst[80:96])
}

// Decrypt6 is the inverse of Encrypt6.
func Decrypt6(dst, src []byte, keys schedule.Scalar, rounds int) {
	checkLen("src", len(src), 6*blockSize)
	checkLen("dst", len(dst), 6*blockSize)
	checkScalar(keys, rounds)

	p0 := loadPair(src[0:16], src[16:32])
	p1 := loadPair(src[32:48], src[48:64])
	p2 := loadPair(src[64:80], src[80:96])

	r := rounds
	if r&1 != 0 {
		k := simd.Broadcast64(keys[r-1])
		p0.oddTailDec(k)
		p1.oddTailDec(k)
		p2.oddTailDec(k)
		r--
	}
	for i := r - 2; i >= 0; i -= 2 {
		k0, k1 := simd.Broadcast64(keys[i]), simd.Broadcast64(keys[i+1])
		p0.decRoundPair(k0, k1)
		p1.decRoundPair(k0, k1)
		p2.decRoundPair(k0, k1)
	}

	p0.store(dst[0:16], dst[16:32])
	p1.store(dst[32:48], dst[48:64])
	p2.store(dst[64:80], dst[80:96])
}
