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

// Package speck implements the SPECK-128 lane-level round function as a pair
// of SIMD kernels (one independent block-pair, three independent block-pairs
// processed in lockstep) over the simd.Vec128 primitives. The kernels are
// pure: they read only their input blocks and the round-key schedule, and
// they write only their output blocks.
package speck

import (
	"fmt"

	"github.com/simonspeck/vecblock/internal/simd"
	"github.com/simonspeck/vecblock/schedule"
)

const blockSize = 16

// pair holds the transposed (Xv, Yv) state for one independent block-pair.
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

// encRound runs one SPECK-128 encryption round in place: x <- (rotr8(x)+y)^k;
// y <- rotl3(y)^x, using the already-updated x.
func (p *pair) encRound(k simd.Vec128) {
	p.x = simd.RotR64By8(p.x)
	p.x = simd.Add64(p.x, p.y)
	p.x = simd.Xor(p.x, k)
	p.y = simd.RotL64By3(p.y)
	p.y = simd.Xor(p.y, p.x)
}

// decRound runs one SPECK-128 decryption round in place, the exact inverse
// of encRound: y <- rotr3(y^x); x <- rotl8((x^k) - y), using the
// already-updated y.
func (p *pair) decRound(k simd.Vec128) {
	p.y = simd.Xor(p.y, p.x)
	p.y = simd.RotR64By3(p.y)
	p.x = simd.Xor(p.x, k)
	p.x = simd.Sub64(p.x, p.y)
	p.x = simd.RotL64By8(p.x)
}

func checkLen(name string, got, want int) {
	if got != want {
		panic(fmt.Sprintf("speck: %s must be %d bytes, got %d", name, want, got))
	}
}

func checkSplatted(keys schedule.Splatted, rounds int) {
	if len(keys) != 2*rounds {
		panic(fmt.Sprintf("speck: splatted schedule has %d words, want %d for %d rounds", len(keys), 2*rounds, rounds))
	}
}

func checkScalar(keys schedule.Scalar, rounds int) {
	if len(keys) != rounds {
		panic(fmt.Sprintf("speck: scalar schedule has %d words, want %d for %d rounds", len(keys), rounds, rounds))
	}
}

// Encrypt2 runs rounds SPECK-128 encryption rounds over one independent
// block-pair (two 16-byte blocks, 32 bytes total). dst and src may alias
// (in-place encryption is supported: each output block is only written once
// its corresponding input has been fully consumed into the kernel state).
func Encrypt2(dst, src []byte, keys schedule.Splatted, rounds int) {
	checkLen("src", len(src), 2*blockSize)
	checkLen("dst", len(dst), 2*blockSize)
	checkSplatted(keys, rounds)

	p := loadPair(src[0:16], src[16:32])
	for i := 0; i < rounds; i++ {
		p.encRound(simd.Vec128{Lo: keys[2*i], Hi: keys[2*i+1]})
	}
	p.store(dst[0:16], dst[16:32])
}

// Decrypt2 is the inverse of Encrypt2, consuming a scalar round-key
// schedule and iterating rounds-1 down to 0.
func Decrypt2(dst, src []byte, keys schedule.Scalar, rounds int) {
	checkLen("src", len(src), 2*blockSize)
	checkLen("dst", len(dst), 2*blockSize)
	checkScalar(keys, rounds)

	p := loadPair(src[0:16], src[16:32])
	for i := rounds - 1; i >= 0; i-- {
		p.decRound(simd.Broadcast64(keys[i]))
	}
	p.store(dst[0:16], dst[16:32])
}

// Encrypt6 runs rounds SPECK-128 encryption rounds over three independent
// block-pairs (six 16-byte blocks, 96 bytes total), interleaving the three
// pairs' instructions round by round to hide the add/xor dependency latency
// across independent execution ports; it produces byte-identical output to
// three calls to Encrypt2, just with more available instruction-level
// parallelism.
func Encrypt6(dst, src []byte, keys schedule.Splatted, rounds int) {
	checkLen("src", len(src), 6*blockSize)
	checkLen("dst", len(dst), 6*blockSize)
	checkSplatted(keys, rounds)

	p0 := loadPair(src[0:16], src[16:32])
	p1 := loadPair(src[32:48], src[48:64])
	p2 := loadPair(src[64:80], src[80:96])

	for i := 0; i < rounds; i++ {
		k := simd.Vec128{Lo: keys[2*i], Hi: keys[2*i+1]}
		p0.encRound(k)
		p1.encRound(k)
		p2.encRound(k)
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

	for i := rounds - 1; i >= 0; i-- {
		k := simd.Broadcast64(keys[i])
		p0.decRound(k)
		p1.decRound(k)
		p2.decRound(k)
	}

	p0.store(dst[0:16], dst[16:32])
	p1.store(dst[32:48], dst[48:64])
	p2.store(dst[64:80], dst[80:96])
}
