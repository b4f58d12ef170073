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

// Package simd provides the 128-bit-vector-of-two-64-bit-lanes primitives
// that the SIMON-128 and SPECK-128 kernels are built from. Go has no compiler
// intrinsics, so every backend (amd64/ssse3, arm64/neon, ppc64(le)/altivec,
// and a portable fallback) implements the same Vec128 contract in plain Go;
// only the byte-order used to map a 16-byte block onto a Vec128 and the
// rotate-by-8 specialization differ, and those live in the per-GOARCH files
// alongside this one.
package simd

import "encoding/binary"

// Vec128 is a 128-bit register viewed as two packed 64-bit lanes, matching
// the pair-transposed block state described by the cipher's data model:
// Lo carries the first (even-indexed) block's half, Hi the second's.
type Vec128 struct {
	Lo, Hi uint64
}

// Xor returns the lanewise XOR of a and b.
func Xor(a, b Vec128) Vec128 { return Vec128{Lo: a.Lo ^ b.Lo, Hi: a.Hi ^ b.Hi} }

// And returns the lanewise AND of a and b.
func And(a, b Vec128) Vec128 { return Vec128{Lo: a.Lo & b.Lo, Hi: a.Hi & b.Hi} }

// Or returns the lanewise OR of a and b.
func Or(a, b Vec128) Vec128 { return Vec128{Lo: a.Lo | b.Lo, Hi: a.Hi | b.Hi} }

// Add64 returns the lanewise 64-bit (mod 2^64) sum of a and b.
func Add64(a, b Vec128) Vec128 { return Vec128{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi} }

// Sub64 returns the lanewise 64-bit (mod 2^64) difference a - b.
func Sub64(a, b Vec128) Vec128 { return Vec128{Lo: a.Lo - b.Lo, Hi: a.Hi - b.Hi} }

// Broadcast64 duplicates a scalar round key into both lanes of a vector,
// the scalar-schedule broadcast described in the data model.
func Broadcast64(k uint64) Vec128 { return Vec128{Lo: k, Hi: k} }

// UnpackHi64 forms (a.Hi, b.Hi): the first half of the pair-transpose.
func UnpackHi64(a, b Vec128) Vec128 { return Vec128{Lo: a.Hi, Hi: b.Hi} }

// UnpackLo64 forms (a.Lo, b.Lo): the second half of the pair-transpose.
func UnpackLo64(a, b Vec128) Vec128 { return Vec128{Lo: a.Lo, Hi: b.Lo} }

// RotL64By1 rotates each 64-bit lane left by 1 bit.
func RotL64By1(v Vec128) Vec128 { return Vec128{Lo: rotl(v.Lo, 1), Hi: rotl(v.Hi, 1)} }

// RotL64By2 rotates each 64-bit lane left by 2 bits.
func RotL64By2(v Vec128) Vec128 { return Vec128{Lo: rotl(v.Lo, 2), Hi: rotl(v.Hi, 2)} }

// RotL64By3 rotates each 64-bit lane left by 3 bits (SPECK's beta).
func RotL64By3(v Vec128) Vec128 { return Vec128{Lo: rotl(v.Lo, 3), Hi: rotl(v.Hi, 3)} }

// RotR64By3 rotates each 64-bit lane right by 3 bits, the inverse of RotL64By3.
func RotR64By3(v Vec128) Vec128 { return Vec128{Lo: rotr(v.Lo, 3), Hi: rotr(v.Hi, 3)} }

// RotL64By8 and RotR64By8 (SPECK's alpha, and SIMON's third rotate) are
// specialized per backend as a byte-permute; see simd_<goarch>.go.

func rotl(x uint64, r uint) uint64 { return (x << r) | (x >> (64 - r)) }
func rotr(x uint64, r uint) uint64 { return (x >> r) | (x << (64 - r)) }

// loadPair decodes the two 8-byte halves of a 16-byte block under the given
// byte order into a Vec128{Hi: first half (X), Lo: second half (Y)}, per the
// wire layout where X occupies the high 64-bit lane.
func loadPair(b []byte, order binary.ByteOrder) Vec128 {
	return Vec128{Hi: order.Uint64(b[0:8]), Lo: order.Uint64(b[8:16])}
}

// storePair is the inverse of loadPair.
func storePair(b []byte, v Vec128, order binary.ByteOrder) {
	order.PutUint64(b[0:8], v.Hi)
	order.PutUint64(b[8:16], v.Lo)
}

// rotl8PermIndices derives the byte-permute indices that realize a
// rotate-left-by-one-byte of each 8-byte lane, for the given in-memory byte
// order. Backends call this instead of hard-coding two literal mask tables
// for the big- and little-endian cases, per the endianness design note.
func rotl8PermIndices(order binary.ByteOrder) (lane [8]int) {
	var probe uint64 = 0x0706050403020100
	var buf [8]byte
	order.PutUint64(buf[:], probe)
	// buf[i] now holds the logical byte-index i occupies at memory offset i.
	// Rotating the 64-bit value left by 8 bits is equivalent, in memory terms,
	// to the permutation that moves the byte holding logical index (i-1 mod 8)
	// into position i.
	logicalAt := func(memIdx int) int { return int(buf[memIdx]) }
	posOfLogical := [8]int{}
	for mem := 0; mem < 8; mem++ {
		posOfLogical[logicalAt(mem)] = mem
	}
	for i := 0; i < 8; i++ {
		prevLogical := (i - 1 + 8) % 8
		lane[i] = posOfLogical[prevLogical]
	}
	return lane
}

// rotr8PermIndices is the inverse permutation of rotl8PermIndices.
func rotr8PermIndices(order binary.ByteOrder) (lane [8]int) {
	fwd := rotl8PermIndices(order)
	for i, j := range fwd {
		lane[j] = i
	}
	return lane
}

func permuteBytes(b [8]byte, idx [8]int) (out [8]byte) {
	for i := range out {
		out[i] = b[idx[i]]
	}
	return out
}
