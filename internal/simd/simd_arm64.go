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

//go:build arm64

// NEON/AArch64 backend: the TBL-shaped lane primitives. AArch64 Go targets
// are little-endian.
package simd

import "encoding/binary"

// Backend names the SIMD instruction family this file's primitives target.
const Backend = "neon"

var hostOrder binary.ByteOrder = binary.LittleEndian

var (
	rotl8Idx = rotl8PermIndices(hostOrder)
	rotr8Idx = rotr8PermIndices(hostOrder)
)

// RotL64By8 rotates each lane left by 8 bits via the byte-table-lookup (TBL)
// shaped permute NEON uses in place of three shift/or instructions.
func RotL64By8(v Vec128) Vec128 { return permuteRot8(v, rotl8Idx) }

// RotR64By8 is the inverse permute of RotL64By8.
func RotR64By8(v Vec128) Vec128 { return permuteRot8(v, rotr8Idx) }

func permuteRot8(v Vec128, idx [8]int) Vec128 {
	var lo, hi [8]byte
	binary.LittleEndian.PutUint64(lo[:], v.Lo)
	binary.LittleEndian.PutUint64(hi[:], v.Hi)
	lo = permuteBytes(lo, idx)
	hi = permuteBytes(hi, idx)
	return Vec128{Lo: binary.LittleEndian.Uint64(lo[:]), Hi: binary.LittleEndian.Uint64(hi[:])}
}

// LoadBlock decodes a 16-byte cipher block into its native (X, Y) pair; X
// (the block's high half, per the wire layout) lands in Hi, Y in Lo.
func LoadBlock(b []byte) Vec128 { return loadPair(b, hostOrder) }

// StoreBlock is the inverse of LoadBlock.
func StoreBlock(b []byte, v Vec128) { storePair(b, v, hostOrder) }
