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

//go:build !amd64 && !arm64 && !ppc64 && !ppc64le

// Portable fallback backend for architectures with none of the three SIMD
// families this module targets. Rotate-by-8 falls back to the generic
// shift/shift/or form instead of a byte-permute, since there is no SIMD
// permute instruction to model here.
package simd

import "encoding/binary"

// Backend names the SIMD instruction family this file's primitives target.
const Backend = "generic"

var hostOrder binary.ByteOrder = binary.LittleEndian

// RotL64By8 rotates each lane left by 8 bits.
func RotL64By8(v Vec128) Vec128 { return Vec128{Lo: rotl(v.Lo, 8), Hi: rotl(v.Hi, 8)} }

// RotR64By8 rotates each lane right by 8 bits.
func RotR64By8(v Vec128) Vec128 { return Vec128{Lo: rotr(v.Lo, 8), Hi: rotr(v.Hi, 8)} }

// LoadBlock decodes a 16-byte cipher block into its native (X, Y) pair; X
// (the block's high half, per the wire layout) lands in Hi, Y in Lo.
func LoadBlock(b []byte) Vec128 { return loadPair(b, hostOrder) }

// StoreBlock is the inverse of LoadBlock.
func StoreBlock(b []byte, v Vec128) { storePair(b, v, hostOrder) }
