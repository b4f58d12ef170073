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

package blockvec

// Flags is the mode-flag bitset AdvancedProcessBlocks accepts.
type Flags uint32

const (
	// XorInput XORs the xor buffer into the input before the kernel runs.
	// When clear and a xor buffer is supplied, it is instead XORed into the
	// kernel's output (post-XOR), the CBC-encrypt-vs-decrypt distinction.
	XorInput Flags = 1 << iota

	// AllowParallel permits the six-block kernel. When clear, only the
	// two-block (and, for a lone trailing block, duplicated two-block)
	// path runs.
	AllowParallel

	// InBlockIsCounter treats the input buffer's first 16 bytes as a
	// 128-bit big-endian counter: the driver feeds the kernel the current
	// counter value and increments the low 8 bytes by one per block
	// consumed, as CTR mode requires.
	InBlockIsCounter

	// DontIncrementInOutPointers rewinds the input/output window after
	// each block so the same 16 (or 32, or 96) bytes are reused, rather
	// than advancing through a larger buffer.
	DontIncrementInOutPointers

	// ReverseDirection steps the stride backwards: the in/xor/out slices are
	// passed in their ordinary forward layout, and the driver starts at their
	// last block and works toward the first.
	ReverseDirection
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }
