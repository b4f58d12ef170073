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

// Package blockvec implements the advanced block-processing driver that
// sits above a cipher's two-block and six-block kernels: it walks a byte
// buffer, assembles kernel-sized groups, applies the XOR-chaining and
// counter-mode flag contract, and dispatches to whichever kernel width
// fits the bytes remaining.
//
// The driver is generic over the cipher: callers close over a concrete
// kernel pair (for example speck.Encrypt2/speck.Encrypt6 bound to a
// schedule and round count) and hand the driver a Direction.
package blockvec

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/slices"
)

const blockSize = 16

// kernelWidths lists the valid scratch-buffer widths the driver ever hands
// to a kernel, widest first; process and the trailing single-block path
// check against this instead of re-deriving the 6/2/1-block arithmetic
// inline.
var kernelWidths = []int{6 * blockSize, 2 * blockSize, blockSize}

func checkKernelWidth(w int) {
	if !slices.Contains(kernelWidths, w) {
		panic(fmt.Sprintf("blockvec: %d is not a valid kernel width", w))
	}
}

// BlockFunc runs a cipher kernel over a fixed-size buffer. dst and src may
// alias. Pair kernels operate on 2*blockSize bytes, Six kernels on
// 6*blockSize bytes.
type BlockFunc func(dst, src []byte)

// Direction bundles the two kernel widths for one (cipher, key, direction)
// combination.
type Direction struct {
	Pair BlockFunc // 32 bytes
	Six  BlockFunc // 96 bytes
}

func xorInto(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// window returns the sub-slice of buf (logically blockSize-granular and
// "total" bytes long) that is being processed after "done" bytes have
// already been consumed, honoring direction and whether the pointer is
// pinned in place.
func window(buf []byte, total, done, w int, reverse, fixed bool) []byte {
	var offset int
	switch {
	case fixed && !reverse:
		offset = 0
	case fixed && reverse:
		offset = total - w
	case reverse:
		offset = total - done - w
	default:
		offset = done
	}
	return buf[offset : offset+w]
}

// incrementCounter increments the low 8 bytes of a 128-bit big-endian
// counter by one, per the InBlockIsCounter contract; it does not propagate
// a carry into the high 8 bytes.
func incrementCounter(counter []byte) {
	low := binary.BigEndian.Uint64(counter[8:16])
	binary.BigEndian.PutUint64(counter[8:16], low+1)
}

// AdvancedProcessBlocks processes as many whole blocks as possible out of
// the first length bytes of the logical in/xorBuf/out streams, dispatching
// to the six-block kernel while AllowParallel is set and at least six
// blocks remain, then the two-block kernel, then a duplicated-slot
// two-block kernel call for a single trailing block. It returns the number
// of bytes it declined to process (length mod 16: always less than 16, and 0
// for any length that is itself a multiple of 16).
//
// When InBlockIsCounter is set, in must be exactly a 16-byte counter
// register: the driver feeds the kernel successive pre-increment counter
// values and leaves the post-increment value in place in in, regardless of
// the DontIncrementInOutPointers flag (which governs buffer-window
// advancement, not the counter's value). Otherwise in must hold exactly
// length bytes, as out and, if non-nil, xorBuf always do.
//
// Precondition violations (a buffer shorter than length requires, length
// not representable as a non-negative block count) panic; this core has no
// recoverable error path.
func AdvancedProcessBlocks(dir Direction, in, xorBuf, out []byte, length int, flags Flags) (bytesRemaining int) {
	if length < 0 {
		panic(fmt.Sprintf("blockvec: negative length %d", length))
	}
	if len(out) < length {
		panic(fmt.Sprintf("blockvec: out has %d bytes, need %d", len(out), length))
	}
	counter := flags.has(InBlockIsCounter)
	if counter {
		if len(in) != blockSize {
			panic(fmt.Sprintf("blockvec: counter register must be exactly %d bytes, got %d", blockSize, len(in)))
		}
	} else if len(in) < length {
		panic(fmt.Sprintf("blockvec: in has %d bytes, need %d", len(in), length))
	}
	if xorBuf != nil && len(xorBuf) < length {
		panic(fmt.Sprintf("blockvec: xorBuf has %d bytes, need %d", len(xorBuf), length))
	}

	reverse := flags.has(ReverseDirection)
	fixed := flags.has(DontIncrementInOutPointers)
	preXor := flags.has(XorInput)
	parallel := flags.has(AllowParallel)

	total := length
	done := 0
	remaining := length
	scratchIn := make([]byte, 6*blockSize)
	scratchOut := make([]byte, 6*blockSize)

	process := func(w int, kernel BlockFunc) {
		checkKernelWidth(w)
		kIn := scratchIn[:w]
		if counter {
			for i := 0; i < w/blockSize; i++ {
				copy(kIn[i*blockSize:i*blockSize+blockSize], in)
				incrementCounter(in)
			}
		} else {
			copy(kIn, window(in, total, done, w, reverse, fixed))
		}

		var xorWindow []byte
		if xorBuf != nil {
			xorWindow = window(xorBuf, total, done, w, reverse, false)
			if preXor {
				xorInto(kIn, xorWindow)
			}
		}

		kOut := scratchOut[:w]
		kernel(kOut, kIn)

		if xorBuf != nil && !preXor {
			xorInto(kOut, xorWindow)
		}

		copy(window(out, total, done, w, reverse, fixed), kOut)
		done += w
		remaining -= w
	}

	for parallel && remaining >= 6*blockSize {
		process(6*blockSize, dir.Six)
	}
	for remaining >= 2*blockSize {
		process(2*blockSize, dir.Pair)
	}
	for remaining >= blockSize {
		// Single block through the two-block kernel: duplicate the real
		// block into the unused second slot and keep only the first
		// blockSize bytes of the result.
		checkKernelWidth(blockSize)
		kIn := scratchIn[:2*blockSize]
		if counter {
			copy(kIn[0:blockSize], in)
			incrementCounter(in)
		} else {
			copy(kIn[0:blockSize], window(in, total, done, blockSize, reverse, fixed))
		}
		copy(kIn[blockSize:2*blockSize], kIn[0:blockSize])

		var xorWindow []byte
		if xorBuf != nil {
			xorWindow = window(xorBuf, total, done, blockSize, reverse, false)
			if preXor {
				xorInto(kIn[0:blockSize], xorWindow)
			}
		}

		kOut := scratchOut[:2*blockSize]
		dir.Pair(kOut, kIn)

		if xorBuf != nil && !preXor {
			xorInto(kOut[0:blockSize], xorWindow)
		}

		copy(window(out, total, done, blockSize, reverse, fixed), kOut[0:blockSize])
		done += blockSize
		remaining -= blockSize
	}

	return remaining
}
