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

package simd

import (
	"math/bits"
	"testing"
)

func TestTransposeInvertibility(t *testing.T) {
	a := Vec128{Lo: 0x0123456789abcdef, Hi: 0xfedcba9876543210}
	b := Vec128{Lo: 0x1111222233334444, Hi: 0x5555666677778888}

	xv := UnpackHi64(a, b)
	yv := UnpackLo64(a, b)

	gotA := Vec128{Lo: UnpackLo64(yv, xv).Lo, Hi: UnpackLo64(yv, xv).Hi}
	gotB := UnpackHi64(yv, xv)

	if gotA != a {
		t.Fatalf("detranspose block A = %+v, want %+v", gotA, a)
	}
	if gotB != b {
		t.Fatalf("detranspose block B = %+v, want %+v", gotB, b)
	}
}

func TestRotateBy8SpecializationEquivalence(t *testing.T) {
	vals := []uint64{
		0, ^uint64(0), 1, 0x0102030405060708, 0xdeadbeefcafebabe, 0x8000000000000001,
	}
	for _, v := range vals {
		want := bits.RotateLeft64(v, 8)
		if got := RotL64By8(Vec128{Lo: v, Hi: v}).Lo; got != want {
			t.Errorf("RotL64By8(%#x) = %#x, want %#x", v, got, want)
		}
		wantR := bits.RotateLeft64(v, -8)
		if got := RotR64By8(Vec128{Lo: v, Hi: v}).Lo; got != wantR {
			t.Errorf("RotR64By8(%#x) = %#x, want %#x", v, got, wantR)
		}
		// Rotate-left-8 then rotate-right-8 must be the identity: the
		// permute and its inverse must actually cancel, not merely agree
		// with bits.RotateLeft64 on their own.
		roundTrip := RotR64By8(RotL64By8(Vec128{Lo: v, Hi: v}))
		if roundTrip.Lo != v || roundTrip.Hi != v {
			t.Errorf("RotR64By8(RotL64By8(%#x)) = %+v, want both lanes %#x", v, roundTrip, v)
		}
	}
}

func TestRotateGenericAmounts(t *testing.T) {
	v := Vec128{Lo: 0x0102030405060708, Hi: 0x1122334455667788}
	cases := []struct {
		name string
		f    func(Vec128) Vec128
		r    int
	}{
		{"RotL64By1", RotL64By1, 1},
		{"RotL64By2", RotL64By2, 2},
		{"RotL64By3", RotL64By3, 3},
	}
	for _, c := range cases {
		got := c.f(v)
		if got.Lo != bits.RotateLeft64(v.Lo, c.r) || got.Hi != bits.RotateLeft64(v.Hi, c.r) {
			t.Errorf("%s: got %+v, want lanes rotated by %d", c.name, got, c.r)
		}
	}
	got := RotR64By3(v)
	if got.Lo != bits.RotateLeft64(v.Lo, -3) || got.Hi != bits.RotateLeft64(v.Hi, -3) {
		t.Errorf("RotR64By3: got %+v, want lanes rotated by -3", got)
	}
}
