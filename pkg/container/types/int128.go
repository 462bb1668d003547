// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"math/bits"
	"strconv"
)

// Int128 is a signed 128-bit integer, two's complement, stored as two
// 64-bit halves. It exists to let SUM/AVG over i64/u64 columns overflow
// the native 64-bit accumulator without losing precision (spec.md §4.2).
//
// B0_63 holds the low 64 bits, B64_127 the high 64 bits (including sign),
// mirroring the teacher's Decimal128{B0_63, B64_127} layout.
type Int128 struct {
	B0_63   uint64
	B64_127 uint64
}

var (
	Int128Zero = Int128{}
	Int128One  = Int128{B0_63: 1}
)

func Int128FromInt64(v int64) Int128 {
	hi := uint64(0)
	if v < 0 {
		hi = ^uint64(0)
	}
	return Int128{B0_63: uint64(v), B64_127: hi}
}

func Int128FromUint64(v uint64) Int128 {
	return Int128{B0_63: v}
}

func Int128FromFloat64(f float64) Int128 {
	if f < 0 {
		neg := Int128FromFloat64(-f)
		return neg.Neg()
	}
	hi := uint64(f / 18446744073709551616.0)
	lo := uint64(f - float64(hi)*18446744073709551616.0)
	return Int128{B0_63: lo, B64_127: hi}
}

func (x Int128) IsNegative() bool {
	return x.B64_127>>63 == 1
}

// ToInt64 narrows x to int64, returning ok=false if x is out of range.
func (x Int128) ToInt64() (int64, bool) {
	if x.IsNegative() {
		if x.B64_127 != ^uint64(0) {
			return 0, false
		}
		if int64(x.B0_63) >= 0 {
			return 0, false
		}
		return int64(x.B0_63), true
	}
	if x.B64_127 != 0 {
		return 0, false
	}
	if int64(x.B0_63) < 0 {
		return 0, false
	}
	return int64(x.B0_63), true
}

// ToUint64 narrows x to uint64, returning ok=false if x is out of range.
func (x Int128) ToUint64() (uint64, bool) {
	if x.IsNegative() || x.B64_127 != 0 {
		return 0, false
	}
	return x.B0_63, true
}

func (x Int128) ToFloat64() float64 {
	if x.IsNegative() {
		return -x.Neg().ToFloat64()
	}
	return float64(x.B64_127)*18446744073709551616.0 + float64(x.B0_63)
}

// Add returns x+y and whether the addition overflowed signed 128-bit range.
func (x Int128) Add(y Int128) (Int128, bool) {
	lo, carry := bits.Add64(x.B0_63, y.B0_63, 0)
	hi, _ := bits.Add64(x.B64_127, y.B64_127, carry)
	sum := Int128{B0_63: lo, B64_127: hi}
	// overflow iff operands share a sign and the result's sign differs from it.
	xNeg, yNeg, sNeg := x.IsNegative(), y.IsNegative(), sum.IsNegative()
	overflow := xNeg == yNeg && sNeg != xNeg
	return sum, overflow
}

// Sub returns x-y and whether the subtraction overflowed.
func (x Int128) Sub(y Int128) (Int128, bool) {
	return x.Add(y.Neg())
}

func (x Int128) Neg() Int128 {
	lo, carry := bits.Add64(^x.B0_63, 1, 0)
	hi, _ := bits.Add64(^x.B64_127, 0, carry)
	return Int128{B0_63: lo, B64_127: hi}
}

func (x Int128) Not() Int128 {
	return Int128{B0_63: ^x.B0_63, B64_127: ^x.B64_127}
}

func (x Int128) And(y Int128) Int128 {
	return Int128{B0_63: x.B0_63 & y.B0_63, B64_127: x.B64_127 & y.B64_127}
}

func (x Int128) Or(y Int128) Int128 {
	return Int128{B0_63: x.B0_63 | y.B0_63, B64_127: x.B64_127 | y.B64_127}
}

func (x Int128) Xor(y Int128) Int128 {
	return Int128{B0_63: x.B0_63 ^ y.B0_63, B64_127: x.B64_127 ^ y.B64_127}
}

func (x Int128) Shl(n uint) Int128 {
	if n == 0 {
		return x
	}
	if n >= 128 {
		return Int128Zero
	}
	if n >= 64 {
		return Int128{B0_63: 0, B64_127: x.B0_63 << (n - 64)}
	}
	return Int128{
		B0_63:   x.B0_63 << n,
		B64_127: (x.B64_127 << n) | (x.B0_63 >> (64 - n)),
	}
}

// Shr is a logical (unsigned) right shift over the 128-bit pattern.
func (x Int128) Shr(n uint) Int128 {
	if n == 0 {
		return x
	}
	if n >= 128 {
		return Int128Zero
	}
	if n >= 64 {
		return Int128{B0_63: x.B64_127 >> (n - 64), B64_127: 0}
	}
	return Int128{
		B0_63:   (x.B0_63 >> n) | (x.B64_127 << (64 - n)),
		B64_127: x.B64_127 >> n,
	}
}

// TryMul returns x*y and ok=false if the product does not fit in 128 bits.
func (x Int128) TryMul(y Int128) (Int128, bool) {
	xNeg, yNeg := x.IsNegative(), y.IsNegative()
	ax, ay := x, y
	if xNeg {
		ax = x.Neg()
	}
	if yNeg {
		ay = y.Neg()
	}
	hi, lo := bits.Mul64(ax.B0_63, ay.B0_63)
	// cross terms must not overflow into bits above 128, and the high
	// halves of both operands must be zero for an exact 128-bit product.
	if ax.B64_127 != 0 && ay.B64_127 != 0 {
		return Int128Zero, false
	}
	crossHi1, crossLo1 := bits.Mul64(ax.B64_127, ay.B0_63)
	crossHi2, crossLo2 := bits.Mul64(ax.B0_63, ay.B64_127)
	if crossHi1 != 0 || crossHi2 != 0 {
		return Int128Zero, false
	}
	newHi, carry1 := bits.Add64(hi, crossLo1, 0)
	newHi, carry2 := bits.Add64(newHi, crossLo2, carry1)
	if carry2 != 0 {
		return Int128Zero, false
	}
	prod := Int128{B0_63: lo, B64_127: newHi}
	if prod.IsNegative() {
		// the unsigned magnitude spilled into the sign bit.
		return Int128Zero, false
	}
	if xNeg != yNeg {
		prod = prod.Neg()
	}
	return prod, true
}

// Div performs truncating signed division. Division by zero is a
// precondition violation of the caller, per spec.md §4.2.
func (x Int128) Div(y Int128) Int128 {
	q, _ := x.QuoRem(y)
	return q
}

func (x Int128) Mod(y Int128) Int128 {
	_, r := x.QuoRem(y)
	return r
}

// QuoRem implements shift-and-subtract long division on the unsigned
// magnitudes, then reapplies sign, per spec.md §9.
func (x Int128) QuoRem(y Int128) (Int128, Int128) {
	if y == Int128Zero {
		panic("types: Int128 division by zero")
	}
	xNeg, yNeg := x.IsNegative(), y.IsNegative()
	ax, ay := x, y
	if xNeg {
		ax = x.Neg()
	}
	if yNeg {
		ay = y.Neg()
	}
	quo, rem := uquoRem(ax, ay)
	if xNeg != yNeg {
		quo = quo.Neg()
	}
	if xNeg {
		rem = rem.Neg()
	}
	return quo, rem
}

func uquoRem(x, y Int128) (Int128, Int128) {
	if ucompare(x, y) < 0 {
		return Int128Zero, x
	}
	var quo Int128
	rem := Int128Zero
	for i := 127; i >= 0; i-- {
		rem = rem.Shl(1)
		if bitAt(x, i) {
			rem.B0_63 |= 1
		}
		if ucompare(rem, y) >= 0 {
			rem, _ = rem.Sub(y)
			quo = setBit(quo, i)
		}
	}
	return quo, rem
}

func bitAt(x Int128, i int) bool {
	if i >= 64 {
		return (x.B64_127>>(uint(i-64)))&1 == 1
	}
	return (x.B0_63>>uint(i))&1 == 1
}

func setBit(x Int128, i int) Int128 {
	if i >= 64 {
		x.B64_127 |= 1 << uint(i-64)
		return x
	}
	x.B0_63 |= 1 << uint(i)
	return x
}

func ucompare(x, y Int128) int {
	if x.B64_127 != y.B64_127 {
		if x.B64_127 < y.B64_127 {
			return -1
		}
		return 1
	}
	if x.B0_63 != y.B0_63 {
		if x.B0_63 < y.B0_63 {
			return -1
		}
		return 1
	}
	return 0
}

// Compare returns -1, 0, or 1 for signed comparison of x and y.
func (x Int128) Compare(y Int128) int {
	xNeg, yNeg := x.IsNegative(), y.IsNegative()
	if xNeg != yNeg {
		if xNeg {
			return -1
		}
		return 1
	}
	return ucompare(x, y)
}

func (x Int128) Less(y Int128) bool    { return x.Compare(y) < 0 }
func (x Int128) LessEq(y Int128) bool  { return x.Compare(y) <= 0 }
func (x Int128) Greater(y Int128) bool { return x.Compare(y) > 0 }
func (x Int128) GreaterEq(y Int128) bool {
	return x.Compare(y) >= 0
}
func (x Int128) Equal(y Int128) bool { return x == y }

// String renders x in decimal, matching Decimal128's base-10 rendering.
func (x Int128) String() string {
	if x == Int128Zero {
		return "0"
	}
	neg := x.IsNegative()
	ax := x
	if neg {
		ax = x.Neg()
	}
	const base = 1_000_000_000_000_000_000 // 10^18, fits a uint64 quotient step
	var chunks []uint64
	for ax != Int128Zero {
		q, r := uquoRem(ax, Int128FromUint64(base))
		chunks = append(chunks, r.B0_63)
		ax = q
	}
	buf := make([]byte, 0, 40)
	if neg {
		buf = append(buf, '-')
	}
	buf = append(buf, strconv.FormatUint(chunks[len(chunks)-1], 10)...)
	for i := len(chunks) - 2; i >= 0; i-- {
		s := strconv.FormatUint(chunks[i], 10)
		for len(s) < 18 {
			s = "0" + s
		}
		buf = append(buf, s...)
	}
	return string(buf)
}
