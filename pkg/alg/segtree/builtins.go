package segtree

import "math"

// Sentinels returned by the built-in functions for non-overlapping ranges.
// Where the operator has an identity element, the sentinel is that identity.
const (
	invalidAllBits  = -1
	invalidMinusOne = -1
	invalidZero     = 0
	invalidOne      = 1
)

// Builtins returns the built-in aggregate functions.
func Builtins() []AggregateFunction {
	return []AggregateFunction{
		{Name: "min_f", Description: "minimum of the segment", Op: minOp, Invalid: math.MaxInt64},
		{Name: "max_f", Description: "maximum of the segment", Op: maxOp, Invalid: math.MinInt64},
		{Name: "add_f", Description: "sum of the segment", Op: addOp, Invalid: invalidZero},
		{Name: "sub_f", Description: "left-folded difference", Op: subOp, Invalid: invalidZero},
		{Name: "mul_f", Description: "product of the segment", Op: mulOp, Invalid: invalidOne},
		{Name: "exp_f", Description: "left-folded integer power", Op: expOp, Invalid: invalidOne},
		{Name: "mod_f", Description: "left-folded remainder", Op: modOp, Invalid: invalidMinusOne},
		{Name: "and_f", Description: "bitwise AND of the segment", Op: andOp, Invalid: invalidAllBits},
		{Name: "or_f", Description: "bitwise OR of the segment", Op: orOp, Invalid: invalidZero},
		{Name: "xor_f", Description: "bitwise XOR of the segment", Op: xorOp, Invalid: invalidZero},
		{Name: "lcm_f", Description: "least common multiple", Op: lcmOp, Invalid: invalidOne},
		{Name: "gcd_f", Description: "greatest common divisor", Op: gcdOp, Invalid: invalidZero},
		{Name: "avg_f", Description: "truncated pairwise average", Op: avgOp, Invalid: invalidZero},
	}
}

func minOp(a, b int64) int64 { return min(a, b) }

func maxOp(a, b int64) int64 { return max(a, b) }

func addOp(a, b int64) int64 { return a + b }

func subOp(a, b int64) int64 { return a - b }

func mulOp(a, b int64) int64 { return a * b }

func andOp(a, b int64) int64 { return a & b }

func orOp(a, b int64) int64 { return a | b }

func xorOp(a, b int64) int64 { return a ^ b }

// avgOp truncates toward zero.
func avgOp(a, b int64) int64 { return (a + b) / 2 }

// modOp takes the sign of the divisor. A zero divisor yields a.
func modOp(a, b int64) int64 {
	if b == 0 {
		return a
	}

	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}

	return r
}

// expOp computes a**b by squaring. Negative exponents truncate to an integer.
func expOp(a, b int64) int64 {
	if b < 0 {
		switch a {
		case 1:
			return 1
		case -1:
			if b%2 == 0 {
				return 1
			}

			return -1
		default:
			return 0
		}
	}

	result := int64(1)

	for base := a; b > 0; b >>= 1 {
		if b&1 == 1 {
			result *= base
		}

		base *= base
	}

	return result
}

func gcdOp(a, b int64) int64 {
	a, b = abs(a), abs(b)

	for b != 0 {
		a, b = b, a%b
	}

	return a
}

func lcmOp(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}

	return abs(a/gcdOp(a, b)) * abs(b)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
