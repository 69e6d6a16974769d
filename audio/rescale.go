// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"math/bits"
)

// Rounding selects how Rescale treats a remainder.
type Rounding int

const (
	RoundZero    Rounding = iota // toward zero
	RoundInf                     // away from zero
	RoundDown                    // toward -infinity
	RoundUp                      // toward +infinity
	RoundNearInf                 // to nearest, halfway away from zero
)

// Rescale computes a*b/c with the given rounding without intermediate
// overflow. b and c must be positive. ErrRescaleOverflow is returned when the
// result does not fit an int64.
func Rescale(a, b, c int64, rnd Rounding) (int64, error) {
	if b < 0 || c <= 0 {
		return 0, ErrInvalidParameters
	}
	if a < 0 {
		// Mirror the rounding direction for the negated value.
		switch rnd {
		case RoundDown:
			rnd = RoundUp
		case RoundUp:
			rnd = RoundDown
		}
		if a == math.MinInt64 {
			return 0, ErrRescaleOverflow
		}
		r, err := Rescale(-a, b, c, rnd)
		return -r, err
	}

	var add uint64
	switch rnd {
	case RoundInf, RoundUp:
		add = uint64(c) - 1
	case RoundNearInf:
		add = uint64(c) / 2
	}

	hi, lo := bits.Mul64(uint64(a), uint64(b))
	var carry uint64
	lo, carry = bits.Add64(lo, add, 0)
	hi += carry
	if hi >= uint64(c) {
		return 0, ErrRescaleOverflow
	}
	q, _ := bits.Div64(hi, lo, uint64(c))
	if q > math.MaxInt64 {
		return 0, ErrRescaleOverflow
	}
	return int64(q), nil
}

// RescaleCount is Rescale rounded up and constrained to the signed 32-bit
// range used for sample counts.
func RescaleCount(n, dstRate, srcRate int64) (int, error) {
	v, err := Rescale(n, dstRate, srcRate, RoundUp)
	if err != nil {
		return 0, err
	}
	if v >= math.MaxInt32 || v <= math.MinInt32 {
		return 0, ErrRescaleOverflow
	}
	return int(v), nil
}
