// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Clamp limits x to [-1, 1].
func Clamp[T Float](x T) T {
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}
	return x
}

// FloatToS16 scales by 2^15 and rounds to nearest, saturating at the int16
// limits. Values decoded from int16 by dividing by 2^15 come back unchanged.
func FloatToS16(x float64) int16 {
	v := math.RoundToEven(x * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	} else if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// FloatToS32 is the 32-bit counterpart of FloatToS16.
func FloatToS32(x float64) int32 {
	v := math.RoundToEven(x * 2147483648.0)
	if v > math.MaxInt32 {
		return math.MaxInt32
	} else if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// FloatToU8 maps [-1, 1) onto unsigned 8-bit samples centred on 128.
func FloatToU8(x float64) uint8 {
	v := math.RoundToEven(x*128.0) + 128
	if v > math.MaxUint8 {
		return math.MaxUint8
	} else if v < 0 {
		return 0
	}
	return uint8(v)
}
