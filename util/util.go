package util

import (
	"math"
	"strconv"
)

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsNumberAndLargerThanZero(b byte) bool {
	if b == '0' {
		return false
	}
	return IsNumber(b)
}

func IsUnderScore(b byte) bool {
	return b == '_'
}

func IsUpperLetter(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func IsLowerLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func IsLetter(b byte) bool {
	return IsLowerLetter(b) || IsUpperLetter(b)
}

func IsLetterOrUnderscore(b byte) bool {
	return IsLetter(b) || IsUnderScore(b)
}

func IsLetterOrUnderscoreOrNumber(b byte) bool {
	return IsLetter(b) || IsUnderScore(b) || IsNumber(b)
}

// FitsInt32 reports whether the decimal literal fits in a 32 bit signed integer. When negated is true
// the literal is the operand of a unary minus, so its magnitude may reach 2147483648.
func FitsInt32(literal string, negated bool) bool {
	v, err := strconv.ParseUint(literal, 10, 64)
	if err != nil {
		return false
	}
	if negated {
		return v <= uint64(math.MaxInt32)+1
	}
	return v <= uint64(math.MaxInt32)
}
