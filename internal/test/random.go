package test

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a pseudo-random ASCII string within the provided bounds.
// When maxLen equals minLen the resulting string always has that exact length.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + rand.IntN(maxLen-minLen+1)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(buf)
}

// RandomAmount returns a money amount with two decimal places in [lower, upper].
// Bounds are rounded to cents first.
func RandomAmount(lower, upper decimal.Decimal) decimal.Decimal {
	lo := lower.Shift(2).Round(0).IntPart()
	hi := upper.Shift(2).Round(0).IntPart()
	if hi <= lo {
		return decimal.New(lo, -2)
	}
	return decimal.New(lo+rand.Int64N(hi-lo+1), -2)
}
