package services

import (
	"math/rand"
	"strconv"
)

const (
	accountNumberMin = 10_000_000_000  // 1e10, smallest 11-digit number
	accountNumberMax = 100_000_000_000 // 1e11, exclusive
)

// GenerateAccountNumber draws a uniform 11-digit account number. It does
// not guarantee uniqueness against the store; creation retries on a
// uniqueness conflict instead of trusting a single draw.
func GenerateAccountNumber() string {
	n := accountNumberMin + rand.Int63n(accountNumberMax-accountNumberMin)
	return strconv.FormatInt(n, 10)
}
