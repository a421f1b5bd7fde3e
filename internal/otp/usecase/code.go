package usecase

import (
	"crypto/rand"
	"math/big"
)

var ten = big.NewInt(10)

// newCode draws n decimal digits, each independently and uniformly.
func (s *Usecase) newCode(n int) (string, error) {
	buf := make([]byte, n)
	for i := range buf {
		d, err := rand.Int(s.random, ten)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + d.Int64())
	}

	return string(buf), nil
}
