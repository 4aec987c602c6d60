package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars  = "abcdefghijkmnpqrstuvwxyz"
	digitChars  = "23456789"
	symbolChars = "!@#$%*-_+?"

	// TemporaryPasswordLength is used for admin-issued password resets.
	TemporaryPasswordLength = 12
)

var ErrTemporaryPasswordLength = errors.New("temporary password must be between 8 and 64 characters")

// TemporaryPassword returns a random password of the given length containing at least
// one upper-case letter, lower-case letter, digit and symbol. Look-alike characters
// (0/O, 1/l/I) are excluded so the password can be read out to a user.
func TemporaryPassword(length int) (string, error) {
	if length < 8 || length > 64 {
		return "", ErrTemporaryPasswordLength
	}

	sets := []string{upperChars, lowerChars, digitChars, symbolChars}
	pool := upperChars + lowerChars + digitChars + symbolChars

	out := make([]byte, length)
	for i := range out {
		charset := pool
		if i < len(sets) {
			charset = sets[i]
		}
		ch, err := pick(charset)
		if err != nil {
			return "", err
		}
		out[i] = ch
	}

	// Fisher-Yates so the guaranteed characters are not always in front.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}

	return string(out), nil
}

func pick(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
