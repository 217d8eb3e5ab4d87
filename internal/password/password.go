// Package password generates and validates user credentials.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"unicode"
)

const (
	lower    = "abcdefghijklmnopqrstuvwxyz"
	upper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits   = "0123456789"
	specials = "!@#$%^&*()-_=+[]{}|;:,.<>/?"
)

// MinLength is the minimum accepted length for user-supplied passwords.
const MinLength = 6

// ValidateStrength checks that pw is at least MinLength characters and
// contains a lowercase letter, an uppercase letter, a digit, and a special
// character.
func ValidateStrength(pw string) error {
	if len(pw) < MinLength {
		return fmt.Errorf("password must be at least %d characters long", MinLength)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, c := range pw {
		switch {
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsDigit(c):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return errors.New("password must contain at least one lowercase letter, one uppercase letter, one digit, and one special character")
	}
	return nil
}

// Generate returns a random password of length n containing at least one
// character from each class. One character per class is drawn first, the
// remainder comes from the union of all classes, and the result is shuffled
// so the mandatory characters are not predictably positioned.
func Generate(n int) (string, error) {
	if n < 4 {
		return "", errors.New("password length must be at least 4")
	}

	pools := []string{lower, upper, digits, specials}
	all := lower + upper + digits + specials

	pw := make([]byte, 0, n)
	for _, pool := range pools {
		c, err := pickByte(pool)
		if err != nil {
			return "", err
		}
		pw = append(pw, c)
	}
	for len(pw) < n {
		c, err := pickByte(all)
		if err != nil {
			return "", err
		}
		pw = append(pw, c)
	}

	if err := shuffle(pw); err != nil {
		return "", err
	}
	return string(pw), nil
}

func pickByte(pool string) (byte, error) {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return pool[i.Int64()], nil
}

// shuffle performs a Fisher-Yates shuffle with crypto/rand indices.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to read random source: %w", err)
		}
		b[i], b[j.Int64()] = b[j.Int64()], b[i]
	}
	return nil
}
