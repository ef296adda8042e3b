// Package passgen generates random passwords from configurable character
// classes, drawing from crypto/rand.
package passgen

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// ambiguous holds characters that are easy to misread across fonts.
	ambiguous = "il1Lo0O"
)

var (
	// ErrZeroLength indicates a requested length of zero.
	ErrZeroLength = errors.New("password length must be positive")

	// ErrEmptyCharset indicates no character class survived the options.
	ErrEmptyCharset = errors.New("at least one character class must be enabled")
)

// Options selects the length and character classes for generated passwords.
type Options struct {
	Length         int
	Uppercase      bool
	Lowercase      bool
	Digits         bool
	Symbols        bool
	AvoidAmbiguous bool
}

// DefaultOptions enables every class over 16 characters, skipping ambiguous
// glyphs.
func DefaultOptions() Options {
	return Options{
		Length:         16,
		Uppercase:      true,
		Lowercase:      true,
		Digits:         true,
		Symbols:        true,
		AvoidAmbiguous: true,
	}
}

// Generate returns a random password of exactly opts.Length characters drawn
// uniformly from the enabled classes.
func Generate(opts Options) (string, error) {
	if opts.Length <= 0 {
		return "", ErrZeroLength
	}

	var charset strings.Builder
	if opts.Uppercase {
		charset.WriteString(uppercase)
	}
	if opts.Lowercase {
		charset.WriteString(lowercase)
	}
	if opts.Digits {
		charset.WriteString(digits)
	}
	if opts.Symbols {
		charset.WriteString(symbols)
	}

	chars := charset.String()
	if opts.AvoidAmbiguous {
		chars = strings.Map(func(r rune) rune {
			if strings.ContainsRune(ambiguous, r) {
				return -1
			}
			return r
		}, chars)
	}
	if chars == "" {
		return "", ErrEmptyCharset
	}

	max := big.NewInt(int64(len(chars)))
	out := make([]byte, opts.Length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = chars[n.Int64()]
	}
	return string(out), nil
}
