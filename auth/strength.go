package auth

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// Strength is a coarse passphrase quality bucket.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
	VeryStrong
)

// Label returns a short human-readable name for the bucket.
func (s Strength) Label() string {
	switch s {
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	default:
		return "very strong"
	}
}

// Estimate buckets the zxcvbn score (0-4) of the given password.
func Estimate(pw string) Strength {
	score := zxcvbn.PasswordStrength(pw, nil).Score
	switch {
	case score <= 1:
		return Weak
	case score == 2:
		return Medium
	case score == 3:
		return Strong
	default:
		return VeryStrong
	}
}
