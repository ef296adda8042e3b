package auth

import (
	"errors"
	"strings"
	"unicode"
)

// minPassphraseLen is the minimum master passphrase length. The KDF slows
// offline guessing but cannot rescue a trivially short passphrase.
const minPassphraseLen = 12

type requirement struct {
	met func(string) bool
	err error
}

var passphraseRequirements = []requirement{
	{
		met: func(pw string) bool { return len(pw) >= minPassphraseLen },
		err: errors.New("passphrase must be at least 12 characters long"),
	},
	{
		met: func(pw string) bool { return strings.ContainsFunc(pw, unicode.IsUpper) },
		err: errors.New("passphrase must include an uppercase letter"),
	},
	{
		met: func(pw string) bool { return strings.ContainsFunc(pw, unicode.IsDigit) },
		err: errors.New("passphrase must include a digit"),
	},
	{
		met: func(pw string) bool { return strings.ContainsFunc(pw, isSpecial) },
		err: errors.New("passphrase must include a special character"),
	},
}

// ValidatePassphrase applies the master passphrase policy, returning the
// first unmet requirement. The policy gates vault creation only; opening an
// existing vault never re-validates, since decryption is the check there.
func ValidatePassphrase(pw string) error {
	for _, req := range passphraseRequirements {
		if !req.met(pw) {
			return req.err
		}
	}
	return nil
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
