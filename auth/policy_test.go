package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffre/coffre/auth"
)

func TestValidatePassphrase(t *testing.T) {
	require.NoError(t, auth.ValidatePassphrase("Str0ng!Passphrase"))

	assert.Error(t, auth.ValidatePassphrase("Sh0rt!"), "too short")
	assert.Error(t, auth.ValidatePassphrase("no upper 123!"), "missing uppercase")
	assert.Error(t, auth.ValidatePassphrase("No Digits Here!"), "missing digit")
	assert.Error(t, auth.ValidatePassphrase("NoSpecials123"), "missing special")
}

func TestEstimateBuckets(t *testing.T) {
	assert.Equal(t, auth.Weak, auth.Estimate("password"))
	assert.GreaterOrEqual(t, auth.Estimate("kk3&Zq!m9x#Vw2@pR7"), auth.Strong)
}

func TestStrengthLabels(t *testing.T) {
	assert.Equal(t, "weak", auth.Weak.Label())
	assert.Equal(t, "medium", auth.Medium.Label())
	assert.Equal(t, "strong", auth.Strong.Label())
	assert.Equal(t, "very strong", auth.VeryStrong.Label())
}
