package krypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coffre/coffre/krypto"
)

func TestSecureKeyWipeZeroesBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	key := krypto.NewSecureKey(buf)

	key.Wipe()

	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf, "owned buffer must be overwritten")
	assert.Nil(t, key.Bytes())
	assert.Zero(t, key.Len())
}

func TestSecureKeyWipeIsIdempotent(t *testing.T) {
	key := krypto.NewSecureKey([]byte{9, 9, 9})
	key.Wipe()
	key.Wipe()

	assert.Nil(t, key.Bytes())
}
