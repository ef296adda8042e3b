package krypto

// SecureKey is the owning handle for derived key material. Exactly one handle
// owns a given key; components borrow the bytes through the handle instead of
// copying them into buffers of their own. Wipe overwrites the buffer with
// zeros and is safe to call more than once, so callers defer it immediately
// after derivation to cover every exit path.
//
// Zeroing is best effort: copies the runtime or OS may have made elsewhere
// (stack growth, swap) are out of reach.
type SecureKey struct {
	key []byte
}

// NewSecureKey takes ownership of key. The caller must not retain or mutate
// the slice afterwards.
func NewSecureKey(key []byte) *SecureKey {
	return &SecureKey{key: key}
}

// Bytes exposes the key material for the duration of the handle's scope.
// Callers must not store the returned slice.
func (k *SecureKey) Bytes() []byte {
	return k.key
}

// Len reports the key length without exposing the bytes.
func (k *SecureKey) Len() int {
	return len(k.key)
}

// Wipe overwrites the key material with zeros and drops the buffer.
func (k *SecureKey) Wipe() {
	for i := range k.key {
		k.key[i] = 0
	}
	k.key = nil
}
