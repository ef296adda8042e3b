package store

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coffre/coffre/krypto"
)

// FormatVersion is the container format this codec reads and writes.
const FormatVersion = 1

// ErrMalformedContainer indicates the on-disk document could not be parsed
// into a valid container: bad JSON, a missing field, or a byte field that is
// not valid base64.
var ErrMalformedContainer = errors.New("malformed vault container")

// Container is the versioned on-disk envelope. Byte fields are raw here and
// base64-encoded in the textual form. A container is immutable once written;
// every save produces a fresh salt and nonce. The KDF cost parameters are
// persisted so vaults written under older defaults stay decryptable.
type Container struct {
	Version    int
	KDF        string
	KDFParams  krypto.Params
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

// containerDoc is the JSON shape of the envelope. kdfParams is optional on
// decode for files written before parameters were persisted.
type containerDoc struct {
	Version    *int           `json:"version"`
	KDF        string         `json:"kdf"`
	KDFParams  *krypto.Params `json:"kdfParams,omitempty"`
	Salt       string         `json:"salt"`
	Nonce      string         `json:"nonce"`
	Ciphertext string         `json:"ciphertext"`
}

// Encode renders the container as the textual on-disk document.
func (c Container) Encode() ([]byte, error) {
	version := c.Version
	params := c.KDFParams
	doc := containerDoc{
		Version:    &version,
		KDF:        c.KDF,
		KDFParams:  &params,
		Salt:       base64.StdEncoding.EncodeToString(c.Salt),
		Nonce:      base64.StdEncoding.EncodeToString(c.Nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(c.Ciphertext),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode container: %w", err)
	}
	return data, nil
}

// DecodeContainer parses the textual document back into a container. It never
// inspects the ciphertext for validity; decryption is what proves
// authenticity.
func DecodeContainer(data []byte) (Container, error) {
	var doc containerDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Container{}, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}

	if doc.Version == nil {
		return Container{}, fmt.Errorf("%w: missing version", ErrMalformedContainer)
	}
	if doc.KDF == "" {
		return Container{}, fmt.Errorf("%w: missing kdf", ErrMalformedContainer)
	}
	if doc.Salt == "" || doc.Nonce == "" || doc.Ciphertext == "" {
		return Container{}, fmt.Errorf("%w: missing field", ErrMalformedContainer)
	}
	if *doc.Version != FormatVersion {
		return Container{}, fmt.Errorf("%w: unsupported version", ErrMalformedContainer)
	}

	salt, err := base64.StdEncoding.DecodeString(doc.Salt)
	if err != nil {
		return Container{}, fmt.Errorf("%w: salt is not valid base64", ErrMalformedContainer)
	}
	nonce, err := base64.StdEncoding.DecodeString(doc.Nonce)
	if err != nil {
		return Container{}, fmt.Errorf("%w: nonce is not valid base64", ErrMalformedContainer)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(doc.Ciphertext)
	if err != nil {
		return Container{}, fmt.Errorf("%w: ciphertext is not valid base64", ErrMalformedContainer)
	}

	params := krypto.DefaultParams()
	if doc.KDFParams != nil {
		params = *doc.KDFParams
	}

	return Container{
		Version:    *doc.Version,
		KDF:        doc.KDF,
		KDFParams:  params,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}
