// Package obfuscation renders client unique codes as opaque public identifiers.
//
// A code is the decimal string of the number, encrypted with AES in ECB mode
// with PKCS#7 padding and rendered as standard base64. The scheme is not
// authenticated and is deterministic: it hides the number, nothing more.
package obfuscation

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedCode is returned for any input that does not decode to a number
var ErrMalformedCode = errors.New("malformed obfuscated code")

// Codec encodes and decodes obfuscated identifiers with a fixed key
type Codec struct {
	block cipher.Block
}

// NewCodec creates a codec; the key must be 16, 24 or 32 bytes
func NewCodec(key string) (*Codec, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("invalid obfuscation key: %w", err)
	}
	return &Codec{block: block}, nil
}

// Encode returns the public form of n
func (c *Codec) Encode(n int64) string {
	plain := pkcs7Pad([]byte(strconv.FormatInt(n, 10)), aes.BlockSize)
	out := make([]byte, len(plain))
	for i := 0; i < len(plain); i += aes.BlockSize {
		c.block.Encrypt(out[i:i+aes.BlockSize], plain[i:i+aes.BlockSize])
	}
	return base64.StdEncoding.EncodeToString(out)
}

// Decode parses a public code back to its number
func (c *Codec) Decode(code string) (int64, error) {
	raw, err := base64.StdEncoding.DecodeString(code)
	if err != nil || len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return 0, ErrMalformedCode
	}

	plain := make([]byte, len(raw))
	for i := 0; i < len(raw); i += aes.BlockSize {
		c.block.Decrypt(plain[i:i+aes.BlockSize], raw[i:i+aes.BlockSize])
	}

	plain, ok := pkcs7Unpad(plain, aes.BlockSize)
	if !ok {
		return 0, ErrMalformedCode
	}

	n, err := strconv.ParseInt(string(plain), 10, 64)
	if err != nil {
		return 0, ErrMalformedCode
	}
	return n, nil
}

func pkcs7Pad(b []byte, size int) []byte {
	pad := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(pad)}, pad)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, bool) {
	if len(b) == 0 {
		return nil, false
	}
	pad := int(b[len(b)-1])
	if pad == 0 || pad > size || pad > len(b) {
		return nil, false
	}
	for _, p := range b[len(b)-pad:] {
		if int(p) != pad {
			return nil, false
		}
	}
	return b[:len(b)-pad], true
}
