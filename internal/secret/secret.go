// Package secret encrypts retained document text at rest with fernet tokens.
package secret

import (
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
)

// ErrInvalidToken is returned when a token was not produced by this key or is corrupt.
var ErrInvalidToken = errors.New("invalid or tampered token")

// Retained documents never expire.
const maxTokenAge = 100 * 365 * 24 * time.Hour

// Box encrypts and decrypts with a single fernet key.
type Box struct {
	keys []*fernet.Key
}

// NewBox decodes a base64 fernet key.
func NewBox(encodedKey string) (*Box, error) {
	k, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}
	return &Box{keys: []*fernet.Key{k}}, nil
}

// GenerateKey returns a fresh base64 fernet key suitable for DOCUMENT_ENCRYPTION_KEY.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}

func (b *Box) Encrypt(plain string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(plain), b.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}
	return string(tok), nil
}

func (b *Box) Decrypt(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), maxTokenAge, b.keys)
	if msg == nil {
		return "", ErrInvalidToken
	}
	return string(msg), nil
}
