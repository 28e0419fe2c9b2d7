package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrDecryption is returned for malformed ciphertext, a changed key or
// a failed authentication tag check. Callers must not distinguish the
// cases; all of them mean the stored blob cannot be trusted.
var ErrDecryption = errors.New("vault: decryption failed")

const (
	keyLen     = 32
	pbkdf2Iter = 10000
)

// Vault encrypts and decrypts tenant secrets with AES-256-GCM. The key
// is derived once from a passphrase and held only in process memory.
type Vault struct {
	key []byte
}

// New derives the vault key from the passphrase and salt.
func New(passphrase, salt string) (*Vault, error) {
	if passphrase == "" {
		return nil, errors.New("vault: passphrase required")
	}
	key := pbkdf2.Key([]byte(passphrase), []byte(salt), pbkdf2Iter, keyLen, sha256.New)
	return &Vault{key: key}, nil
}

// Encrypt seals plaintext with a fresh random nonce. The nonce is
// prepended to the ciphertext so the blob is self-contained.
func (v *Vault) Encrypt(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, errors.New("vault: empty plaintext")
	}
	gcm, err := v.gcm()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("vault: nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. Any failure surfaces as
// ErrDecryption; a wrong plaintext is never returned silently.
func (v *Vault) Decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := v.gcm()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) <= gcm.NonceSize() {
		return nil, ErrDecryption
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryption
	}
	return plaintext, nil
}

// EncryptString is a convenience wrapper for credential fields.
func (v *Vault) EncryptString(plaintext string) ([]byte, error) {
	return v.Encrypt([]byte(plaintext))
}

// DecryptString is a convenience wrapper for credential fields.
func (v *Vault) DecryptString(ciphertext []byte) (string, error) {
	plain, err := v.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (v *Vault) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
