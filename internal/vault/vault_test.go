package vault

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	v, err := New("test-passphrase", "test-salt")
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}

	inputs := [][]byte{
		[]byte("a"),
		[]byte("AC1234567890abcdef"),
		[]byte("auth token with spaces and unicode ✓"),
		bytes.Repeat([]byte{0x00, 0xff, 0x7f}, 100),
	}
	for _, plaintext := range inputs {
		ciphertext, err := v.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("encrypt %q: %v", plaintext, err)
		}
		if bytes.Contains(ciphertext, plaintext) {
			t.Fatalf("ciphertext contains plaintext %q", plaintext)
		}
		got, err := v.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("decrypt %q: %v", plaintext, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
		}
	}
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	v, err := New("test-passphrase", "test-salt")
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}
	a, err := v.Encrypt([]byte("same plaintext"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := v.Encrypt([]byte("same plaintext"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two encryptions of the same plaintext produced identical blobs")
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	v, err := New("test-passphrase", "test-salt")
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}
	ciphertext, err := v.Encrypt([]byte("secret token"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	tampered := append([]byte(nil), ciphertext...)
	tampered[len(tampered)-1] ^= 0x01
	if _, err := v.Decrypt(tampered); !errors.Is(err, ErrDecryption) {
		t.Fatalf("tampered blob: got err %v, want ErrDecryption", err)
	}
}

func TestDecryptWithChangedKey(t *testing.T) {
	v1, err := New("passphrase-one", "salt")
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}
	v2, err := New("passphrase-two", "salt")
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}
	ciphertext, err := v1.Encrypt([]byte("secret token"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := v2.Decrypt(ciphertext); !errors.Is(err, ErrDecryption) {
		t.Fatalf("changed key: got err %v, want ErrDecryption", err)
	}
}

func TestDecryptMalformedInput(t *testing.T) {
	v, err := New("test-passphrase", "test-salt")
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}
	for _, blob := range [][]byte{nil, {}, {0x01}, bytes.Repeat([]byte{0xaa}, 12)} {
		if _, err := v.Decrypt(blob); !errors.Is(err, ErrDecryption) {
			t.Fatalf("malformed blob %v: got err %v, want ErrDecryption", blob, err)
		}
	}
}

func TestNewRequiresPassphrase(t *testing.T) {
	if _, err := New("", "salt"); err == nil {
		t.Fatal("expected error for empty passphrase")
	}
}
