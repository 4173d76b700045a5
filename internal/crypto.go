package internal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// Encrypt seals plaintext with AES-256-GCM. The random nonce is prepended to
// the ciphertext.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	if len(key) < 32 {
		return nil, errors.New("encryption key must be at least 32 bytes")
	}
	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt.
func Decrypt(data, key []byte) ([]byte, error) {
	if len(key) < 32 {
		return nil, errors.New("encryption key must be at least 32 bytes")
	}
	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(data) < aesgcm.NonceSize() {
		return nil, errors.New("cipher too short")
	}
	nonce, ciphertext := data[:aesgcm.NonceSize()], data[aesgcm.NonceSize():]
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
