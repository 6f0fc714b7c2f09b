package savecrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"
)

// gamePassphrase is the shared application passphrase the game encrypts its
// saves with. Changing it breaks compatibility with the game's own loader.
const gamePassphrase = "Why would you want to cheat?... :o It's no fun. :') :'D"

// fixedIV is the initialization vector shared with the game. It is fixed by
// the container format, so identical plaintexts encrypt identically.
var fixedIV = [aes.BlockSize]byte{
	0x52, 0x45, 0x50, 0x4f, 0x53, 0x41, 0x56, 0x45,
	0x4d, 0x41, 0x4e, 0x41, 0x47, 0x45, 0x52, 0x00,
}

var (
	// ErrInvalidLength reports ciphertext whose length is zero or not a
	// multiple of the cipher block size. Detected before any cipher work.
	ErrInvalidLength = errors.New("ciphertext length is not a block multiple")

	// ErrCorruptPadding reports plaintext whose PKCS#7 padding bytes are
	// malformed after decryption, which usually means a corrupt container.
	ErrCorruptPadding = errors.New("corrupt pkcs7 padding")
)

// Key returns the compiled-in 256-bit key. Exposed for tests that build
// fixtures without going through Encrypt.
func Key() [32]byte {
	return sha256.Sum256([]byte(gamePassphrase))
}

// Encrypt pads plaintext with PKCS#7 and encrypts it with AES-256-CBC under
// the fixed key and IV.
func Encrypt(plaintext []byte) ([]byte, error) {
	block, err := newBlock()
	if err != nil {
		return nil, err
	}
	padded := pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, fixedIV[:]).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt reverses Encrypt. It fails with ErrInvalidLength before touching
// the cipher when the input length is wrong, and with ErrCorruptPadding when
// the decrypted padding bytes are malformed.
func Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(ciphertext))
	}
	block, err := newBlock()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, fixedIV[:]).CryptBlocks(out, ciphertext)
	return unpad(out, aes.BlockSize)
}

func newBlock() (cipher.Block, error) {
	key := Key()
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return block, nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrCorruptPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrCorruptPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrCorruptPadding
		}
	}
	return data[:len(data)-n], nil
}
