package container

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"reposave/internal/savecrypt"
)

var (
	// ErrMalformedBase64 reports container text that is not valid base64.
	ErrMalformedBase64 = errors.New("container is not valid base64")

	// ErrDecryptionFailed reports a cipher-layer failure; it wraps the
	// underlying savecrypt error (bad length or corrupt padding).
	ErrDecryptionFailed = errors.New("container decryption failed")

	// ErrInvalidEncoding reports decrypted bytes that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("decrypted payload is not valid UTF-8")

	// ErrMalformedDocument reports a payload that is not a JSON object.
	ErrMalformedDocument = errors.New("payload is not a valid save document")
)

// Document is a decrypted, validated save payload. The bytes are always a
// syntactically valid JSON object; callers navigate them with gjson paths and
// rewrite them with sjson so unrecognized content is preserved byte-for-byte.
type Document []byte

// Decode unwraps fileBytes: base64 transport, cipher layer, UTF-8 check,
// then JSON validation. Each layer fails with its own sentinel so the caller
// can report what exactly is wrong with the file.
func Decode(fileBytes []byte) (Document, error) {
	ciphertext := make([]byte, base64.StdEncoding.DecodedLen(len(fileBytes)))
	n, err := base64.StdEncoding.Decode(ciphertext, fileBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBase64, err)
	}
	plaintext, err := savecrypt.Decrypt(ciphertext[:n])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	if !utf8.Valid(plaintext) {
		return nil, ErrInvalidEncoding
	}
	if !gjson.ValidBytes(plaintext) || !gjson.ParseBytes(plaintext).IsObject() {
		return nil, ErrMalformedDocument
	}
	return Document(plaintext), nil
}

// Encode performs the inverse chain: encrypt the document bytes and wrap
// them in base64. It only fails on a document that is not valid JSON, which
// indicates a programming error in the layer that produced it.
func Encode(doc Document) ([]byte, error) {
	if !gjson.ValidBytes(doc) {
		return nil, ErrMalformedDocument
	}
	ciphertext, err := savecrypt.Encrypt(doc)
	if err != nil {
		return nil, fmt.Errorf("encrypt payload: %w", err)
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(ciphertext)))
	base64.StdEncoding.Encode(out, ciphertext)
	return out, nil
}
