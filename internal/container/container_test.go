package container

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"reposave/internal/savecrypt"
)

const samplePayload = `{"teamName":{"value":"Crew"},"playerNames":{"value":{"76561198000000001":"Scout"}}}`

func TestDecodeEncodeRoundTrip(t *testing.T) {
	fileBytes, err := Encode(Document(samplePayload))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	doc, err := Decode(fileBytes)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(doc) != samplePayload {
		t.Fatalf("payload mismatch:\n got %s\nwant %s", doc, samplePayload)
	}

	// A second pass must reproduce the container exactly: fixed key and IV
	// make the whole chain deterministic.
	again, err := Encode(doc)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(again, fileBytes) {
		t.Fatal("re-encoded container differs from original")
	}
}

func TestDecodeRejectsMalformedBase64(t *testing.T) {
	_, err := Decode([]byte("not*base64*at*all"))
	if !errors.Is(err, ErrMalformedBase64) {
		t.Fatalf("got %v, want ErrMalformedBase64", err)
	}
}

func TestDecodeRejectsBadCiphertextLength(t *testing.T) {
	// Valid base64 of a payload that is not a cipher block multiple.
	raw := base64.StdEncoding.EncodeToString([]byte("short"))
	_, err := Decode([]byte(raw))
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("got %v, want ErrDecryptionFailed", err)
	}
	if !errors.Is(err, savecrypt.ErrInvalidLength) {
		t.Fatalf("got %v, want wrapped ErrInvalidLength", err)
	}
}

func TestDecodeRejectsCorruptPadding(t *testing.T) {
	fileBytes, err := Encode(Document(samplePayload))
	if err != nil {
		t.Fatal(err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(string(fileBytes))
	if err != nil {
		t.Fatal(err)
	}
	ciphertext[len(ciphertext)-1] ^= 0x01
	corrupted := base64.StdEncoding.EncodeToString(ciphertext)

	_, err = Decode([]byte(corrupted))
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("got %v, want ErrDecryptionFailed", err)
	}
	if !errors.Is(err, savecrypt.ErrCorruptPadding) {
		t.Fatalf("got %v, want wrapped ErrCorruptPadding", err)
	}
}

func TestDecodeRejectsNonUTF8Payload(t *testing.T) {
	ciphertext, err := savecrypt.Encrypt([]byte{0xFF, 0xFE, 0x80, 0x81})
	if err != nil {
		t.Fatal(err)
	}
	raw := base64.StdEncoding.EncodeToString(ciphertext)
	if _, err := Decode([]byte(raw)); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("got %v, want ErrInvalidEncoding", err)
	}
}

func TestDecodeRejectsMalformedDocument(t *testing.T) {
	for _, payload := range []string{"not json at all", `"just a string"`, `[1,2,3]`} {
		ciphertext, err := savecrypt.Encrypt([]byte(payload))
		if err != nil {
			t.Fatal(err)
		}
		raw := base64.StdEncoding.EncodeToString(ciphertext)
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrMalformedDocument) {
			t.Fatalf("payload %q: got %v, want ErrMalformedDocument", payload, err)
		}
	}
}

func TestEncodeRejectsInvalidDocument(t *testing.T) {
	if _, err := Encode(Document("{broken")); !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("got %v, want ErrMalformedDocument", err)
	}
}
