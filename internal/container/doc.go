// Package container translates between on-disk save containers and their
// decrypted JSON payloads.
//
// A container is a single text blob: the base64 encoding of the encrypted
// UTF-8 JSON document. Decode unwraps that framing layer by layer and reports
// exactly which layer rejected the input, so a caller can distinguish a
// truncated download from a corrupt cipher stream from mangled JSON. The
// decoded Document keeps the payload as raw bytes; higher layers navigate it
// by path so that untouched regions survive a decode/encode cycle verbatim.
package container
