// Package savecrypt implements the symmetric cipher the game applies to its
// save containers: AES-256-CBC with PKCS#7 padding under a fixed key and IV.
//
// The key material is a compatibility constant, not a secret — the container
// must remain loadable by the game itself, so the key is derived from the
// same shared passphrase the game ships with. Nothing in this package knows
// anything about save semantics; it moves bytes in and out of the cipher and
// reports malformed input through sentinel errors.
package savecrypt
