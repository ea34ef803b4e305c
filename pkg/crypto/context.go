// Package crypto implements secp256k1 keys, canonical ECDSA signatures and
// the SHA-256 digests the Echo signing path is built on.
//
// Key formats:
//   - Private keys: raw 32 bytes, big integers or WIF (Base58Check, version 0x80)
//   - Public keys: SEC1 compressed (33 bytes) or uncompressed (65 bytes),
//     or prefixed text ("ECHO" + Base58(key || ripemd160 checksum))
//   - Signatures: 65 byte compact form (recovery byte || r || s), DER on request
//
// Signing is deterministic (RFC6979 nonces) and always yields low-S
// signatures; keys and signatures are immutable and safe to share between
// goroutines.
package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Context carries the process-wide dependencies of key operations.
//
// Curve parameters are fixed by the secp256k1 package and read only. The
// random source is only consulted for key generation; signing never reads it.
type Context struct {
	rand io.Reader
}

// ContextOption customises a Context.
type ContextOption func(*Context)

// WithRandom substitutes the random source used for key generation. Use it
// to route around a platform RNG that is known to be weak.
func WithRandom(r io.Reader) ContextOption {
	return func(c *Context) {
		c.rand = r
	}
}

// NewContext creates a Context backed by crypto/rand unless overridden.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{rand: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateKey creates a fresh key pair with a compressed public point.
func (c *Context) GenerateKey() (*Key, error) {
	priv, err := secp256k1.GeneratePrivateKeyFromRand(c.rand)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return keyFromSecp(priv, true)
}
