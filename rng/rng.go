// Package rng provides the explicit randomness sources threaded through the
// aggregation pipeline.
//
// No package in this module keeps a global random generator. A source is
// created once per run (or once per test) and passed to every stage that
// draws randomness:
//
//   - [System] reads from crypto/rand and is what production runs use.
//   - [KeyedPRNG] expands a key into a deterministic blake2b XOF stream, so
//     tests and reproducible demos can replay a round byte for byte.
package rng

import (
	"crypto/rand"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// MaxKeySize is the largest key accepted by NewKeyedPRNG.
const MaxKeySize = blake2b.Size

type systemReader struct{}

func (systemReader) Read(p []byte) (int, error) {
	return rand.Read(p)
}

// System returns a reader backed by the operating system's CSPRNG.
func System() io.Reader {
	return systemReader{}
}

// KeyedPRNG deterministically generates a stream of random bytes from a key
// using the blake2b XOF. Two instances created with the same key produce the
// same stream.
//
// Read is safe for concurrent use, but the stream is only reproducible when
// a single goroutine consumes it.
type KeyedPRNG struct {
	mu  sync.Mutex
	key []byte
	xof blake2b.XOF
}

// NewKeyedPRNG creates a KeyedPRNG for key. The key must be at most
// MaxKeySize bytes; a nil key is accepted but provides no secrecy.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	if len(key) > MaxKeySize {
		return nil, fmt.Errorf("rng: key is %d bytes, at most %d allowed", len(key), MaxKeySize)
	}
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, err
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &KeyedPRNG{key: k, xof: xof}, nil
}

// Key returns a copy of the key used to seed the PRNG.
func (p *KeyedPRNG) Key() []byte {
	k := make([]byte, len(p.key))
	copy(k, p.key)
	return k
}

// Read fills sum with the next bytes of the stream.
func (p *KeyedPRNG) Read(sum []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.xof.Read(sum)
}

// Reset rewinds the stream to its beginning.
func (p *KeyedPRNG) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.xof.Reset()
}

// Seed reads a fresh 32-byte seed from r.
func Seed(r io.Reader) ([32]byte, error) {
	var seed [32]byte
	if _, err := io.ReadFull(r, seed[:]); err != nil {
		return seed, fmt.Errorf("rng: read seed: %w", err)
	}
	return seed, nil
}

// NewRand returns a ChaCha8-based math/rand generator seeded from r.
// The generator is confined to its caller; each call yields an independent
// generator.
func NewRand(r io.Reader) (*mrand.Rand, error) {
	seed, err := Seed(r)
	if err != nil {
		return nil, err
	}
	return mrand.New(mrand.NewChaCha8(seed)), nil
}
