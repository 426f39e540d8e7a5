package attestation

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keyInfo = "jobgate attestation signing key v1"

// DeriveKey derives a deterministic Ed25519 key pair from seed. The same
// seed always yields the same key, so every replica signs and verifies
// with one identity.
func DeriveKey(seed []byte) (ed25519.PrivateKey, error) {
	if len(seed) == 0 {
		return nil, errors.New("attestation seed is empty")
	}
	r := hkdf.New(sha256.New, seed, nil, []byte(keyInfo))
	keySeed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(r, keySeed); err != nil {
		return nil, fmt.Errorf("derive attestation key: %w", err)
	}
	return ed25519.NewKeyFromSeed(keySeed), nil
}
