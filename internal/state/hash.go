package state

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The schema version suffix enables future algorithm migration.
const (
	DomainState = "structwalk/state/v" + SchemaVersion
	DomainPlan  = "structwalk/plan/v" + SchemaVersion
	DomainTrace = "structwalk/trace/v" + SchemaVersion
)

// HashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content address of a snapshot from its canonical
// serialization. Equal snapshots always hash identically, across
// navigation, reset, and replay.
func (g *StateGraph) Hash() (string, error) {
	canonical, err := MarshalCanonical(g.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("state hash: %w", err)
	}
	return HashWithDomain(DomainState, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when the snapshot is known to be well-formed.
func (g *StateGraph) MustHash() string {
	h, err := g.Hash()
	if err != nil {
		panic(err)
	}
	return h
}
