package attestation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Kind tells verifiers what an attestation vouches for.
type Kind string

const (
	KindJobPosting  Kind = "job_posting"
	KindEligibility Kind = "eligibility"
	KindCredential  Kind = "credential"
)

// Claims is the JWT body. Eligibility attestations carry only the outcome
// and the failure kind; the score and flags never leave the service.
type Claims struct {
	Kind Kind `json:"kind"`

	// Job posting
	Digest string `json:"digest,omitempty"`

	// Eligibility
	Eligible    *bool  `json:"eligible,omitempty"`
	FailureKind string `json:"failure_kind,omitempty"`

	// Credential
	CredentialType string `json:"credential_type,omitempty"`
	SubjectDID     string `json:"subject_did,omitempty"`

	jwt.RegisteredClaims
}

// Digest returns the hex SHA-256 of v's JSON encoding.
func Digest(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode digest input: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
