package domain

import (
	"regexp"
	"strings"

	dErrors "jobgate/pkg/domain-errors"
)

// DID is a decentralized identifier of the form did:<method>:<id>.
// Only the shape is checked; DIDs are never resolved.
type DID string

const maxDIDLength = 256

var didPattern = regexp.MustCompile(`^did:[a-z0-9]+:[a-zA-Z0-9.%-]+$`)

// ParseDID validates the DID shape at trust boundaries.
func ParseDID(s string) (DID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "did cannot be empty")
	}
	if len(s) > maxDIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "did is too long")
	}
	if !didPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid did format")
	}
	return DID(s), nil
}

// Method returns the DID method segment, e.g. "example" for did:example:123.
func (d DID) Method() string {
	parts := strings.SplitN(string(d), ":", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}

func (d DID) String() string { return string(d) }
