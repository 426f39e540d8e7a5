package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseJobID tests that parsing never panics on arbitrary input
// and always returns either a valid ID or an error.
//
// Justification: trust boundary functions must handle arbitrary input safely.
func FuzzParseJobID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE jobs;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseJobID(input)
		if err == nil {
			if id.IsNil() {
				t.Error("nil id accepted")
			}
			roundTrip, err2 := ParseJobID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseDID checks the DID parser never accepts a value that fails its own pattern.
func FuzzParseDID(f *testing.F) {
	f.Add("did:example:123")
	f.Add("did::")
	f.Add("did:web:a.b%20c")

	f.Fuzz(func(t *testing.T, input string) {
		did, err := ParseDID(input)
		if err != nil {
			return
		}
		if !didPattern.MatchString(did.String()) {
			t.Errorf("accepted %q which does not match the DID pattern", did)
		}
		if did.Method() == "" {
			t.Errorf("accepted %q without a method", did)
		}
	})
}
