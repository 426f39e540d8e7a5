package eligibility

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FlagKey names a background-check disqualifier.
type FlagKey string

const (
	FlagFelony           FlagKey = "felony"
	FlagDUI              FlagKey = "dui"
	FlagSuspendedLicense FlagKey = "suspendedLicense"
	FlagMisdemeanor      FlagKey = "misdemeanor"
	FlagWarrants         FlagKey = "warrants"
)

// FlagSet maps flag keys to booleans. A missing key reads as false.
type FlagSet map[FlagKey]bool

// Has reports whether k is set. Safe on a nil set.
func (s FlagSet) Has(k FlagKey) bool { return s[k] }

// Clone returns an independent copy.
func (s FlagSet) Clone() FlagSet {
	if s == nil {
		return nil
	}
	out := make(FlagSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// KeySet is a set of flag keys. It encodes as a sorted JSON array.
type KeySet map[FlagKey]struct{}

// NewKeySet builds a set from keys. The result is never nil.
func NewKeySet(keys ...FlagKey) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s KeySet) Contains(k FlagKey) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []FlagKey {
	keys := make([]FlagKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s KeySet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Sorted())
}

func (s *KeySet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var keys []FlagKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*s = NewKeySet(keys...)
	return nil
}

// FlagDescriptor is one row of the disqualifier policy table.
type FlagDescriptor struct {
	Key FlagKey `json:"key"`
	// Requirement is the human-readable condition an applicant must meet.
	Requirement string `json:"requirement"`
	// CredentialLabel is the label employers use when listing required credentials.
	CredentialLabel string `json:"credential_label"`
	// RelevantByDefault seeds a job's relevance when the employer lists nothing.
	RelevantByDefault bool `json:"relevant_by_default"`
	// AlwaysDisqualifying flags disqualify whether or not a job marks them relevant.
	AlwaysDisqualifying bool `json:"always_disqualifying"`
}

// Catalog is the ordered disqualifier policy table. Evaluation walks it in
// declaration order, so the first triggering descriptor is the one reported.
// New flags are appended with With; existing entries are never reordered.
//
// A Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	descriptors []FlagDescriptor
	index       map[FlagKey]int
	always      KeySet
}

// NewCatalog builds a catalog from descriptors in evaluation order.
func NewCatalog(descriptors ...FlagDescriptor) (*Catalog, error) {
	c := &Catalog{
		descriptors: make([]FlagDescriptor, 0, len(descriptors)),
		index:       make(map[FlagKey]int, len(descriptors)),
		always:      NewKeySet(),
	}
	for _, d := range descriptors {
		if strings.TrimSpace(string(d.Key)) == "" {
			return nil, fmt.Errorf("flag descriptor %d has an empty key", len(c.descriptors))
		}
		if _, dup := c.index[d.Key]; dup {
			return nil, fmt.Errorf("flag %q declared twice", d.Key)
		}
		c.index[d.Key] = len(c.descriptors)
		c.descriptors = append(c.descriptors, d)
		if d.AlwaysDisqualifying {
			c.always[d.Key] = struct{}{}
		}
	}
	return c, nil
}

// With returns a new catalog with descriptors appended after the existing ones.
func (c *Catalog) With(descriptors ...FlagDescriptor) (*Catalog, error) {
	all := make([]FlagDescriptor, 0, len(c.descriptors)+len(descriptors))
	all = append(all, c.descriptors...)
	all = append(all, descriptors...)
	return NewCatalog(all...)
}

// Descriptors returns a copy of the table in evaluation order.
func (c *Catalog) Descriptors() []FlagDescriptor {
	return append([]FlagDescriptor(nil), c.descriptors...)
}

// Keys returns the flag keys in evaluation order.
func (c *Catalog) Keys() []FlagKey {
	keys := make([]FlagKey, len(c.descriptors))
	for i, d := range c.descriptors {
		keys[i] = d.Key
	}
	return keys
}

func (c *Catalog) Lookup(k FlagKey) (FlagDescriptor, bool) {
	i, ok := c.index[k]
	if !ok {
		return FlagDescriptor{}, false
	}
	return c.descriptors[i], true
}

func (c *Catalog) Known(k FlagKey) bool {
	_, ok := c.index[k]
	return ok
}

// AlwaysDisqualifying returns a fresh copy of the always-disqualifying policy set.
func (c *Catalog) AlwaysDisqualifying() KeySet {
	return NewKeySet(c.always.Sorted()...)
}

// DefaultRelevance returns the relevance seeded from RelevantByDefault.
func (c *Catalog) DefaultRelevance() FlagSet {
	out := make(FlagSet, len(c.descriptors))
	for _, d := range c.descriptors {
		out[d.Key] = d.RelevantByDefault
	}
	return out
}

// KeyForCredential resolves an employer credential label such as "No DUI".
// Matching ignores case and surrounding whitespace.
func (c *Catalog) KeyForCredential(label string) (FlagKey, bool) {
	label = strings.TrimSpace(label)
	for _, d := range c.descriptors {
		if d.CredentialLabel != "" && strings.EqualFold(d.CredentialLabel, label) {
			return d.Key, true
		}
	}
	return "", false
}

// DefaultCatalog is the policy table for this job board. Outstanding warrants
// disqualify for every job regardless of what the employer marked relevant.
var DefaultCatalog = mustCatalog(
	FlagDescriptor{Key: FlagFelony, Requirement: "No felony convictions", CredentialLabel: "No Felony"},
	FlagDescriptor{Key: FlagDUI, Requirement: "No DUI record", CredentialLabel: "No DUI"},
	FlagDescriptor{Key: FlagSuspendedLicense, Requirement: "Valid driver's license", CredentialLabel: "Valid License"},
	FlagDescriptor{Key: FlagMisdemeanor, Requirement: "No misdemeanor convictions", CredentialLabel: "No Misdemeanor"},
	FlagDescriptor{Key: FlagWarrants, Requirement: "No outstanding warrants", CredentialLabel: "No Warrants", AlwaysDisqualifying: true},
)

func mustCatalog(descriptors ...FlagDescriptor) *Catalog {
	c, err := NewCatalog(descriptors...)
	if err != nil {
		panic(err)
	}
	return c
}
