package eligibility

import "sort"

// Evaluator decides eligibility against a flag catalog.
// It holds no mutable state and may be shared across goroutines.
type Evaluator struct {
	catalog         *Catalog
	defaultMinScore int
}

// NewEvaluator returns an evaluator over catalog, or DefaultCatalog when nil.
func NewEvaluator(catalog *Catalog) *Evaluator {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	return &Evaluator{catalog: catalog, defaultMinScore: DefaultMinScore}
}

// WithDefaultMinScore returns a copy of e that fills in minScore when a
// posting leaves it out.
func (e *Evaluator) WithDefaultMinScore(minScore int) *Evaluator {
	if minScore < 0 || minScore > MaxScore {
		return e
	}
	cp := *e
	cp.defaultMinScore = minScore
	return &cp
}

// Catalog returns the policy table the evaluator walks.
func (e *Evaluator) Catalog() *Catalog { return e.catalog }

var defaultEvaluator = NewEvaluator(DefaultCatalog)

// Evaluate runs the default evaluator.
func Evaluate(profile ApplicantProfile, requirement JobRequirement) (Result, error) {
	return defaultEvaluator.Evaluate(profile, requirement)
}

// Evaluate decides whether profile meets requirement.
// Pure: no I/O, no logging, inputs are not modified.
//
// Rule order (fail-fast):
//  1. Score threshold, inclusive. Reported ahead of any disqualifier.
//  2. Disqualifiers in catalog order; the first flag that is set and is
//     either relevant to the job or always disqualifying is reported.
func (e *Evaluator) Evaluate(profile ApplicantProfile, requirement JobRequirement) (Result, error) {
	if err := e.Validate(profile, requirement); err != nil {
		return Result{}, err
	}

	// Rule 1: score threshold
	if profile.Score < requirement.MinScore {
		return notEligible(ScoreTooLow{Score: profile.Score, MinScore: requirement.MinScore}), nil
	}

	always := requirement.AlwaysDisqualifying
	if always == nil {
		always = e.catalog.always
	}

	// Rule 2: disqualifiers, first match wins
	for _, d := range e.catalog.descriptors {
		disqualifying := requirement.RelevantDisqualifiers.Has(d.Key) || always.Contains(d.Key)
		if disqualifying && profile.Disqualifiers.Has(d.Key) {
			return notEligible(DisqualifierPresent{Flag: d.Key}), nil
		}
	}

	return Result{Eligible: true}, nil
}

// Validate rejects flag keys the catalog does not know. Keys are checked in
// lexical order so the reported field is stable.
func (e *Evaluator) Validate(profile ApplicantProfile, requirement JobRequirement) error {
	if err := e.checkKeys("disqualifiers", keysOf(profile.Disqualifiers)); err != nil {
		return err
	}
	if err := e.checkKeys("relevantDisqualifiers", keysOf(requirement.RelevantDisqualifiers)); err != nil {
		return err
	}
	return e.checkKeys("alwaysDisqualifying", requirement.AlwaysDisqualifying.Sorted())
}

func (e *Evaluator) checkKeys(field string, keys []FlagKey) error {
	for _, k := range keys {
		if !e.catalog.Known(k) {
			return &ValidationError{Field: field + "." + string(k), Message: "unknown disqualifier"}
		}
	}
	return nil
}

func keysOf(s FlagSet) []FlagKey {
	keys := make([]FlagKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
