package eligibility

import "testing"

// FuzzEvaluate checks the eligibility predicate for arbitrary scores and flag
// combinations: eligible exactly when the score clears the minimum and no set
// flag is relevant or always disqualifying, and the reported flag is the first
// triggering one in catalog order.
func FuzzEvaluate(f *testing.F) {
	f.Add(320, 300, uint8(0), uint8(0), uint8(0b10000))
	f.Add(250, 240, uint8(0b00010), uint8(0b00010), uint8(0b10000))
	f.Add(180, 240, uint8(0b11011), uint8(0b11111), uint8(0b10000))
	f.Add(280, 270, uint8(0b10000), uint8(0), uint8(0b10000))

	keys := DefaultCatalog.Keys()
	toSet := func(bits uint8) FlagSet {
		s := FlagSet{}
		for i, k := range keys {
			s[k] = bits&(1<<i) != 0
		}
		return s
	}

	f.Fuzz(func(t *testing.T, score, minScore int, has, relevant, always uint8) {
		profile := ApplicantProfile{Score: score, Disqualifiers: toSet(has)}
		policy := NewKeySet()
		for k, v := range toSet(always) {
			if v {
				policy[k] = struct{}{}
			}
		}
		req := JobRequirement{MinScore: minScore, RelevantDisqualifiers: toSet(relevant), AlwaysDisqualifying: policy}

		got, err := Evaluate(profile, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var firstTrigger FlagKey
		for _, k := range keys {
			if (req.RelevantDisqualifiers[k] || policy.Contains(k)) && profile.Disqualifiers[k] {
				firstTrigger = k
				break
			}
		}
		wantEligible := score >= minScore && firstTrigger == ""

		if got.Eligible != wantEligible {
			t.Fatalf("eligible=%v, want %v", got.Eligible, wantEligible)
		}
		switch {
		case got.Eligible && got.Reason != nil:
			t.Fatalf("eligible result carries a reason: %v", got.Reason)
		case score < minScore:
			if got.Reason != (ScoreTooLow{Score: score, MinScore: minScore}) {
				t.Fatalf("reason=%v, want score too low", got.Reason)
			}
		case !got.Eligible:
			if got.Reason != (DisqualifierPresent{Flag: firstTrigger}) {
				t.Fatalf("reason=%v, want %s", got.Reason, firstTrigger)
			}
		}
	})
}
