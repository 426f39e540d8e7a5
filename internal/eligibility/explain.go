package eligibility

import "fmt"

// CheckStatus is the state of one line in an explanation.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "passed"
	CheckFailed  CheckStatus = "failed"
	CheckSkipped CheckStatus = "not_evaluated"
)

// ScoreCheck names the score line of an explanation.
const ScoreCheck = "score"

// Detail is one human-readable line of an eligibility explanation.
type Detail struct {
	Check  string      `json:"check"`
	Text   string      `json:"text"`
	Status CheckStatus `json:"status"`
}

// Explain renders the checklist behind result for a job's requirement.
//
// It reads the outcome from result and never re-evaluates: checks after the
// failing one are reported as not evaluated, and raw applicant values are
// only shown when the result itself carries them.
func (e *Evaluator) Explain(requirement JobRequirement, result Result) []Detail {
	details := make([]Detail, 0, len(e.catalog.descriptors)+1)

	scoreFailed, failedFlag := false, FlagKey("")
	switch reason := result.Reason.(type) {
	case ScoreTooLow:
		scoreFailed = true
		details = append(details, Detail{
			Check:  ScoreCheck,
			Text:   fmt.Sprintf("TruaScore (%d) is below minimum requirement (%d)", reason.Score, reason.MinScore),
			Status: CheckFailed,
		})
	case DisqualifierPresent:
		failedFlag = reason.Flag
	}
	if !scoreFailed {
		details = append(details, Detail{
			Check:  ScoreCheck,
			Text:   fmt.Sprintf("TruaScore meets minimum requirement (%d)", requirement.MinScore),
			Status: CheckPassed,
		})
	}

	always := requirement.AlwaysDisqualifying
	if always == nil {
		always = e.catalog.always
	}

	reached := !scoreFailed
	for _, d := range e.catalog.descriptors {
		relevant := requirement.RelevantDisqualifiers.Has(d.Key)
		if !relevant && !always.Contains(d.Key) {
			continue
		}
		text := d.Requirement + " (required)"
		if !relevant {
			text = d.Requirement + " (always required)"
		}

		status := CheckSkipped
		switch {
		case !reached:
		case d.Key == failedFlag:
			status = CheckFailed
			reached = false
		default:
			status = CheckPassed
		}
		details = append(details, Detail{Check: string(d.Key), Text: text, Status: status})
	}
	return details
}

// Explain renders an explanation with the default catalog.
func Explain(requirement JobRequirement, result Result) []Detail {
	return defaultEvaluator.Explain(requirement, result)
}
