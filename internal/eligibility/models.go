package eligibility

import (
	"encoding/json"
	"fmt"
)

// MaxScore is the top of the score domain. Evaluation does not enforce it.
const MaxScore = 360

// ApplicantProfile is the confidential input: a score and background-check flags.
type ApplicantProfile struct {
	Score         int     `json:"score"`
	Disqualifiers FlagSet `json:"disqualifiers"`
}

// JobRequirement is the public hiring bar of a job.
//
// AlwaysDisqualifying is consulted in addition to RelevantDisqualifiers. A nil
// set means "use the catalog policy"; an empty non-nil set disables it.
type JobRequirement struct {
	MinScore              int     `json:"minScore"`
	RelevantDisqualifiers FlagSet `json:"relevantDisqualifiers"`
	AlwaysDisqualifying   KeySet  `json:"alwaysDisqualifying"`
}

// NewRequirement builds a requirement carrying the default catalog's
// always-disqualifying policy.
func NewRequirement(minScore int, relevant FlagSet) JobRequirement {
	return JobRequirement{
		MinScore:              minScore,
		RelevantDisqualifiers: relevant,
		AlwaysDisqualifying:   DefaultCatalog.AlwaysDisqualifying(),
	}
}

// FailureKind discriminates failure reasons on the wire.
type FailureKind string

const (
	KindScoreTooLow         FailureKind = "ScoreTooLow"
	KindDisqualifierPresent FailureKind = "DisqualifierPresent"
)

// FailureReason is either ScoreTooLow or DisqualifierPresent.
type FailureReason interface {
	Kind() FailureKind
	String() string
	isFailureReason()
}

// ScoreTooLow reports a score below the job minimum.
type ScoreTooLow struct {
	Score    int
	MinScore int
}

func (ScoreTooLow) Kind() FailureKind { return KindScoreTooLow }
func (r ScoreTooLow) String() string {
	return fmt.Sprintf("score %d is below the required minimum %d", r.Score, r.MinScore)
}
func (ScoreTooLow) isFailureReason() {}

// DisqualifierPresent reports the first triggering disqualifier.
type DisqualifierPresent struct {
	Flag FlagKey
}

func (DisqualifierPresent) Kind() FailureKind { return KindDisqualifierPresent }
func (r DisqualifierPresent) String() string {
	return fmt.Sprintf("disqualifier present: %s", r.Flag)
}
func (DisqualifierPresent) isFailureReason() {}

// Result is the outcome of one evaluation. Reason is nil when Eligible.
type Result struct {
	Eligible bool
	Reason   FailureReason
}

func notEligible(reason FailureReason) Result {
	return Result{Eligible: false, Reason: reason}
}

type reasonJSON struct {
	Kind     FailureKind `json:"kind"`
	Score    *int        `json:"score,omitempty"`
	MinScore *int        `json:"minScore,omitempty"`
	Flag     FlagKey     `json:"flag,omitempty"`
}

type resultJSON struct {
	Eligible      bool        `json:"eligible"`
	FailureReason *reasonJSON `json:"failureReason,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{Eligible: r.Eligible}
	switch reason := r.Reason.(type) {
	case ScoreTooLow:
		out.FailureReason = &reasonJSON{Kind: reason.Kind(), Score: &reason.Score, MinScore: &reason.MinScore}
	case DisqualifierPresent:
		out.FailureReason = &reasonJSON{Kind: reason.Kind(), Flag: reason.Flag}
	}
	return json.Marshal(out)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Eligible = in.Eligible
	r.Reason = nil
	if in.FailureReason == nil {
		return nil
	}
	switch in.FailureReason.Kind {
	case KindScoreTooLow:
		var reason ScoreTooLow
		if in.FailureReason.Score != nil {
			reason.Score = *in.FailureReason.Score
		}
		if in.FailureReason.MinScore != nil {
			reason.MinScore = *in.FailureReason.MinScore
		}
		r.Reason = reason
	case KindDisqualifierPresent:
		r.Reason = DisqualifierPresent{Flag: in.FailureReason.Flag}
	default:
		return fmt.Errorf("unknown failure kind %q", in.FailureReason.Kind)
	}
	return nil
}

// ValidationError names the input field that made evaluation impossible.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
