package models

import (
	"strings"
	"time"

	"jobgate/internal/eligibility"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
)

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeTemporary  JobType = "Temporary"
)

func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeTemporary:
		return true
	}
	return false
}

type Status string

const (
	StatusDraft   Status = "Draft"
	StatusActive  Status = "Active"
	StatusFilled  Status = "Filled"
	StatusExpired Status = "Expired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusFilled, StatusExpired:
		return true
	}
	return false
}

// CanTransitionTo encodes Draft→Active and Active→Filled|Expired.
// Filled and Expired are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusActive
	case StatusActive:
		return next == StatusFilled || next == StatusExpired
	}
	return false
}

const DefaultCurrency = "USD"

type Salary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Requirements is the public hiring bar printed on a posting.
type Requirements struct {
	MinScore      int                 `json:"minScore"`
	Disqualifiers eligibility.FlagSet `json:"disqualifiers"`
}

// Job is a posting.
//
// Invariants:
//   - Title, Company, Description and Location are non-empty
//   - Type is one of the JobType values
//   - 0 <= Salary.Min <= Salary.Max
//   - 0 <= Requirements.MinScore <= eligibility.MaxScore
//   - Requirements.Disqualifiers only names catalog flags
//   - ExpiresAt is after PostedAt
//   - Applications and Views never go negative
type Job struct {
	ID           id.JobID      `json:"id"`
	EmployerID   id.EmployerID `json:"employerId"`
	Title        string        `json:"title"`
	Company      string        `json:"company"`
	Description  string        `json:"description"`
	Location     string        `json:"location"`
	Type         JobType       `json:"type"`
	Salary       Salary        `json:"salary"`
	Requirements Requirements  `json:"requirements"`
	Skills       []string      `json:"skills"`
	PostedAt     time.Time     `json:"postedAt"`
	ExpiresAt    time.Time     `json:"expiresAt"`
	Status       Status        `json:"status"`
	Applications int           `json:"applications"`
	Views        int           `json:"views"`
	// Signature is the posting attestation; see VerifyPosting.
	Signature string    `json:"signature,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (j *Job) IsActive() bool { return j.Status == StatusActive }

// Requirement converts the posting's bar into the evaluator's input. The
// always-disqualifying policy is left to the evaluating catalog.
func (j *Job) Requirement() eligibility.JobRequirement {
	return eligibility.JobRequirement{
		MinScore:              j.Requirements.MinScore,
		RelevantDisqualifiers: j.Requirements.Disqualifiers.Clone(),
	}
}

// Validate checks every invariant against catalog.
func (j *Job) Validate(catalog *eligibility.Catalog) error {
	switch {
	case strings.TrimSpace(j.Title) == "":
		return invariant("title is required")
	case strings.TrimSpace(j.Company) == "":
		return invariant("company is required")
	case strings.TrimSpace(j.Description) == "":
		return invariant("description is required")
	case strings.TrimSpace(j.Location) == "":
		return invariant("location is required")
	case !j.Type.IsValid():
		return invariant("type must be one of Full-time, Part-time, Contract, Internship, Temporary")
	case !j.Status.IsValid():
		return invariant("status must be one of Draft, Active, Filled, Expired")
	case j.Salary.Min < 0 || j.Salary.Max < 0:
		return invariant("salary must not be negative")
	case j.Salary.Min > j.Salary.Max:
		return invariant("salary.min must not exceed salary.max")
	case j.Requirements.MinScore < 0 || j.Requirements.MinScore > eligibility.MaxScore:
		return invariant("requirements.minScore must be between 0 and 360")
	case !j.ExpiresAt.After(j.PostedAt):
		return invariant("expiresAt must be after postedAt")
	}
	for key := range j.Requirements.Disqualifiers {
		if !catalog.Known(key) {
			return invariant("requirements.disqualifiers contains unknown flag " + string(key))
		}
	}
	return nil
}

// TransitionTo moves the job to next if the status machine allows it.
func (j *Job) TransitionTo(next Status, now time.Time) error {
	if !j.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"job cannot move from "+string(j.Status)+" to "+string(next))
	}
	j.Status = next
	j.UpdatedAt = now
	return nil
}

func (j *Job) IncrementApplications() { j.Applications++ }

// DecrementApplications floors at zero.
func (j *Job) DecrementApplications() {
	if j.Applications > 0 {
		j.Applications--
	}
}

// PostingContent is the signed part of a job: everything an applicant
// relies on, excluding counters and status.
type PostingContent struct {
	ID           id.JobID      `json:"id"`
	EmployerID   id.EmployerID `json:"employerId"`
	Title        string        `json:"title"`
	Company      string        `json:"company"`
	Description  string        `json:"description"`
	Location     string        `json:"location"`
	Type         JobType       `json:"type"`
	Salary       Salary        `json:"salary"`
	Requirements Requirements  `json:"requirements"`
	Skills       []string      `json:"skills"`
	ExpiresAt    time.Time     `json:"expiresAt"`
}

func (j *Job) Content() PostingContent {
	return PostingContent{
		ID:           j.ID,
		EmployerID:   j.EmployerID,
		Title:        j.Title,
		Company:      j.Company,
		Description:  j.Description,
		Location:     j.Location,
		Type:         j.Type,
		Salary:       j.Salary,
		Requirements: j.Requirements,
		Skills:       j.Skills,
		ExpiresAt:    j.ExpiresAt.UTC(),
	}
}

// PostingVerification is the outcome of checking a posting's signature.
type PostingVerification struct {
	JobID  id.JobID `json:"jobId"`
	Valid  bool     `json:"valid"`
	Reason string   `json:"reason,omitempty"`
	Issuer string   `json:"issuer,omitempty"`
	Digest string   `json:"digest,omitempty"`
}

func invariant(msg string) error {
	return dErrors.New(dErrors.CodeInvariantViolation, msg)
}
