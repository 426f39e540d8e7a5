// Package models holds the job application record and its status machine.
package models

import (
	"time"

	"jobgate/internal/eligibility"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
)

type Status string

const (
	StatusApplied   Status = "Applied"
	StatusVerified  Status = "Verified"
	StatusRejected  Status = "Rejected"
	StatusAccepted  Status = "Accepted"
	StatusWithdrawn Status = "Withdrawn"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusApplied, StatusVerified, StatusRejected, StatusAccepted, StatusWithdrawn:
		return true
	}
	return false
}

// CanTransitionTo encodes the review flow. Verified and Rejected may be
// re-entered by a fresh verification; Accepted and Withdrawn are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusApplied:
		return next == StatusVerified || next == StatusRejected || next == StatusWithdrawn
	case StatusVerified:
		return next == StatusVerified || next == StatusRejected || next == StatusAccepted || next == StatusWithdrawn
	case StatusRejected:
		return next == StatusVerified || next == StatusRejected
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusWithdrawn
}

// Outcome is the employer-facing eligibility verdict.
type Outcome string

const (
	OutcomeEligible    Outcome = "Eligible"
	OutcomeNotEligible Outcome = "NotEligible"
)

// Verification is the persisted result of an eligibility check. It carries
// the verdict and the failure kind, never the applicant's score or flags.
type Verification struct {
	Verified       bool                    `json:"verified"`
	ProofGenerated bool                    `json:"proofGenerated"`
	ProofVerified  bool                    `json:"proofVerified"`
	Outcome        Outcome                 `json:"status"`
	FailureKind    eligibility.FailureKind `json:"failureKind,omitempty"`
	Reason         string                  `json:"reason,omitempty"`
	Timestamp      time.Time               `json:"timestamp"`
}

type AttestationStatus string

const (
	AttestationPending AttestationStatus = "Pending"
	AttestationIssued  AttestationStatus = "Issued"
	AttestationRevoked AttestationStatus = "Revoked"
)

// Attestation is the signed eligibility statement issued for an application.
type Attestation struct {
	Token     string            `json:"token,omitempty"`
	ID        string            `json:"id,omitempty"`
	Status    AttestationStatus `json:"status"`
	IssuedAt  *time.Time        `json:"issuedAt,omitempty"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
}

// Revocable reports whether the attestation is live on the revocation list.
func (a Attestation) Revocable() bool {
	return a.Status == AttestationIssued && a.ID != "" && a.ExpiresAt != nil
}

type Application struct {
	ID           id.ApplicationID `json:"id"`
	JobID        id.JobID         `json:"jobId"`
	ApplicantID  id.ApplicantID   `json:"applicantId"`
	Status       Status           `json:"status"`
	Verification *Verification    `json:"verification,omitempty"`
	Attestation  Attestation      `json:"attestation"`
	Notes        string           `json:"notes,omitempty"`
	AppliedAt    time.Time        `json:"appliedAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// NewApplication starts an application in Applied with a pending attestation.
func NewApplication(jobID id.JobID, applicantID id.ApplicantID, notes string, now time.Time) *Application {
	return &Application{
		ID:          id.ApplicationIDFor(jobID, applicantID),
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      StatusApplied,
		Attestation: Attestation{Status: AttestationPending},
		Notes:       notes,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
}

// TransitionTo moves the application to next if the status machine allows it.
func (a *Application) TransitionTo(next Status, now time.Time) error {
	if !a.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"application cannot move from "+string(a.Status)+" to "+string(next))
	}
	a.Status = next
	a.UpdatedAt = now
	return nil
}

// CanVerify reports whether an eligibility verification may run.
func (a *Application) CanVerify() bool {
	return a.Status.CanTransitionTo(StatusVerified)
}

// RecordVerification stores the outcome and moves to Verified or Rejected.
func (a *Application) RecordVerification(result eligibility.Result, now time.Time) error {
	v := NewVerification(result, now)
	next := StatusRejected
	if result.Eligible {
		next = StatusVerified
	}
	if err := a.TransitionTo(next, now); err != nil {
		return err
	}
	a.Verification = &v
	return nil
}

// NewVerification converts an evaluator result into the persisted record.
func NewVerification(result eligibility.Result, now time.Time) Verification {
	v := Verification{
		Verified:       result.Eligible,
		ProofGenerated: true,
		ProofVerified:  true,
		Outcome:        OutcomeEligible,
		Timestamp:      now,
	}
	if !result.Eligible {
		v.Outcome = OutcomeNotEligible
		v.FailureKind = result.Reason.Kind()
		v.Reason = PublicReason(result.Reason)
	}
	return v
}

// PublicReason describes a failure without disclosing the applicant's score.
func PublicReason(reason eligibility.FailureReason) string {
	switch r := reason.(type) {
	case eligibility.ScoreTooLow:
		return "score is below the job's minimum requirement"
	case eligibility.DisqualifierPresent:
		if d, ok := eligibility.DefaultCatalog.Lookup(r.Flag); ok && d.Requirement != "" {
			return "does not meet requirement: " + d.Requirement
		}
		return "disqualifier present: " + string(r.Flag)
	}
	return ""
}
