package models

import (
	"strings"

	"jobgate/internal/eligibility"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
)

const maxNotesLength = 2000

// ApplyRequest submits an applicant to a job. Check requests share the shape.
type ApplyRequest struct {
	JobID       string `json:"jobId"`
	ApplicantID string `json:"applicantId"`
	Notes       string `json:"notes"`

	jobID       id.JobID
	applicantID id.ApplicantID
}

func (r *ApplyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	var err error
	if r.jobID, err = id.ParseJobID(strings.TrimSpace(r.JobID)); err != nil {
		return dErrors.New(dErrors.CodeValidation, "jobId must be a valid job id")
	}
	if r.applicantID, err = id.ParseApplicantID(strings.TrimSpace(r.ApplicantID)); err != nil {
		return dErrors.New(dErrors.CodeValidation, "applicantId must be a valid applicant id")
	}
	r.Notes = strings.TrimSpace(r.Notes)
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes is too long")
	}
	return nil
}

// IDs returns the parsed identifiers. Valid only after Validate succeeds.
func (r *ApplyRequest) IDs() (id.JobID, id.ApplicantID) {
	return r.jobID, r.applicantID
}

type UpdateStatusRequest struct {
	Status Status  `json:"status"`
	Notes  *string `json:"notes"`
}

func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of Applied, Verified, Rejected, Accepted, Withdrawn")
	}
	if r.Status == StatusVerified {
		return dErrors.New(dErrors.CodeValidation, "status Verified is set by eligibility verification")
	}
	if r.Notes != nil {
		*r.Notes = strings.TrimSpace(*r.Notes)
		if len(*r.Notes) > maxNotesLength {
			return dErrors.New(dErrors.CodeValidation, "notes is too long")
		}
	}
	return nil
}

// EligibilityCheck is an unpersisted evaluation shown to the applicant.
type EligibilityCheck struct {
	JobID               id.JobID                `json:"jobId"`
	ApplicantID         id.ApplicantID          `json:"applicantId"`
	Outcome             Outcome                 `json:"status"`
	Eligible            bool                    `json:"eligible"`
	FailureKind         eligibility.FailureKind `json:"failureKind,omitempty"`
	Reason              string                  `json:"reason,omitempty"`
	Details             []eligibility.Detail    `json:"details"`
	RequiredCredentials []string                `json:"requiredCredentials"`
}
