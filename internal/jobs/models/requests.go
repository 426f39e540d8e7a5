package models

import (
	"strings"
	"time"

	"jobgate/internal/eligibility"
	dErrors "jobgate/pkg/domain-errors"
	pstrings "jobgate/pkg/platform/strings"
)

// RequirementsInput accepts either explicit disqualifiers or credential
// labels ("No Felony", "Valid License") that map onto them.
type RequirementsInput struct {
	MinScore            *int                `json:"minScore"`
	Disqualifiers       eligibility.FlagSet `json:"disqualifiers"`
	RequiredCredentials []string            `json:"requiredCredentials"`
}

type CreateJobRequest struct {
	EmployerID   string            `json:"employerId"`
	Title        string            `json:"title"`
	Company      string            `json:"company"`
	Description  string            `json:"description"`
	Location     string            `json:"location"`
	Type         JobType           `json:"type"`
	Salary       Salary            `json:"salary"`
	Requirements RequirementsInput `json:"requirements"`
	Skills       []string          `json:"skills"`
	ExpiresAt    time.Time         `json:"expiresAt"`
	Status       Status            `json:"status"`
}

func (r *CreateJobRequest) Normalize() {
	r.EmployerID = strings.TrimSpace(r.EmployerID)
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
	r.Skills = pstrings.DedupeAndTrim(r.Skills)
	if r.Salary.Currency == "" {
		r.Salary.Currency = DefaultCurrency
	}
	r.Salary.Currency = strings.ToUpper(strings.TrimSpace(r.Salary.Currency))
	if r.Status == "" {
		r.Status = StatusActive
	}
}

// Validate checks request shape; domain invariants are enforced by Job.Validate.
func (r *CreateJobRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.Normalize()
	if r.EmployerID == "" {
		return dErrors.New(dErrors.CodeValidation, "employerId is required")
	}
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if r.ExpiresAt.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "expiresAt is required")
	}
	if r.Status != StatusActive && r.Status != StatusDraft {
		return dErrors.New(dErrors.CodeValidation, "status must be Active or Draft on creation")
	}
	return nil
}

// UpdateJobRequest is a partial update; nil fields are left unchanged.
type UpdateJobRequest struct {
	Title        *string            `json:"title"`
	Company      *string            `json:"company"`
	Description  *string            `json:"description"`
	Location     *string            `json:"location"`
	Type         *JobType           `json:"type"`
	Salary       *Salary            `json:"salary"`
	Requirements *RequirementsInput `json:"requirements"`
	Skills       *[]string          `json:"skills"`
	ExpiresAt    *time.Time         `json:"expiresAt"`
	Status       *Status            `json:"status"`
}

func (r *UpdateJobRequest) Normalize() {
	for _, f := range []*string{r.Title, r.Company, r.Description, r.Location} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if r.Skills != nil {
		skills := pstrings.DedupeAndTrim(*r.Skills)
		r.Skills = &skills
	}
	if r.Salary != nil && r.Salary.Currency == "" {
		r.Salary.Currency = DefaultCurrency
	}
}

func (r *UpdateJobRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.Normalize()
	if r.Title != nil && *r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title cannot be empty")
	}
	if r.Status != nil && !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of Draft, Active, Filled, Expired")
	}
	return nil
}

// StatusRequest changes only the status.
type StatusRequest struct {
	Status Status `json:"status"`
}

func (r *StatusRequest) Validate() error {
	if r == nil || !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of Draft, Active, Filled, Expired")
	}
	return nil
}
