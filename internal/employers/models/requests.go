package models

import (
	"net/url"
	"strings"
	"time"

	applicantmodels "jobgate/internal/applicants/models"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
)

type CreateEmployerRequest struct {
	Name        string `json:"name"`
	DID         string `json:"did"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
}

func (r *CreateEmployerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.DID = strings.TrimSpace(r.DID)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Website = strings.TrimSpace(r.Website)
	r.Industry = strings.TrimSpace(r.Industry)
	r.Location = strings.TrimSpace(r.Location)
}

func (r *CreateEmployerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.Normalize()
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if _, err := id.ParseDID(r.DID); err != nil {
		return dErrors.New(dErrors.CodeValidation, "did must look like did:<method>:<identifier>")
	}
	if !applicantmodels.ValidEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	return validateWebsite(r.Website)
}

// UpdateEmployerRequest is a partial update. DID is immutable.
type UpdateEmployerRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Website     *string `json:"website"`
	Description *string `json:"description"`
	Industry    *string `json:"industry"`
	Location    *string `json:"location"`
}

func (r *UpdateEmployerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	for _, f := range []*string{r.Name, r.Phone, r.Website, r.Industry, r.Location} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
		if !applicantmodels.ValidEmail(*r.Email) {
			return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
		}
	}
	if r.Name != nil && *r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
	}
	if r.Website != nil {
		return validateWebsite(*r.Website)
	}
	return nil
}

type IssueCredentialRequest struct {
	Type       CredentialType `json:"type"`
	SubjectDID string         `json:"subjectDid"`
	ExpiresAt  *time.Time     `json:"expiresAt"`
}

func (r *IssueCredentialRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.SubjectDID = strings.TrimSpace(r.SubjectDID)
	if !r.Type.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "type must be one of Employment, Skill, Reference")
	}
	if _, err := id.ParseDID(r.SubjectDID); err != nil {
		return dErrors.New(dErrors.CodeValidation, "subjectDid must be a DID")
	}
	return nil
}

func validateWebsite(website string) error {
	if website == "" {
		return nil
	}
	u, err := url.Parse(website)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return dErrors.New(dErrors.CodeValidation, "website must be an http(s) URL")
	}
	return nil
}
