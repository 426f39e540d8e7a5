package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"jobgate/internal/eligibility"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
	pstrings "jobgate/pkg/platform/strings"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// ValidEmail checks the address shape accepted for applicants and employers.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ProfileInput requires an explicit score; a missing score is a validation
// error rather than a zero.
type ProfileInput struct {
	Score         *int                `json:"score"`
	Disqualifiers eligibility.FlagSet `json:"disqualifiers"`
}

func (p ProfileInput) validate() error {
	if p.Score == nil {
		return dErrors.New(dErrors.CodeValidation, "profile.score is required")
	}
	if *p.Score < 0 || *p.Score > eligibility.MaxScore {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("profile.score must be between 0 and %d", eligibility.MaxScore))
	}
	return nil
}

func (p ProfileInput) Profile() Profile {
	flags := p.Disqualifiers.Clone()
	if flags == nil {
		flags = eligibility.FlagSet{}
	}
	return Profile{Score: *p.Score, Disqualifiers: flags}
}

type CreateApplicantRequest struct {
	Name       string       `json:"name"`
	DID        string       `json:"did"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Profile    ProfileInput `json:"profile"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
}

func (r *CreateApplicantRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.DID = strings.TrimSpace(r.DID)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Skills = pstrings.DedupeAndTrim(r.Skills)
	normalizeHistory(r.Experience, r.Education)
}

func (r *CreateApplicantRequest) Validate() error {
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
	if !ValidEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	if err := r.Profile.validate(); err != nil {
		return err
	}
	return validateHistory(r.Experience, r.Education)
}

// UpdateApplicantRequest is a partial update. DID is immutable.
type UpdateApplicantRequest struct {
	Name       *string       `json:"name"`
	Email      *string       `json:"email"`
	Phone      *string       `json:"phone"`
	Profile    *ProfileInput `json:"profile"`
	Skills     *[]string     `json:"skills"`
	Experience *[]Experience `json:"experience"`
	Education  *[]Education  `json:"education"`
}

func (r *UpdateApplicantRequest) Normalize() {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Phone != nil {
		*r.Phone = strings.TrimSpace(*r.Phone)
	}
	if r.Skills != nil {
		skills := pstrings.DedupeAndTrim(*r.Skills)
		r.Skills = &skills
	}
	var exp []Experience
	var edu []Education
	if r.Experience != nil {
		exp = *r.Experience
	}
	if r.Education != nil {
		edu = *r.Education
	}
	normalizeHistory(exp, edu)
}

func (r *UpdateApplicantRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.Normalize()
	if r.Name != nil && *r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
	}
	if r.Email != nil && !ValidEmail(*r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	if r.Profile != nil {
		if err := r.Profile.validate(); err != nil {
			return err
		}
	}
	var exp []Experience
	var edu []Education
	if r.Experience != nil {
		exp = *r.Experience
	}
	if r.Education != nil {
		edu = *r.Education
	}
	return validateHistory(exp, edu)
}

// AddCredentialRequest records a credential issued elsewhere.
type AddCredentialRequest struct {
	Type      CredentialType `json:"type"`
	Issuer    string         `json:"issuer"`
	IssuedAt  time.Time      `json:"issuedAt"`
	ExpiresAt *time.Time     `json:"expiresAt"`
}

func (r *AddCredentialRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.Issuer = strings.TrimSpace(r.Issuer)
	if !r.Type.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "type must be one of Education, Employment, Skill, BackgroundCheck, Reference")
	}
	if _, err := id.ParseDID(r.Issuer); err != nil {
		return dErrors.New(dErrors.CodeValidation, "issuer must be a DID")
	}
	if r.ExpiresAt != nil && !r.IssuedAt.IsZero() && !r.ExpiresAt.After(r.IssuedAt) {
		return dErrors.New(dErrors.CodeValidation, "expiresAt must be after issuedAt")
	}
	return nil
}

func normalizeHistory(exp []Experience, edu []Education) {
	for i := range exp {
		exp[i].Title = strings.TrimSpace(exp[i].Title)
		exp[i].Company = strings.TrimSpace(exp[i].Company)
	}
	for i := range edu {
		edu[i].Degree = strings.TrimSpace(edu[i].Degree)
		edu[i].Institution = strings.TrimSpace(edu[i].Institution)
	}
}

func validateHistory(exp []Experience, edu []Education) error {
	for i, e := range exp {
		field := fmt.Sprintf("experience[%d]", i)
		switch {
		case e.Title == "":
			return dErrors.New(dErrors.CodeValidation, field+".title is required")
		case e.Company == "":
			return dErrors.New(dErrors.CodeValidation, field+".company is required")
		case e.StartDate.IsZero():
			return dErrors.New(dErrors.CodeValidation, field+".startDate is required")
		case e.EndDate != nil && e.EndDate.Before(e.StartDate):
			return dErrors.New(dErrors.CodeValidation, field+".endDate must not precede startDate")
		}
	}
	for i, e := range edu {
		field := fmt.Sprintf("education[%d]", i)
		switch {
		case e.Degree == "":
			return dErrors.New(dErrors.CodeValidation, field+".degree is required")
		case e.Institution == "":
			return dErrors.New(dErrors.CodeValidation, field+".institution is required")
		case e.GraduationDate.IsZero():
			return dErrors.New(dErrors.CodeValidation, field+".graduationDate is required")
		}
	}
	return nil
}
