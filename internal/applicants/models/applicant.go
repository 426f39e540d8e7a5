package models

import (
	"time"

	"jobgate/internal/eligibility"
	id "jobgate/pkg/domain"
)

// CredentialType names a credential held by an applicant.
type CredentialType string

const (
	CredentialEducation       CredentialType = "Education"
	CredentialEmployment      CredentialType = "Employment"
	CredentialSkill           CredentialType = "Skill"
	CredentialBackgroundCheck CredentialType = "BackgroundCheck"
	CredentialReference       CredentialType = "Reference"
)

func (t CredentialType) IsValid() bool {
	switch t {
	case CredentialEducation, CredentialEmployment, CredentialSkill, CredentialBackgroundCheck, CredentialReference:
		return true
	}
	return false
}

type CredentialStatus string

const (
	CredentialActive  CredentialStatus = "Active"
	CredentialRevoked CredentialStatus = "Revoked"
	CredentialExpired CredentialStatus = "Expired"
)

// Credential is held by an applicant. Attestation carries the issuer's
// signed token when the credential was issued through this service.
type Credential struct {
	ID          id.CredentialID  `json:"id"`
	Type        CredentialType   `json:"type"`
	Issuer      id.DID           `json:"issuer"`
	IssuedAt    time.Time        `json:"issuedAt"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
	Status      CredentialStatus `json:"status"`
	Attestation string           `json:"attestation,omitempty"`
}

// StatusAt reports Expired for an active credential past its expiry.
func (c Credential) StatusAt(now time.Time) CredentialStatus {
	if c.Status == CredentialActive && c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return CredentialExpired
	}
	return c.Status
}

// Profile is the confidential eligibility input.
type Profile struct {
	Score         int                 `json:"score"`
	Disqualifiers eligibility.FlagSet `json:"disqualifiers"`
}

type Experience struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	Degree         string    `json:"degree"`
	Institution    string    `json:"institution"`
	GraduationDate time.Time `json:"graduationDate"`
}

// Applicant is a job seeker. DID and Email are unique across applicants.
type Applicant struct {
	ID          id.ApplicantID `json:"id"`
	Name        string         `json:"name"`
	DID         id.DID         `json:"did"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone,omitempty"`
	Profile     Profile        `json:"profile"`
	Skills      []string       `json:"skills"`
	Experience  []Experience   `json:"experience"`
	Education   []Education    `json:"education"`
	Credentials []Credential   `json:"credentials"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// EligibilityProfile converts the confidential profile into the evaluator's input.
func (a *Applicant) EligibilityProfile() eligibility.ApplicantProfile {
	return eligibility.ApplicantProfile{
		Score:         a.Profile.Score,
		Disqualifiers: a.Profile.Disqualifiers.Clone(),
	}
}

// Credential finds a held credential by ID.
func (a *Applicant) Credential(credentialID id.CredentialID) (*Credential, bool) {
	for i := range a.Credentials {
		if a.Credentials[i].ID == credentialID {
			return &a.Credentials[i], true
		}
	}
	return nil, false
}

// PublicProfile is what employers see before an application is verified:
// no contact details, score or background flags.
type PublicProfile struct {
	Name       string       `json:"name"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
}

func (a *Applicant) Public() PublicProfile {
	return PublicProfile{
		Name:       a.Name,
		Skills:     nonNil(a.Skills),
		Experience: nonNil(a.Experience),
		Education:  nonNil(a.Education),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
