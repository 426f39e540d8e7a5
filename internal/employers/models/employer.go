package models

import (
	"time"

	id "jobgate/pkg/domain"
)

// CredentialType names a credential an employer can issue.
type CredentialType string

const (
	CredentialEmployment CredentialType = "Employment"
	CredentialSkill      CredentialType = "Skill"
	CredentialReference  CredentialType = "Reference"
)

func (t CredentialType) IsValid() bool {
	switch t {
	case CredentialEmployment, CredentialSkill, CredentialReference:
		return true
	}
	return false
}

type CredentialStatus string

const (
	CredentialActive  CredentialStatus = "Active"
	CredentialRevoked CredentialStatus = "Revoked"
)

// IssuedCredential is the employer's record of a credential it signed.
type IssuedCredential struct {
	ID         id.CredentialID  `json:"id"`
	Type       CredentialType   `json:"type"`
	SubjectDID id.DID           `json:"subjectDid"`
	IssuedAt   time.Time        `json:"issuedAt"`
	ExpiresAt  *time.Time       `json:"expiresAt,omitempty"`
	Status     CredentialStatus `json:"status"`
	// Attestation is the signed token handed to the subject.
	Attestation          string     `json:"attestation"`
	AttestationID        string     `json:"attestationId"`
	AttestationExpiresAt time.Time  `json:"attestationExpiresAt"`
	RevokedAt            *time.Time `json:"revokedAt,omitempty"`
}

type Employer struct {
	ID                id.EmployerID      `json:"id"`
	Name              string             `json:"name"`
	DID               id.DID             `json:"did"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone,omitempty"`
	Website           string             `json:"website,omitempty"`
	Description       string             `json:"description,omitempty"`
	Industry          string             `json:"industry,omitempty"`
	Location          string             `json:"location,omitempty"`
	IssuedCredentials []IssuedCredential `json:"issuedCredentials"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

func (e *Employer) Credential(credentialID id.CredentialID) (*IssuedCredential, bool) {
	for i := range e.IssuedCredentials {
		if e.IssuedCredentials[i].ID == credentialID {
			return &e.IssuedCredentials[i], true
		}
	}
	return nil, false
}

// PublicProfile omits contact details and issued credentials.
type PublicProfile struct {
	Name        string `json:"name"`
	DID         id.DID `json:"did"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Location    string `json:"location,omitempty"`
}

func (e *Employer) Public() PublicProfile {
	return PublicProfile{
		Name:        e.Name,
		DID:         e.DID,
		Website:     e.Website,
		Description: e.Description,
		Industry:    e.Industry,
		Location:    e.Location,
	}
}
