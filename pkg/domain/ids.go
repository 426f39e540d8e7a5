// Package domain holds identifier value types shared by every module.
//
// IDs are distinct named types over uuid.UUID so a JobID can never be passed
// where an ApplicantID is expected. Construct them from external input with the
// Parse* functions; direct conversion skips validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "jobgate/pkg/domain-errors"
)

type (
	JobID         uuid.UUID
	ApplicantID   uuid.UUID
	EmployerID    uuid.UUID
	ApplicationID uuid.UUID
	CredentialID  uuid.UUID
)

// applicationNamespace scopes deterministic application IDs.
var applicationNamespace = uuid.MustParse("6f1c2a4e-9b1d-4d0e-8a53-2f7c1b9e0d41")

func NewJobID() JobID               { return JobID(uuid.New()) }
func NewApplicantID() ApplicantID   { return ApplicantID(uuid.New()) }
func NewEmployerID() EmployerID     { return EmployerID(uuid.New()) }
func NewCredentialID() CredentialID { return CredentialID(uuid.New()) }

// ApplicationIDFor derives the application ID for a (job, applicant) pair.
// The same pair always yields the same ID, which makes "one application per
// applicant per job" a key-uniqueness property of whichever store is used.
func ApplicationIDFor(job JobID, applicant ApplicantID) ApplicationID {
	name := uuid.UUID(job).String() + "/" + uuid.UUID(applicant).String()
	return ApplicationID(uuid.NewSHA1(applicationNamespace, []byte(name)))
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

func ParseJobID(s string) (JobID, error) {
	u, err := parseUUID(s, "job id")
	return JobID(u), err
}

func ParseApplicantID(s string) (ApplicantID, error) {
	u, err := parseUUID(s, "applicant id")
	return ApplicantID(u), err
}

func ParseEmployerID(s string) (EmployerID, error) {
	u, err := parseUUID(s, "employer id")
	return EmployerID(u), err
}

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application id")
	return ApplicationID(u), err
}

func ParseCredentialID(s string) (CredentialID, error) {
	u, err := parseUUID(s, "credential id")
	return CredentialID(u), err
}

func (i JobID) String() string         { return uuid.UUID(i).String() }
func (i ApplicantID) String() string   { return uuid.UUID(i).String() }
func (i EmployerID) String() string    { return uuid.UUID(i).String() }
func (i ApplicationID) String() string { return uuid.UUID(i).String() }
func (i CredentialID) String() string  { return uuid.UUID(i).String() }

func (i JobID) IsNil() bool         { return uuid.UUID(i) == uuid.Nil }
func (i ApplicantID) IsNil() bool   { return uuid.UUID(i) == uuid.Nil }
func (i EmployerID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }
func (i ApplicationID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }
func (i CredentialID) IsNil() bool  { return uuid.UUID(i) == uuid.Nil }

// Text marshaling keeps IDs as plain UUID strings in JSON documents.

func (i JobID) MarshalText() ([]byte, error)         { return uuid.UUID(i).MarshalText() }
func (i ApplicantID) MarshalText() ([]byte, error)   { return uuid.UUID(i).MarshalText() }
func (i EmployerID) MarshalText() ([]byte, error)    { return uuid.UUID(i).MarshalText() }
func (i ApplicationID) MarshalText() ([]byte, error) { return uuid.UUID(i).MarshalText() }
func (i CredentialID) MarshalText() ([]byte, error)  { return uuid.UUID(i).MarshalText() }

func (i *JobID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *ApplicantID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *EmployerID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *ApplicationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *CredentialID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(i).UnmarshalText(b) }
