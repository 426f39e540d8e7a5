// Package audit records who did what to which record.
//
// Domain services emit Events through a Publisher; the Publisher persists
// them to a Store and optionally forwards them to a Sink (Kafka). Events
// carry outcomes and reasons, never the applicant's raw score or flags.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory drives retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers eligibility decisions and credential lifecycle.
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers attestation revocation and signature failures.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine record changes.
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	EventJobCreated       AuditEvent = "job_created"
	EventJobUpdated       AuditEvent = "job_updated"
	EventJobDeleted       AuditEvent = "job_deleted"
	EventJobStatusChanged AuditEvent = "job_status_changed"

	EventApplicantCreated AuditEvent = "applicant_created"
	EventApplicantUpdated AuditEvent = "applicant_updated"
	EventApplicantDeleted AuditEvent = "applicant_deleted"

	EventEmployerCreated AuditEvent = "employer_created"
	EventEmployerDeleted AuditEvent = "employer_deleted"

	EventCredentialAdded   AuditEvent = "credential_added"
	EventCredentialIssued  AuditEvent = "credential_issued"
	EventCredentialRevoked AuditEvent = "credential_revoked"

	EventApplicationSubmitted     AuditEvent = "application_submitted"
	EventApplicationStatusChanged AuditEvent = "application_status_changed"
	EventApplicationWithdrawn     AuditEvent = "application_withdrawn"
	EventApplicationDeleted       AuditEvent = "application_deleted"

	EventEligibilityVerified AuditEvent = "eligibility_verified"
	EventEligibilityChecked  AuditEvent = "eligibility_checked"

	EventAttestationRevoked AuditEvent = "attestation_revoked"
	EventSignatureInvalid   AuditEvent = "signature_invalid"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventEligibilityVerified: CategoryCompliance,
	EventCredentialIssued:    CategoryCompliance,
	EventCredentialRevoked:   CategoryCompliance,
	EventApplicantDeleted:    CategoryCompliance,
	EventApplicationDeleted:  CategoryCompliance,

	EventAttestationRevoked: CategorySecurity,
	EventSignatureInvalid:   CategorySecurity,
}

// Category returns the event's category. Unlisted events are operations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is one audit record. Subject is the affected record, usually
// "<kind>:<id>" such as "application:6f1c...".
type Event struct {
	ID        uuid.UUID     `json:"id"`
	Category  EventCategory `json:"category"`
	Action    AuditEvent    `json:"action"`
	Subject   string        `json:"subject"`
	Actor     string        `json:"actor,omitempty"`
	Decision  string        `json:"decision,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"requestId,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Subject formats the conventional "<kind>:<id>" subject.
func Subject(kind string, id interface{ String() string }) string {
	return kind + ":" + id.String()
}

// Store persists events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Sink forwards events to an external stream after they are stored.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close()
}
