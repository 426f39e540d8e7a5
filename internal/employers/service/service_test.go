package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	applicantmodels "jobgate/internal/applicants/models"
	applicantservice "jobgate/internal/applicants/service"
	applicantstore "jobgate/internal/applicants/store"
	"jobgate/internal/attestation"
	"jobgate/internal/employers/models"
	"jobgate/internal/employers/store"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/platform/audit"
	auditmemory "jobgate/pkg/platform/audit/store/memory"
	"jobgate/pkg/platform/audit/publisher"
	"jobgate/pkg/requestcontext"
	"jobgate/pkg/testutil"
)

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	now        time.Time
	audit      *auditmemory.InMemoryStore
	signer     *attestation.Signer
	applicants *applicantservice.Service
	applicant  *applicantmodels.Applicant
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.audit = auditmemory.NewInMemoryStore()

	signer, err := attestation.NewSigner([]byte("employers-test"), "did:web:jobgate.test",
		attestation.WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)
	s.signer = signer

	s.applicants = applicantservice.New(applicantstore.NewMemory(),
		applicantservice.WithLogger(testutil.DiscardLogger()),
	)
	score := 300
	s.applicant, err = s.applicants.Create(s.ctx, &applicantmodels.CreateApplicantRequest{
		Name:    "Dana Driver",
		DID:     "did:example:dana",
		Email:   "dana@example.com",
		Profile: applicantmodels.ProfileInput{Score: &score},
	})
	s.Require().NoError(err)

	s.service = New(store.NewMemory(), signer,
		WithWallet(s.applicants),
		WithLogger(testutil.DiscardLogger()),
		WithAuditPublisher(publisher.NewPublisher(s.audit)),
	)
}

func (s *ServiceSuite) create(name, did, email string) *models.Employer {
	e, err := s.service.Create(s.ctx, &models.CreateEmployerRequest{
		Name:    name,
		DID:     did,
		Email:   email,
		Website: "https://acme.example.com",
	})
	s.Require().NoError(err)
	return e
}

func (s *ServiceSuite) TestCreateGetAndExists() {
	e := s.create("Acme Logistics", "did:example:acme", "HR@Acme.example.com")
	s.Equal("hr@acme.example.com", e.Email)
	s.Equal(s.now, e.CreatedAt)
	s.NotNil(e.IssuedCredentials)

	byDID, err := s.service.GetByDID(s.ctx, "did:example:acme")
	s.Require().NoError(err)
	s.Equal(e.ID, byDID.ID)

	exists, err := s.service.Exists(s.ctx, e.ID)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.service.Exists(s.ctx, id.NewEmployerID())
	s.Require().NoError(err)
	s.False(exists)

	public, err := s.service.PublicProfile(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("Acme Logistics", public.Name)
}

func (s *ServiceSuite) TestCreateConflicts() {
	s.create("Acme", "did:example:acme", "hr@acme.example.com")

	_, err := s.service.Create(s.ctx, &models.CreateEmployerRequest{
		Name: "Other", DID: "did:example:acme", Email: "jobs@other.example.com",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.Create(s.ctx, &models.CreateEmployerRequest{
		Name: "Other", DID: "did:example:other", Email: "HR@acme.example.com",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestUpdateAndDelete() {
	e := s.create("Acme", "did:example:acme", "hr@acme.example.com")
	name := "Acme Freight"
	updated, err := s.service.Update(s.ctx, e.ID, &models.UpdateEmployerRequest{Name: &name})
	s.Require().NoError(err)
	s.Equal("Acme Freight", updated.Name)
	s.Equal("hr@acme.example.com", updated.Email)

	s.Require().NoError(s.service.Delete(s.ctx, e.ID))
	_, err = s.service.Get(s.ctx, e.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.True(dErrors.HasCode(s.service.Delete(s.ctx, e.ID), dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestIssueCredentialDeliversToWallet() {
	e := s.create("Acme", "did:example:acme", "hr@acme.example.com")

	cred, err := s.service.IssueCredential(s.ctx, e.ID, &models.IssueCredentialRequest{
		Type:       models.CredentialEmployment,
		SubjectDID: "did:example:dana",
	})
	s.Require().NoError(err)
	s.Equal(models.CredentialActive, cred.Status)
	s.NotEmpty(cred.Attestation)

	claims, err := s.signer.Verify(s.ctx, cred.Attestation)
	s.Require().NoError(err)
	s.Equal(cred.ID.String(), claims.Subject)
	s.Equal("did:example:dana", claims.SubjectDID)

	held, err := s.applicants.Get(s.ctx, s.applicant.ID)
	s.Require().NoError(err)
	got, ok := held.Credential(cred.ID)
	s.Require().True(ok)
	s.Equal(e.DID, got.Issuer)
	s.Equal(applicantmodels.CredentialEmployment, got.Type)

	stored, err := s.service.Get(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Len(stored.IssuedCredentials, 1)

	events, err := s.audit.ListBySubject(s.ctx, audit.Subject("employer", e.ID))
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.EventCredentialIssued, events[1].Action)
}

func (s *ServiceSuite) TestIssueCredentialRejects() {
	e := s.create("Acme", "did:example:acme", "hr@acme.example.com")

	_, err := s.service.IssueCredential(s.ctx, e.ID, &models.IssueCredentialRequest{
		Type: models.CredentialSkill, SubjectDID: "did:example:nobody",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	past := s.now.Add(-time.Hour)
	_, err = s.service.IssueCredential(s.ctx, e.ID, &models.IssueCredentialRequest{
		Type: models.CredentialSkill, SubjectDID: "did:example:dana", ExpiresAt: &past,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.IssueCredential(s.ctx, id.NewEmployerID(), &models.IssueCredentialRequest{
		Type: models.CredentialSkill, SubjectDID: "did:example:dana",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	stored, err := s.service.Get(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Empty(stored.IssuedCredentials)
}

func (s *ServiceSuite) TestRevokeCredential() {
	e := s.create("Acme", "did:example:acme", "hr@acme.example.com")
	cred, err := s.service.IssueCredential(s.ctx, e.ID, &models.IssueCredentialRequest{
		Type: models.CredentialReference, SubjectDID: "did:example:dana",
	})
	s.Require().NoError(err)

	revoked, err := s.service.RevokeCredential(s.ctx, e.ID, cred.ID)
	s.Require().NoError(err)
	s.Equal(models.CredentialRevoked, revoked.Status)
	s.Require().NotNil(revoked.RevokedAt)
	s.Equal(s.now, *revoked.RevokedAt)

	_, err = s.signer.Verify(s.ctx, cred.Attestation)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	held, err := s.applicants.Get(s.ctx, s.applicant.ID)
	s.Require().NoError(err)
	got, ok := held.Credential(cred.ID)
	s.Require().True(ok)
	s.Equal(applicantmodels.CredentialRevoked, got.Status)

	_, err = s.service.RevokeCredential(s.ctx, e.ID, cred.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.RevokeCredential(s.ctx, e.ID, id.NewCredentialID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
