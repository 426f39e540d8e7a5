package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"jobgate/internal/attestation"
	applicantmodels "jobgate/internal/applicants/models"
	"jobgate/internal/employers/models"
	"jobgate/internal/employers/store"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/platform/audit"
	"jobgate/pkg/platform/sentinel"
	"jobgate/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, e *models.Employer) error
	FindByID(ctx context.Context, employerID id.EmployerID) (*models.Employer, error)
	FindByDID(ctx context.Context, did id.DID) (*models.Employer, error)
	List(ctx context.Context) ([]*models.Employer, error)
	Update(ctx context.Context, employerID id.EmployerID, fn func(*models.Employer) error) (*models.Employer, error)
	Delete(ctx context.Context, employerID id.EmployerID) error
}

// Signer issues and revokes credential attestations.
type Signer interface {
	SignCredential(credentialID, credentialType, subjectDID string) (attestation.Issued, error)
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// Wallet delivers issued credentials to the subject applicant.
type Wallet interface {
	ReceiveCredential(ctx context.Context, subject id.DID, cred applicantmodels.Credential) error
	RevokeCredential(ctx context.Context, subject id.DID, credentialID id.CredentialID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	signer         Signer
	wallet         Wallet
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithWallet(wallet Wallet) Option {
	return func(s *Service) { s.wallet = wallet }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func New(store Store, signer Signer, opts ...Option) *Service {
	s := &Service{store: store, signer: signer, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, req *models.CreateEmployerRequest) (*models.Employer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	e := &models.Employer{
		ID:                id.NewEmployerID(),
		Name:              req.Name,
		DID:               id.DID(req.DID),
		Email:             req.Email,
		Phone:             req.Phone,
		Website:           req.Website,
		Description:       req.Description,
		Industry:          req.Industry,
		Location:          req.Location,
		IssuedCredentials: []models.IssuedCredential{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, translate(err, "failed to create employer")
	}
	s.emit(ctx, audit.EventEmployerCreated, e.ID, "")
	s.logger.InfoContext(ctx, "employer created",
		"request_id", requestcontext.RequestID(ctx),
		"employer_id", e.ID.String(),
	)
	return e, nil
}

func (s *Service) Get(ctx context.Context, employerID id.EmployerID) (*models.Employer, error) {
	e, err := s.store.FindByID(ctx, employerID)
	if err != nil {
		return nil, translate(err, "failed to load employer")
	}
	return e, nil
}

func (s *Service) GetByDID(ctx context.Context, did id.DID) (*models.Employer, error) {
	e, err := s.store.FindByDID(ctx, did)
	if err != nil {
		return nil, translate(err, "failed to load employer")
	}
	return e, nil
}

// Exists backs the job posting employer check.
func (s *Service) Exists(ctx context.Context, employerID id.EmployerID) (bool, error) {
	_, err := s.store.FindByID(ctx, employerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) List(ctx context.Context) ([]*models.Employer, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list employers")
	}
	return all, nil
}

func (s *Service) Update(ctx context.Context, employerID id.EmployerID, req *models.UpdateEmployerRequest) (*models.Employer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	e, err := s.store.Update(ctx, employerID, func(e *models.Employer) error {
		set(&e.Name, req.Name)
		set(&e.Email, req.Email)
		set(&e.Phone, req.Phone)
		set(&e.Website, req.Website)
		set(&e.Description, req.Description)
		set(&e.Industry, req.Industry)
		set(&e.Location, req.Location)
		e.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to update employer")
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, employerID id.EmployerID) error {
	if err := s.store.Delete(ctx, employerID); err != nil {
		return translate(err, "failed to delete employer")
	}
	s.emit(ctx, audit.EventEmployerDeleted, employerID, "")
	return nil
}

func (s *Service) PublicProfile(ctx context.Context, employerID id.EmployerID) (*models.PublicProfile, error) {
	e, err := s.Get(ctx, employerID)
	if err != nil {
		return nil, err
	}
	public := e.Public()
	return &public, nil
}

// IssueCredential signs a credential for subjectDid, delivers it to the
// applicant's wallet and records it on the employer.
func (s *Service) IssueCredential(ctx context.Context, employerID id.EmployerID, req *models.IssueCredentialRequest) (*models.IssuedCredential, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	employer, err := s.Get(ctx, employerID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	cred := models.IssuedCredential{
		ID:         id.NewCredentialID(),
		Type:       req.Type,
		SubjectDID: id.DID(req.SubjectDID),
		IssuedAt:   now,
		ExpiresAt:  req.ExpiresAt,
		Status:     models.CredentialActive,
	}
	if cred.ExpiresAt != nil && !cred.ExpiresAt.After(now) {
		return nil, dErrors.New(dErrors.CodeValidation, "expiresAt must be in the future")
	}
	issued, err := s.signer.SignCredential(cred.ID.String(), string(cred.Type), cred.SubjectDID.String())
	if err != nil {
		return nil, err
	}
	cred.Attestation = issued.Token
	cred.AttestationID = issued.ID
	cred.AttestationExpiresAt = issued.ExpiresAt

	if s.wallet != nil {
		err := s.wallet.ReceiveCredential(ctx, cred.SubjectDID, applicantmodels.Credential{
			ID:          cred.ID,
			Type:        applicantmodels.CredentialType(cred.Type),
			Issuer:      employer.DID,
			IssuedAt:    now,
			ExpiresAt:   cred.ExpiresAt,
			Status:      applicantmodels.CredentialActive,
			Attestation: issued.Token,
		})
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "subjectDid does not reference a known applicant")
		}
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.store.Update(ctx, employerID, func(e *models.Employer) error {
		e.IssuedCredentials = append(e.IssuedCredentials, cred)
		return nil
	}); err != nil {
		s.withdraw(ctx, cred)
		return nil, translate(err, "failed to record credential")
	}

	s.emit(ctx, audit.EventCredentialIssued, employerID, string(cred.Type))
	return &cred, nil
}

// RevokeCredential marks the credential revoked, adds its attestation to
// the revocation list and updates the holder's copy.
func (s *Service) RevokeCredential(ctx context.Context, employerID id.EmployerID, credentialID id.CredentialID) (*models.IssuedCredential, error) {
	now := requestcontext.Now(ctx)
	var revoked models.IssuedCredential
	_, err := s.store.Update(ctx, employerID, func(e *models.Employer) error {
		cred, ok := e.Credential(credentialID)
		if !ok {
			return dErrors.New(dErrors.CodeNotFound, "credential not found")
		}
		if cred.Status == models.CredentialRevoked {
			return dErrors.New(dErrors.CodeConflict, "credential already revoked")
		}
		cred.Status = models.CredentialRevoked
		cred.RevokedAt = &now
		revoked = *cred
		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to revoke credential")
	}

	if err := s.signer.Revoke(ctx, revoked.AttestationID, revoked.AttestationExpiresAt); err != nil {
		return nil, err
	}
	s.withdraw(ctx, revoked)
	s.emit(ctx, audit.EventCredentialRevoked, employerID, revoked.ID.String())
	s.emit(ctx, audit.EventAttestationRevoked, employerID, revoked.AttestationID)
	return &revoked, nil
}

func (s *Service) withdraw(ctx context.Context, cred models.IssuedCredential) {
	if s.wallet == nil {
		return
	}
	if err := s.wallet.RevokeCredential(ctx, cred.SubjectDID, cred.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to update holder credential",
			"credential_id", cred.ID.String(),
			"error", err,
		)
	}
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, employerID id.EmployerID, decision string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:   action,
		Subject:  audit.Subject("employer", employerID),
		Decision: decision,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", string(action), "error", err)
	}
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrDIDTaken):
		return dErrors.New(dErrors.CodeConflict, "an employer with this did already exists")
	case errors.Is(err, store.ErrEmailTaken):
		return dErrors.New(dErrors.CodeConflict, "an employer with this email already exists")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "employer not found")
	}
	if _, ok := dErrors.From(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
