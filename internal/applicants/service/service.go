package service

import (
	"context"
	"errors"
	"log/slog"

	"jobgate/internal/applicants/models"
	"jobgate/internal/applicants/store"
	"jobgate/internal/eligibility"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/platform/audit"
	"jobgate/pkg/platform/sentinel"
	"jobgate/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, a *models.Applicant) error
	FindByID(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error)
	FindByDID(ctx context.Context, did id.DID) (*models.Applicant, error)
	List(ctx context.Context) ([]*models.Applicant, error)
	Update(ctx context.Context, applicantID id.ApplicantID, fn func(*models.Applicant) error) (*models.Applicant, error)
	Delete(ctx context.Context, applicantID id.ApplicantID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages applicant records and the credentials they hold.
type Service struct {
	store          Store
	catalog        *eligibility.Catalog
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithCatalog(catalog *eligibility.Catalog) Option {
	return func(s *Service) { s.catalog = catalog }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: eligibility.DefaultCatalog,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, req *models.CreateApplicantRequest) (*models.Applicant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	profile := req.Profile.Profile()
	if err := s.checkFlags(profile.Disqualifiers); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	a := &models.Applicant{
		ID:          id.NewApplicantID(),
		Name:        req.Name,
		DID:         id.DID(req.DID),
		Email:       req.Email,
		Phone:       req.Phone,
		Profile:     profile,
		Skills:      orEmpty(req.Skills),
		Experience:  orEmpty(req.Experience),
		Education:   orEmpty(req.Education),
		Credentials: []models.Credential{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, translate(err, "failed to create applicant")
	}
	s.emit(ctx, audit.EventApplicantCreated, a.ID, "")
	s.logger.InfoContext(ctx, "applicant created",
		"request_id", requestcontext.RequestID(ctx),
		"applicant_id", a.ID.String(),
	)
	return a, nil
}

func (s *Service) Get(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error) {
	a, err := s.store.FindByID(ctx, applicantID)
	if err != nil {
		return nil, translate(err, "failed to load applicant")
	}
	return a, nil
}

func (s *Service) GetByDID(ctx context.Context, did id.DID) (*models.Applicant, error) {
	a, err := s.store.FindByDID(ctx, did)
	if err != nil {
		return nil, translate(err, "failed to load applicant")
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Applicant, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applicants")
	}
	return all, nil
}

func (s *Service) Update(ctx context.Context, applicantID id.ApplicantID, req *models.UpdateApplicantRequest) (*models.Applicant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var profile *models.Profile
	if req.Profile != nil {
		p := req.Profile.Profile()
		if err := s.checkFlags(p.Disqualifiers); err != nil {
			return nil, err
		}
		profile = &p
	}

	now := requestcontext.Now(ctx)
	a, err := s.store.Update(ctx, applicantID, func(a *models.Applicant) error {
		if req.Name != nil {
			a.Name = *req.Name
		}
		if req.Email != nil {
			a.Email = *req.Email
		}
		if req.Phone != nil {
			a.Phone = *req.Phone
		}
		if profile != nil {
			a.Profile = *profile
		}
		if req.Skills != nil {
			a.Skills = *req.Skills
		}
		if req.Experience != nil {
			a.Experience = *req.Experience
		}
		if req.Education != nil {
			a.Education = *req.Education
		}
		a.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to update applicant")
	}
	s.emit(ctx, audit.EventApplicantUpdated, a.ID, "")
	return a, nil
}

func (s *Service) Delete(ctx context.Context, applicantID id.ApplicantID) error {
	if err := s.store.Delete(ctx, applicantID); err != nil {
		return translate(err, "failed to delete applicant")
	}
	s.emit(ctx, audit.EventApplicantDeleted, applicantID, "")
	return nil
}

// PublicProfile returns the applicant without contact details, score or flags.
func (s *Service) PublicProfile(ctx context.Context, applicantID id.ApplicantID) (*models.PublicProfile, error) {
	a, err := s.Get(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	public := a.Public()
	return &public, nil
}

// Profile returns the evaluator input for an applicant.
func (s *Service) Profile(ctx context.Context, applicantID id.ApplicantID) (eligibility.ApplicantProfile, error) {
	a, err := s.Get(ctx, applicantID)
	if err != nil {
		return eligibility.ApplicantProfile{}, err
	}
	return a.EligibilityProfile(), nil
}

// AddCredential records a credential the applicant obtained elsewhere.
func (s *Service) AddCredential(ctx context.Context, applicantID id.ApplicantID, req *models.AddCredentialRequest) (*models.Credential, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	issuedAt := req.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = requestcontext.Now(ctx)
	}
	cred := models.Credential{
		ID:        id.NewCredentialID(),
		Type:      req.Type,
		Issuer:    id.DID(req.Issuer),
		IssuedAt:  issuedAt.UTC(),
		ExpiresAt: req.ExpiresAt,
		Status:    models.CredentialActive,
	}
	if _, err := s.store.Update(ctx, applicantID, func(a *models.Applicant) error {
		a.Credentials = append(a.Credentials, cred)
		return nil
	}); err != nil {
		return nil, translate(err, "failed to add credential")
	}
	s.emit(ctx, audit.EventCredentialAdded, applicantID, string(cred.Type))
	return &cred, nil
}

// ReceiveCredential stores a credential issued through this service to the
// applicant identified by subject.
func (s *Service) ReceiveCredential(ctx context.Context, subject id.DID, cred models.Credential) error {
	a, err := s.GetByDID(ctx, subject)
	if err != nil {
		return err
	}
	_, err = s.store.Update(ctx, a.ID, func(a *models.Applicant) error {
		if _, exists := a.Credential(cred.ID); exists {
			return dErrors.New(dErrors.CodeConflict, "credential already held")
		}
		a.Credentials = append(a.Credentials, cred)
		return nil
	})
	if err != nil {
		return translate(err, "failed to store credential")
	}
	s.emit(ctx, audit.EventCredentialAdded, a.ID, string(cred.Type))
	return nil
}

// RevokeCredential marks a held credential revoked. Unknown credentials are
// ignored so that revocation of credentials never delivered still succeeds.
func (s *Service) RevokeCredential(ctx context.Context, subject id.DID, credentialID id.CredentialID) error {
	a, err := s.GetByDID(ctx, subject)
	if err != nil {
		return err
	}
	_, err = s.store.Update(ctx, a.ID, func(a *models.Applicant) error {
		if cred, ok := a.Credential(credentialID); ok {
			cred.Status = models.CredentialRevoked
		}
		return nil
	})
	return translate(err, "failed to revoke credential")
}

func (s *Service) checkFlags(flags eligibility.FlagSet) error {
	for key := range flags {
		if !s.catalog.Known(key) {
			return dErrors.New(dErrors.CodeValidation, "profile.disqualifiers contains unknown flag "+string(key))
		}
	}
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, applicantID id.ApplicantID, decision string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:   action,
		Subject:  audit.Subject("applicant", applicantID),
		Decision: decision,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", string(action), "error", err)
	}
}

func translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "applicant not found")
	case errors.Is(err, store.ErrDIDTaken):
		return dErrors.New(dErrors.CodeConflict, "an applicant with this did already exists")
	case errors.Is(err, store.ErrEmailTaken):
		return dErrors.New(dErrors.CodeConflict, "an applicant with this email already exists")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "did cannot be changed")
	}
	if _, ok := dErrors.From(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
