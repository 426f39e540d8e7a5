package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"jobgate/internal/applications/metrics"
	"jobgate/internal/applications/models"
	applicantmodels "jobgate/internal/applicants/models"
	"jobgate/internal/attestation"
	"jobgate/internal/eligibility"
	jobmodels "jobgate/internal/jobs/models"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/platform/audit"
	"jobgate/pkg/platform/sentinel"
	"jobgate/pkg/requestcontext"
)

const defaultFetchTimeout = 5 * time.Second

type Store interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error)
	List(ctx context.Context) ([]*models.Application, error)
	ListByJob(ctx context.Context, jobID id.JobID) ([]*models.Application, error)
	ListByApplicant(ctx context.Context, applicantID id.ApplicantID) ([]*models.Application, error)
	Update(ctx context.Context, applicationID id.ApplicationID, fn func(*models.Application) error) (*models.Application, error)
	Delete(ctx context.Context, applicationID id.ApplicationID) error
}

// Jobs is the slice of the jobs module applications depend on.
type Jobs interface {
	Find(ctx context.Context, jobID id.JobID) (*jobmodels.Job, error)
	IncrementApplications(ctx context.Context, jobID id.JobID) error
	DecrementApplications(ctx context.Context, jobID id.JobID) error
}

type Applicants interface {
	Get(ctx context.Context, applicantID id.ApplicantID) (*applicantmodels.Applicant, error)
}

// Signer issues and revokes eligibility attestations.
type Signer interface {
	SignEligibility(subject, audience string, result eligibility.Result) (attestation.Issued, error)
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	jobs           Jobs
	applicants     Applicants
	signer         Signer
	evaluator      *eligibility.Evaluator
	fetchTimeout   time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(*Service)

func WithSigner(signer Signer) Option {
	return func(s *Service) { s.signer = signer }
}

func WithEvaluator(evaluator *eligibility.Evaluator) Option {
	return func(s *Service) { s.evaluator = evaluator }
}

func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

func New(store Store, jobs Jobs, applicants Applicants, opts ...Option) *Service {
	s := &Service{
		store:        store,
		jobs:         jobs,
		applicants:   applicants,
		evaluator:    eligibility.NewEvaluator(eligibility.DefaultCatalog),
		fetchTimeout: defaultFetchTimeout,
		logger:       slog.Default(),
		tracer:       otel.Tracer("jobgate/applications"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply records an applicant's application to an active job. Each applicant
// may apply to a job once.
func (s *Service) Apply(ctx context.Context, req *models.ApplyRequest) (*models.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	jobID, applicantID := req.IDs()

	records, err := s.fetch(ctx, jobID, applicantID)
	if err != nil {
		return nil, err
	}
	if !records.job.IsActive() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "job is not accepting applications")
	}

	app := models.NewApplication(jobID, applicantID, req.Notes, requestcontext.Now(ctx))
	if err := s.store.Create(ctx, app); err != nil {
		return nil, translate(err, "failed to create application")
	}
	if err := s.jobs.IncrementApplications(ctx, jobID); err != nil {
		if delErr := s.store.Delete(ctx, app.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back application",
				"application_id", app.ID.String(),
				"error", delErr,
			)
		}
		return nil, err
	}

	s.metrics.IncSubmitted()
	s.emit(ctx, audit.EventApplicationSubmitted, app.ID, "", "")
	s.logger.InfoContext(ctx, "application submitted",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID.String(),
		"job_id", jobID.String(),
	)
	return app, nil
}

func (s *Service) Get(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	app, err := s.store.FindByID(ctx, applicationID)
	if err != nil {
		return nil, translate(err, "failed to load application")
	}
	return app, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Application, error) {
	apps, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

func (s *Service) ListByJob(ctx context.Context, jobID id.JobID) ([]*models.Application, error) {
	if _, err := s.jobs.Find(ctx, jobID); err != nil {
		return nil, err
	}
	apps, err := s.store.ListByJob(ctx, jobID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

func (s *Service) ListByApplicant(ctx context.Context, applicantID id.ApplicantID) ([]*models.Application, error) {
	if _, err := s.applicants.Get(ctx, applicantID); err != nil {
		return nil, err
	}
	apps, err := s.store.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// UpdateStatus applies a reviewer decision. Verified is reserved for Verify.
func (s *Service) UpdateStatus(ctx context.Context, applicationID id.ApplicationID, req *models.UpdateStatusRequest) (*models.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var revoke models.Attestation
	app, err := s.store.Update(ctx, applicationID, func(a *models.Application) error {
		if err := a.TransitionTo(req.Status, now); err != nil {
			return err
		}
		if req.Notes != nil {
			a.Notes = *req.Notes
		}
		if req.Status == models.StatusRejected || req.Status == models.StatusWithdrawn {
			revoke = a.Attestation
			if revoke.Revocable() {
				a.Attestation.Status = models.AttestationRevoked
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to update application")
	}
	s.revoke(ctx, app.ID, revoke)

	s.metrics.IncStatusChange(string(app.Status))
	s.emit(ctx, audit.EventApplicationStatusChanged, app.ID, string(app.Status), "")
	return app, nil
}

// Withdraw is the applicant's own exit from the process.
func (s *Service) Withdraw(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	app, err := s.UpdateStatus(ctx, applicationID, &models.UpdateStatusRequest{Status: models.StatusWithdrawn})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, audit.EventApplicationWithdrawn, app.ID, "", "")
	return app, nil
}

// Delete removes the application, releases the job's application count and
// revokes any issued attestation.
func (s *Service) Delete(ctx context.Context, applicationID id.ApplicationID) error {
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, applicationID); err != nil {
		return translate(err, "failed to delete application")
	}
	s.revoke(ctx, app.ID, app.Attestation)
	if err := s.jobs.DecrementApplications(ctx, app.JobID); err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
		s.logger.WarnContext(ctx, "failed to decrement job applications",
			"job_id", app.JobID.String(),
			"error", err,
		)
	}
	s.emit(ctx, audit.EventApplicationDeleted, app.ID, "", "")
	return nil
}

// Verify evaluates the applicant against the job's requirement, records the
// outcome on the application and issues a signed eligibility attestation.
// Not eligible is a normal outcome that moves the application to Rejected.
func (s *Service) Verify(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "applications.Verify",
		trace.WithAttributes(attribute.String("application.id", applicationID.String())),
	)
	defer span.End()
	start := time.Now()

	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if !app.CanVerify() {
		return nil, s.fail(span, dErrors.New(dErrors.CodeInvariantViolation,
			"application in status "+string(app.Status)+" cannot be verified"))
	}

	records, err := s.fetch(ctx, app.JobID, app.ApplicantID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	result, err := s.evaluate(records)
	if err != nil {
		return nil, s.fail(span, err)
	}

	now := requestcontext.Now(ctx)
	issued, err := s.sign(app, result)
	if err != nil {
		return nil, s.fail(span, err)
	}

	var previous models.Attestation
	updated, err := s.store.Update(ctx, applicationID, func(a *models.Application) error {
		if err := a.RecordVerification(result, now); err != nil {
			return err
		}
		previous = a.Attestation
		if issued != nil {
			expires := issued.ExpiresAt
			a.Attestation = models.Attestation{
				Token:     issued.Token,
				ID:        issued.ID,
				Status:    models.AttestationIssued,
				IssuedAt:  &now,
				ExpiresAt: &expires,
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, translate(err, "failed to record verification"))
	}
	if issued != nil {
		s.revoke(ctx, updated.ID, previous)
	}

	v := updated.Verification
	span.SetAttributes(
		attribute.String("eligibility.outcome", string(v.Outcome)),
		attribute.String("eligibility.failure_kind", string(v.FailureKind)),
	)
	s.metrics.ObserveVerification(string(v.Outcome), string(v.FailureKind), time.Since(start))
	s.emit(ctx, audit.EventEligibilityVerified, updated.ID, string(v.Outcome), string(v.FailureKind))
	s.logger.InfoContext(ctx, "eligibility verified",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", updated.ID.String(),
		"outcome", string(v.Outcome),
	)
	return updated, nil
}

// CheckEligibility evaluates an applicant against a job without recording
// anything. The explanation is meant for the applicant.
func (s *Service) CheckEligibility(ctx context.Context, req *models.ApplyRequest) (*models.EligibilityCheck, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	jobID, applicantID := req.IDs()

	records, err := s.fetch(ctx, jobID, applicantID)
	if err != nil {
		return nil, err
	}
	result, err := s.evaluate(records)
	if err != nil {
		return nil, err
	}

	requirement := records.job.Requirement()
	v := models.NewVerification(result, requestcontext.Now(ctx))
	check := &models.EligibilityCheck{
		JobID:               jobID,
		ApplicantID:         applicantID,
		Outcome:             v.Outcome,
		Eligible:            result.Eligible,
		FailureKind:         v.FailureKind,
		Reason:              v.Reason,
		Details:             s.evaluator.Explain(requirement, result),
		RequiredCredentials: s.evaluator.RequiredCredentials(requirement),
	}
	if s.auditPublisher != nil {
		if err := s.auditPublisher.Emit(ctx, audit.Event{
			Action:   audit.EventEligibilityChecked,
			Subject:  audit.Subject("applicant", applicantID),
			Decision: string(v.Outcome),
			Reason:   string(v.FailureKind),
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to emit audit event", "error", err)
		}
	}
	return check, nil
}

func (s *Service) evaluate(records *fetched) (eligibility.Result, error) {
	result, err := s.evaluator.Evaluate(records.applicant.EligibilityProfile(), records.job.Requirement())
	if err != nil {
		var verr *eligibility.ValidationError
		if errors.As(err, &verr) {
			return eligibility.Result{}, dErrors.New(dErrors.CodeValidation, verr.Error())
		}
		return eligibility.Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to evaluate eligibility")
	}
	return result, nil
}

func (s *Service) sign(app *models.Application, result eligibility.Result) (*attestation.Issued, error) {
	if s.signer == nil {
		return nil, nil
	}
	issued, err := s.signer.SignEligibility(app.ID.String(), app.JobID.String(), result)
	if err != nil {
		return nil, err
	}
	return &issued, nil
}

func (s *Service) revoke(ctx context.Context, applicationID id.ApplicationID, att models.Attestation) {
	if s.signer == nil || !att.Revocable() {
		return
	}
	if err := s.signer.Revoke(ctx, att.ID, *att.ExpiresAt); err != nil {
		s.logger.WarnContext(ctx, "failed to revoke eligibility attestation",
			"application_id", applicationID.String(),
			"error", err,
		)
		return
	}
	s.emit(ctx, audit.EventAttestationRevoked, applicationID, "", "")
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, applicationID id.ApplicationID, decision, reason string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:   action,
		Subject:  audit.Subject("application", applicationID),
		Decision: decision,
		Reason:   reason,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", string(action), "error", err)
	}
}

func translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "application already exists")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	if _, ok := dErrors.From(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
