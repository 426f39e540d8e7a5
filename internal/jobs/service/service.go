package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"jobgate/internal/attestation"
	"jobgate/internal/eligibility"
	"jobgate/internal/jobs/metrics"
	"jobgate/internal/jobs/models"
	"jobgate/internal/jobs/search"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/platform/audit"
	"jobgate/pkg/platform/sentinel"
	"jobgate/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error)
	List(ctx context.Context) ([]*models.Job, error)
	Update(ctx context.Context, jobID id.JobID, fn func(*models.Job) error) (*models.Job, error)
	Delete(ctx context.Context, jobID id.JobID) error
}

// Signer signs and verifies posting attestations.
type Signer interface {
	SignJob(jobID, digest string, expiresAt time.Time) (attestation.Issued, error)
	Verify(ctx context.Context, token string) (*attestation.Claims, error)
}

// EmployerChecker confirms a posting's employer exists.
type EmployerChecker interface {
	Exists(ctx context.Context, employerID id.EmployerID) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages job postings and keeps the search index in step with the store.
type Service struct {
	store          Store
	index          search.Index
	signer         Signer
	employers      EmployerChecker
	evaluator      *eligibility.Evaluator
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(*Service)

func WithIndex(index search.Index) Option {
	return func(s *Service) { s.index = index }
}

func WithSigner(signer Signer) Option {
	return func(s *Service) { s.signer = signer }
}

func WithEmployers(employers EmployerChecker) Option {
	return func(s *Service) { s.employers = employers }
}

func WithEvaluator(evaluator *eligibility.Evaluator) Option {
	return func(s *Service) { s.evaluator = evaluator }
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

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		index:     search.NewMemory(),
		evaluator: eligibility.NewEvaluator(eligibility.DefaultCatalog),
		logger:    slog.Default(),
		tracer:    otel.Tracer("jobgate/jobs"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new posting, then signs it.
func (s *Service) Create(ctx context.Context, req *models.CreateJobRequest) (*models.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	employerID, err := id.ParseEmployerID(req.EmployerID)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmployer(ctx, employerID); err != nil {
		return nil, err
	}
	requirements, err := s.resolveRequirements(req.Requirements)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	job := &models.Job{
		ID:           id.NewJobID(),
		EmployerID:   employerID,
		Title:        req.Title,
		Company:      req.Company,
		Description:  req.Description,
		Location:     req.Location,
		Type:         req.Type,
		Salary:       req.Salary,
		Requirements: requirements,
		Skills:       req.Skills,
		PostedAt:     now,
		ExpiresAt:    req.ExpiresAt.UTC(),
		Status:       req.Status,
		UpdatedAt:    now,
	}
	if err := job.Validate(s.evaluator.Catalog()); err != nil {
		return nil, asValidation(err)
	}
	if err := s.sign(job); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, job); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create job")
	}
	s.reindex(ctx, job)

	s.emit(ctx, audit.EventJobCreated, job.ID, "")
	s.metrics.IncCreated()
	s.logger.InfoContext(ctx, "job created",
		"request_id", requestcontext.RequestID(ctx),
		"job_id", job.ID.String(),
		"employer_id", employerID.String(),
	)
	return job, nil
}

// Find loads a job without counting a view.
func (s *Service) Find(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	job, err := s.store.FindByID(ctx, jobID)
	if err != nil {
		return nil, translate(err, "failed to load job")
	}
	return job, nil
}

// Get loads a job and counts the view.
func (s *Service) Get(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	job, err := s.store.Update(ctx, jobID, func(j *models.Job) error {
		j.Views++
		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to load job")
	}
	return job, nil
}

// List returns every job, newest posting first.
func (s *Service) List(ctx context.Context) ([]*models.Job, error) {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list jobs")
	}
	return jobs, nil
}

// Reindex pushes every stored job into the search index. Used at startup,
// when the index may be behind a persistent store.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list jobs")
	}
	for _, job := range jobs {
		if err := s.index.Index(ctx, job); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to index job")
		}
	}
	return len(jobs), nil
}

// Update applies a partial update and re-signs the posting.
func (s *Service) Update(ctx context.Context, jobID id.JobID, req *models.UpdateJobRequest) (*models.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var requirements *models.Requirements
	if req.Requirements != nil {
		resolved, err := s.resolveRequirements(*req.Requirements)
		if err != nil {
			return nil, err
		}
		requirements = &resolved
	}

	now := requestcontext.Now(ctx)
	statusChanged := false
	job, err := s.store.Update(ctx, jobID, func(j *models.Job) error {
		applyUpdate(j, req, requirements)
		if req.Status != nil && *req.Status != j.Status {
			if err := j.TransitionTo(*req.Status, now); err != nil {
				return err
			}
			statusChanged = true
		}
		j.UpdatedAt = now
		if err := j.Validate(s.evaluator.Catalog()); err != nil {
			return asValidation(err)
		}
		return s.sign(j)
	})
	if err != nil {
		return nil, translate(err, "failed to update job")
	}
	s.reindex(ctx, job)

	s.emit(ctx, audit.EventJobUpdated, job.ID, "")
	if statusChanged {
		s.emit(ctx, audit.EventJobStatusChanged, job.ID, string(job.Status))
		s.metrics.IncStatusChange(string(job.Status))
	}
	return job, nil
}

// ChangeStatus moves a job along Draft→Active→Filled|Expired.
func (s *Service) ChangeStatus(ctx context.Context, jobID id.JobID, status models.Status) (*models.Job, error) {
	now := requestcontext.Now(ctx)
	job, err := s.store.Update(ctx, jobID, func(j *models.Job) error {
		return j.TransitionTo(status, now)
	})
	if err != nil {
		return nil, translate(err, "failed to change job status")
	}
	s.reindex(ctx, job)
	s.emit(ctx, audit.EventJobStatusChanged, job.ID, string(status))
	s.metrics.IncStatusChange(string(status))
	return job, nil
}

func (s *Service) Delete(ctx context.Context, jobID id.JobID) error {
	if err := s.store.Delete(ctx, jobID); err != nil {
		return translate(err, "failed to delete job")
	}
	if err := s.index.Remove(ctx, jobID); err != nil {
		s.logger.WarnContext(ctx, "failed to remove job from search index", "job_id", jobID.String(), "error", err)
	}
	s.emit(ctx, audit.EventJobDeleted, jobID, "")
	return nil
}

// Search returns active jobs matching q, newest first. Counters are read
// from the store so results never show stale view or application counts.
func (s *Service) Search(ctx context.Context, q models.SearchQuery) ([]*models.Job, error) {
	ctx, span := s.tracer.Start(ctx, "jobs.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.title", q.Title),
		attribute.String("search.location", q.Location),
		attribute.Int("search.skills", len(q.Skills)),
	)

	start := time.Now()
	hits, err := s.index.Search(ctx, q)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "job search unavailable")
	}

	jobs := make([]*models.Job, 0, len(hits))
	for _, hit := range hits {
		job, err := s.store.FindByID(ctx, hit.ID)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job")
		}
		if q.Matches(job) {
			jobs = append(jobs, job)
		}
	}
	span.SetAttributes(attribute.Int("search.results", len(jobs)))
	s.metrics.ObserveSearch(time.Since(start), len(jobs))
	return jobs, nil
}

// IncrementApplications counts a new application against the job.
func (s *Service) IncrementApplications(ctx context.Context, jobID id.JobID) error {
	_, err := s.store.Update(ctx, jobID, func(j *models.Job) error {
		j.IncrementApplications()
		return nil
	})
	return translate(err, "failed to update application count")
}

// DecrementApplications floors at zero.
func (s *Service) DecrementApplications(ctx context.Context, jobID id.JobID) error {
	_, err := s.store.Update(ctx, jobID, func(j *models.Job) error {
		j.DecrementApplications()
		return nil
	})
	return translate(err, "failed to update application count")
}

// Requirement returns the evaluator input for a job with the configured
// catalog's always-disqualifying policy spelled out.
func (s *Service) Requirement(ctx context.Context, jobID id.JobID) (eligibility.JobRequirement, error) {
	job, err := s.Find(ctx, jobID)
	if err != nil {
		return eligibility.JobRequirement{}, err
	}
	req := job.Requirement()
	req.AlwaysDisqualifying = s.evaluator.Catalog().AlwaysDisqualifying()
	return req, nil
}

// RequiredCredentials lists the credential labels a job's requirement implies.
func (s *Service) RequiredCredentials(job *models.Job) []string {
	return s.evaluator.RequiredCredentials(job.Requirement())
}

// VerifyPosting checks that a job's stored content still matches its
// signed attestation. A failed check is a normal result, not an error.
func (s *Service) VerifyPosting(ctx context.Context, jobID id.JobID) (*models.PostingVerification, error) {
	job, err := s.Find(ctx, jobID)
	if err != nil {
		return nil, err
	}
	result := &models.PostingVerification{JobID: job.ID}

	if s.signer == nil || job.Signature == "" {
		return s.rejectPosting(ctx, result, "unsigned", "posting is not signed"), nil
	}
	claims, err := s.signer.Verify(ctx, job.Signature)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnavailable) {
			return nil, err
		}
		msg := "invalid signature"
		if de, ok := dErrors.From(err); ok {
			msg = de.Message
		}
		return s.rejectPosting(ctx, result, "invalid_signature", msg), nil
	}
	digest, err := attestation.Digest(job.Content())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to digest posting")
	}
	if claims.Kind != attestation.KindJobPosting || claims.Subject != job.ID.String() || claims.Digest != digest {
		return s.rejectPosting(ctx, result, "digest_mismatch", "posting content does not match its signature"), nil
	}

	result.Valid = true
	result.Issuer = claims.Issuer
	result.Digest = digest
	return result, nil
}

func (s *Service) rejectPosting(ctx context.Context, result *models.PostingVerification, reason, msg string) *models.PostingVerification {
	result.Reason = msg
	s.metrics.IncInvalidPosting(reason)
	s.emit(ctx, audit.EventSignatureInvalid, result.JobID, msg)
	return result
}

func (s *Service) sign(job *models.Job) error {
	if s.signer == nil {
		return nil
	}
	digest, err := attestation.Digest(job.Content())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to digest posting")
	}
	issued, err := s.signer.SignJob(job.ID.String(), digest, job.ExpiresAt)
	if err != nil {
		return err
	}
	job.Signature = issued.Token
	return nil
}

// resolveRequirements merges credential labels and explicit disqualifiers
// into the posting's requirement.
func (s *Service) resolveRequirements(in models.RequirementsInput) (models.Requirements, error) {
	req, err := s.evaluator.RequirementFromCredentials(in.MinScore, in.RequiredCredentials)
	if err != nil {
		var verr *eligibility.ValidationError
		if errors.As(err, &verr) {
			return models.Requirements{}, dErrors.New(dErrors.CodeValidation, "requirements."+verr.Error())
		}
		return models.Requirements{}, err
	}
	for key, relevant := range in.Disqualifiers {
		if relevant {
			req.RelevantDisqualifiers[key] = true
		} else if _, ok := req.RelevantDisqualifiers[key]; !ok {
			req.RelevantDisqualifiers[key] = false
		}
	}
	return models.Requirements{MinScore: req.MinScore, Disqualifiers: req.RelevantDisqualifiers}, nil
}

func (s *Service) checkEmployer(ctx context.Context, employerID id.EmployerID) error {
	if s.employers == nil {
		return nil
	}
	ok, err := s.employers.Exists(ctx, employerID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load employer")
	}
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "employerId does not reference a known employer")
	}
	return nil
}

func (s *Service) reindex(ctx context.Context, job *models.Job) {
	if err := s.index.Index(ctx, job); err != nil {
		s.logger.WarnContext(ctx, "failed to index job", "job_id", job.ID.String(), "error", err)
	}
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, jobID id.JobID, decision string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:   action,
		Subject:  audit.Subject("job", jobID),
		Decision: decision,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", string(action), "error", err)
	}
}

func applyUpdate(j *models.Job, req *models.UpdateJobRequest, requirements *models.Requirements) {
	if req.Title != nil {
		j.Title = *req.Title
	}
	if req.Company != nil {
		j.Company = *req.Company
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.Location != nil {
		j.Location = *req.Location
	}
	if req.Type != nil {
		j.Type = *req.Type
	}
	if req.Salary != nil {
		j.Salary = *req.Salary
	}
	if requirements != nil {
		j.Requirements = *requirements
	}
	if req.Skills != nil {
		j.Skills = *req.Skills
	}
	if req.ExpiresAt != nil {
		j.ExpiresAt = req.ExpiresAt.UTC()
	}
}

// translate maps store errors onto domain codes; coded errors pass through.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.From(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "job not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func asValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		if de, ok := dErrors.From(err); ok {
			return dErrors.New(dErrors.CodeValidation, de.Message)
		}
	}
	return err
}
