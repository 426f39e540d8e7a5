package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jobgate/internal/jobs/models"
	id "jobgate/pkg/domain"
	"jobgate/pkg/platform/httputil"
	"jobgate/pkg/requestcontext"
)

// Service defines the job operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req *models.CreateJobRequest) (*models.Job, error)
	Get(ctx context.Context, jobID id.JobID) (*models.Job, error)
	List(ctx context.Context) ([]*models.Job, error)
	Update(ctx context.Context, jobID id.JobID, req *models.UpdateJobRequest) (*models.Job, error)
	ChangeStatus(ctx context.Context, jobID id.JobID, status models.Status) (*models.Job, error)
	Delete(ctx context.Context, jobID id.JobID) error
	Search(ctx context.Context, q models.SearchQuery) ([]*models.Job, error)
	VerifyPosting(ctx context.Context, jobID id.JobID) (*models.PostingVerification, error)
	RequiredCredentials(job *models.Job) []string
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts job endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/jobs", h.HandleCreate)
	r.Get("/jobs", h.HandleList)
	r.Get("/jobs/search", h.HandleSearch)
	r.Get("/jobs/{jobID}", h.HandleGet)
	r.Put("/jobs/{jobID}", h.HandleUpdate)
	r.Delete("/jobs/{jobID}", h.HandleDelete)
	r.Post("/jobs/{jobID}/status", h.HandleChangeStatus)
	r.Get("/jobs/{jobID}/verify-posting", h.HandleVerifyPosting)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateJobRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	job, err := h.service.Create(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create job",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, h.toResponse(job))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.toListResponse(jobs))
}

// HandleSearch handles GET /jobs/search?title=&location=&type=&minSalary=&skills=a,b
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := models.ParseSearchQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	jobs, err := h.service.Search(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "job search failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.toListResponse(jobs))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	job, err := h.service.Get(r.Context(), jobID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.toResponse(job))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateJobRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	job, err := h.service.Update(ctx, jobID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update job",
			"request_id", requestID,
			"job_id", jobID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.toResponse(job))
}

func (h *Handler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.StatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	job, err := h.service.ChangeStatus(ctx, jobID, req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.toResponse(job))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), jobID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleVerifyPosting reports whether the posting still matches its
// signed attestation. An invalid posting is a 200 with valid=false.
func (h *Handler) HandleVerifyPosting(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.VerifyPosting(r.Context(), jobID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
