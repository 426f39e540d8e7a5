package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jobgate/internal/applications/models"
	"jobgate/internal/eligibility"
	id "jobgate/pkg/domain"
	"jobgate/pkg/platform/httputil"
	"jobgate/pkg/requestcontext"
)

type Service interface {
	Apply(ctx context.Context, req *models.ApplyRequest) (*models.Application, error)
	Get(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error)
	List(ctx context.Context) ([]*models.Application, error)
	ListByJob(ctx context.Context, jobID id.JobID) ([]*models.Application, error)
	ListByApplicant(ctx context.Context, applicantID id.ApplicantID) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, applicationID id.ApplicationID, req *models.UpdateStatusRequest) (*models.Application, error)
	Withdraw(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error)
	Delete(ctx context.Context, applicationID id.ApplicationID) error
	Verify(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error)
	CheckEligibility(ctx context.Context, req *models.ApplyRequest) (*models.EligibilityCheck, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.HandleApply)
	r.Get("/applications", h.HandleList)
	r.Post("/applications/check", h.HandleCheck)
	r.Get("/applications/job/{jobID}", h.HandleListByJob)
	r.Get("/applications/applicant/{applicantID}", h.HandleListByApplicant)
	r.Get("/applications/{applicationID}", h.HandleGet)
	r.Delete("/applications/{applicationID}", h.HandleDelete)
	r.Post("/applications/{applicationID}/verify", h.HandleVerify)
	r.Post("/applications/{applicationID}/status", h.HandleUpdateStatus)
	r.Post("/applications/{applicationID}/withdraw", h.HandleWithdraw)
}

type listResponse struct {
	Applications []*models.Application `json:"applications"`
	Total        int                   `json:"total"`
}

// verifyResponse surfaces the verdict next to the updated application.
type verifyResponse struct {
	Status      models.Outcome          `json:"status"`
	Reason      string                  `json:"reason,omitempty"`
	FailureKind eligibility.FailureKind `json:"failureKind,omitempty"`
	Attestation string                  `json:"attestation,omitempty"`
	Application *models.Application     `json:"application"`
}

func applicationID(w http.ResponseWriter, r *http.Request) (id.ApplicationID, bool) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return applicationID, false
	}
	return applicationID, true
}

func writeList(w http.ResponseWriter, apps []*models.Application) {
	if apps == nil {
		apps = []*models.Application{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Applications: apps, Total: len(apps)})
}

func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ApplyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	app, err := h.service.Apply(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to submit application",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, app)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, apps)
}

func (h *Handler) HandleListByJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	apps, err := h.service.ListByJob(r.Context(), jobID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, apps)
}

func (h *Handler) HandleListByApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	apps, err := h.service.ListByApplicant(r.Context(), applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, apps)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := applicationID(w, r)
	if !ok {
		return
	}
	app, err := h.service.Get(r.Context(), applicationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := applicationID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), applicationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	applicationID, ok := applicationID(w, r)
	if !ok {
		return
	}
	app, err := h.service.Verify(ctx, applicationID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to verify eligibility",
			"request_id", requestID,
			"application_id", applicationID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := verifyResponse{Application: app, Attestation: app.Attestation.Token}
	if v := app.Verification; v != nil {
		resp.Status = v.Outcome
		resp.Reason = v.Reason
		resp.FailureKind = v.FailureKind
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	applicationID, ok := applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	app, err := h.service.UpdateStatus(ctx, applicationID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := applicationID(w, r)
	if !ok {
		return
	}
	app, err := h.service.Withdraw(r.Context(), applicationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ApplyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	check, err := h.service.CheckEligibility(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, check)
}
