package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jobgate/internal/applicants/models"
	id "jobgate/pkg/domain"
	"jobgate/pkg/platform/httputil"
	"jobgate/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, req *models.CreateApplicantRequest) (*models.Applicant, error)
	Get(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error)
	GetByDID(ctx context.Context, did id.DID) (*models.Applicant, error)
	List(ctx context.Context) ([]*models.Applicant, error)
	Update(ctx context.Context, applicantID id.ApplicantID, req *models.UpdateApplicantRequest) (*models.Applicant, error)
	Delete(ctx context.Context, applicantID id.ApplicantID) error
	PublicProfile(ctx context.Context, applicantID id.ApplicantID) (*models.PublicProfile, error)
	AddCredential(ctx context.Context, applicantID id.ApplicantID, req *models.AddCredentialRequest) (*models.Credential, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/applicants", h.HandleCreate)
	r.Get("/applicants", h.HandleList)
	r.Get("/applicants/did/{did}", h.HandleGetByDID)
	r.Get("/applicants/{applicantID}", h.HandleGet)
	r.Put("/applicants/{applicantID}", h.HandleUpdate)
	r.Delete("/applicants/{applicantID}", h.HandleDelete)
	r.Get("/applicants/{applicantID}/public", h.HandlePublicProfile)
	r.Post("/applicants/{applicantID}/credentials", h.HandleAddCredential)
}

type listResponse struct {
	Applicants []*models.Applicant `json:"applicants"`
	Total      int                 `json:"total"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateApplicantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	a, err := h.service.Create(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create applicant",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if all == nil {
		all = []*models.Applicant{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Applicants: all, Total: len(all)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	a, err := h.service.Get(r.Context(), applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) HandleGetByDID(w http.ResponseWriter, r *http.Request) {
	did, err := id.ParseDID(chi.URLParam(r, "did"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	a, err := h.service.GetByDID(r.Context(), did)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateApplicantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	a, err := h.service.Update(ctx, applicantID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), applicantID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandlePublicProfile(w http.ResponseWriter, r *http.Request) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	profile, err := h.service.PublicProfile(r.Context(), applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) HandleAddCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.AddCredentialRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	cred, err := h.service.AddCredential(ctx, applicantID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, cred)
}
