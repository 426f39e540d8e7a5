package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jobgate/internal/employers/models"
	id "jobgate/pkg/domain"
	"jobgate/pkg/platform/httputil"
	"jobgate/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, req *models.CreateEmployerRequest) (*models.Employer, error)
	Get(ctx context.Context, employerID id.EmployerID) (*models.Employer, error)
	GetByDID(ctx context.Context, did id.DID) (*models.Employer, error)
	List(ctx context.Context) ([]*models.Employer, error)
	Update(ctx context.Context, employerID id.EmployerID, req *models.UpdateEmployerRequest) (*models.Employer, error)
	Delete(ctx context.Context, employerID id.EmployerID) error
	PublicProfile(ctx context.Context, employerID id.EmployerID) (*models.PublicProfile, error)
	IssueCredential(ctx context.Context, employerID id.EmployerID, req *models.IssueCredentialRequest) (*models.IssuedCredential, error)
	RevokeCredential(ctx context.Context, employerID id.EmployerID, credentialID id.CredentialID) (*models.IssuedCredential, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/employers", h.HandleCreate)
	r.Get("/employers", h.HandleList)
	r.Get("/employers/did/{did}", h.HandleGetByDID)
	r.Get("/employers/{employerID}", h.HandleGet)
	r.Put("/employers/{employerID}", h.HandleUpdate)
	r.Delete("/employers/{employerID}", h.HandleDelete)
	r.Get("/employers/{employerID}/public", h.HandlePublicProfile)
	r.Post("/employers/{employerID}/credentials", h.HandleIssueCredential)
	r.Post("/employers/{employerID}/credentials/{credentialID}/revoke", h.HandleRevokeCredential)
}

type listResponse struct {
	Employers []*models.Employer `json:"employers"`
	Total     int                `json:"total"`
}

func employerID(w http.ResponseWriter, r *http.Request) (id.EmployerID, bool) {
	employerID, err := id.ParseEmployerID(chi.URLParam(r, "employerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return employerID, false
	}
	return employerID, true
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateEmployerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	e, err := h.service.Create(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create employer",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if all == nil {
		all = []*models.Employer{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Employers: all, Total: len(all)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	employerID, ok := employerID(w, r)
	if !ok {
		return
	}
	e, err := h.service.Get(r.Context(), employerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) HandleGetByDID(w http.ResponseWriter, r *http.Request) {
	did, err := id.ParseDID(chi.URLParam(r, "did"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.service.GetByDID(r.Context(), did)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	employerID, ok := employerID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateEmployerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	e, err := h.service.Update(ctx, employerID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	employerID, ok := employerID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), employerID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandlePublicProfile(w http.ResponseWriter, r *http.Request) {
	employerID, ok := employerID(w, r)
	if !ok {
		return
	}
	profile, err := h.service.PublicProfile(r.Context(), employerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) HandleIssueCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	employerID, ok := employerID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.IssueCredentialRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	cred, err := h.service.IssueCredential(ctx, employerID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to issue credential",
			"request_id", requestID,
			"employer_id", employerID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, cred)
}

func (h *Handler) HandleRevokeCredential(w http.ResponseWriter, r *http.Request) {
	employerID, ok := employerID(w, r)
	if !ok {
		return
	}
	credentialID, err := id.ParseCredentialID(chi.URLParam(r, "credentialID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cred, err := h.service.RevokeCredential(r.Context(), employerID, credentialID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cred)
}
