// Package handler exposes the eligibility evaluator over HTTP for the demo UI
// and for clients that hold raw profile and requirement JSON.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"jobgate/internal/eligibility"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/platform/httputil"
	"jobgate/pkg/requestcontext"
)

const maxBodyBytes = 1 << 16

type Evaluator interface {
	Evaluate(profile eligibility.ApplicantProfile, requirement eligibility.JobRequirement) (eligibility.Result, error)
	Explain(requirement eligibility.JobRequirement, result eligibility.Result) []eligibility.Detail
	Catalog() *eligibility.Catalog
}

type Handler struct {
	evaluator Evaluator
	logger    *slog.Logger
}

func New(evaluator Evaluator, logger *slog.Logger) *Handler {
	return &Handler{evaluator: evaluator, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/eligibility/evaluate", h.HandleEvaluate)
	r.Get("/eligibility/flags", h.HandleFlags)
}

type evaluateRequest struct {
	Profile     json.RawMessage `json:"profile"`
	Requirement json.RawMessage `json:"requirement"`
}

type evaluateResponse struct {
	eligibility.Result
	Details []eligibility.Detail `json:"details,omitempty"`
}

// MarshalJSON keeps the result's own encoding and appends details.
func (r evaluateResponse) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(r.Result)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	status := "NotEligible"
	if r.Eligible {
		status = "Eligible"
	}
	out["status"] = status
	if r.Details != nil {
		out["details"] = r.Details
	}
	return json.Marshal(out)
}

// HandleEvaluate runs the evaluator on raw JSON input. ?explain=true adds
// the checklist.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read request body"))
		return
	}
	var req evaluateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid json request body"))
		return
	}
	if len(req.Profile) == 0 || len(req.Requirement) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "profile and requirement are required"))
		return
	}

	profile, err := eligibility.DecodeProfile(req.Profile)
	if err != nil {
		h.writeValidation(w, r, requestID, "profile.", err)
		return
	}
	requirement, err := eligibility.DecodeRequirement(req.Requirement)
	if err != nil {
		h.writeValidation(w, r, requestID, "requirement.", err)
		return
	}
	result, err := h.evaluator.Evaluate(profile, requirement)
	if err != nil {
		h.writeValidation(w, r, requestID, "", err)
		return
	}

	resp := evaluateResponse{Result: result}
	if explain, _ := strconv.ParseBool(r.URL.Query().Get("explain")); explain {
		resp.Details = h.evaluator.Explain(requirement, result)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type flagsResponse struct {
	Flags               []eligibility.FlagDescriptor `json:"flags"`
	AlwaysDisqualifying []eligibility.FlagKey        `json:"alwaysDisqualifying"`
}

func (h *Handler) HandleFlags(w http.ResponseWriter, _ *http.Request) {
	catalog := h.evaluator.Catalog()
	httputil.WriteJSON(w, http.StatusOK, flagsResponse{
		Flags:               catalog.Descriptors(),
		AlwaysDisqualifying: catalog.AlwaysDisqualifying().Sorted(),
	})
}

func (h *Handler) writeValidation(w http.ResponseWriter, r *http.Request, requestID, prefix string, err error) {
	var verr *eligibility.ValidationError
	if !errors.As(err, &verr) {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to evaluate eligibility"))
		return
	}
	h.logger.WarnContext(r.Context(), "invalid eligibility input",
		"request_id", requestID,
		"field", prefix+verr.Field,
	)
	httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, prefix+verr.Error()))
}
