// Package handler lets third parties check attestations issued by this
// service and fetch the issuer key.
package handler

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"jobgate/internal/attestation"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/platform/httputil"
	"jobgate/pkg/requestcontext"
)

type Verifier interface {
	Verify(ctx context.Context, token string) (*attestation.Claims, error)
	PublicKey() ed25519.PublicKey
	Issuer() string
}

type Handler struct {
	verifier Verifier
	logger   *slog.Logger
}

func New(verifier Verifier, logger *slog.Logger) *Handler {
	return &Handler{verifier: verifier, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/attestations/verify", h.HandleVerify)
	r.Get("/attestations/issuer", h.HandleIssuer)
}

type verifyResponse struct {
	Valid  bool                `json:"valid"`
	Claims *attestation.Claims `json:"claims"`
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "token query parameter is required"))
		return
	}
	claims, err := h.verifier.Verify(ctx, token)
	if err != nil {
		h.logger.InfoContext(ctx, "attestation rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verifyResponse{Valid: true, Claims: claims})
}

type issuerResponse struct {
	Issuer    string `json:"issuer"`
	Algorithm string `json:"alg"`
	PublicKey string `json:"publicKey"`
}

// HandleIssuer returns the Ed25519 public key, base64url without padding.
func (h *Handler) HandleIssuer(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, issuerResponse{
		Issuer:    h.verifier.Issuer(),
		Algorithm: "EdDSA",
		PublicKey: base64.RawURLEncoding.EncodeToString(h.verifier.PublicKey()),
	})
}
