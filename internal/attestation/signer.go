// Package attestation issues and verifies signed statements about job
// postings, eligibility outcomes and employer-issued credentials.
//
// Attestations are EdDSA JWTs. The signing key is derived from a configured
// seed, so every replica shares one issuer identity without a key file.
package attestation

import (
	"context"
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jobgate/internal/eligibility"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/platform/sentinel"
)

// Issued is a freshly signed attestation.
type Issued struct {
	Token     string    `json:"token"`
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Signer struct {
	key         ed25519.PrivateKey
	public      ed25519.PublicKey
	issuer      string
	ttl         time.Duration
	revocations RevocationList
	clock       Clock
	metrics     *Metrics
}

type Option func(*Signer)

func WithTTL(ttl time.Duration) Option {
	return func(s *Signer) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithRevocations(list RevocationList) Option {
	return func(s *Signer) {
		if list != nil {
			s.revocations = list
		}
	}
}

func WithClock(clock Clock) Option {
	return func(s *Signer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Signer) {
		s.metrics = m
	}
}

// NewSigner derives the key from seed. Defaults: 24h TTL, in-memory
// revocation list, wall clock.
func NewSigner(seed []byte, issuer string, opts ...Option) (*Signer, error) {
	if issuer == "" {
		return nil, errors.New("attestation issuer is required")
	}
	key, err := DeriveKey(seed)
	if err != nil {
		return nil, err
	}
	s := &Signer{
		key:    key,
		public: key.Public().(ed25519.PublicKey),
		issuer: issuer,
		ttl:    24 * time.Hour,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.revocations == nil {
		s.revocations = NewMemoryRevocations(s.clock)
	}
	return s, nil
}

func (s *Signer) PublicKey() ed25519.PublicKey { return s.public }

func (s *Signer) Issuer() string { return s.issuer }

// SignJob vouches that a posting with the given digest was published by
// this service. The attestation expires with the posting.
func (s *Signer) SignJob(jobID, digest string, expiresAt time.Time) (Issued, error) {
	return s.sign(jobID, Claims{Kind: KindJobPosting, Digest: digest}, nil, expiresAt)
}

// SignEligibility vouches for an evaluation outcome of subject (the
// application) against audience (the job).
func (s *Signer) SignEligibility(subject, audience string, result eligibility.Result) (Issued, error) {
	eligible := result.Eligible
	claims := Claims{Kind: KindEligibility, Eligible: &eligible}
	if result.Reason != nil {
		claims.FailureKind = string(result.Reason.Kind())
	}
	return s.sign(subject, claims, []string{audience}, time.Time{})
}

// SignCredential vouches that credentialID of credentialType was issued to subjectDID.
func (s *Signer) SignCredential(credentialID, credentialType, subjectDID string) (Issued, error) {
	return s.sign(credentialID, Claims{
		Kind:           KindCredential,
		CredentialType: credentialType,
		SubjectDID:     subjectDID,
	}, nil, time.Time{})
}

func (s *Signer) sign(subject string, claims Claims, audience []string, expiresAt time.Time) (Issued, error) {
	now := s.clock()
	if expiresAt.IsZero() {
		expiresAt = now.Add(s.ttl)
	}
	jti := uuid.NewString()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		Audience:  audience,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.key)
	if err != nil {
		return Issued{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign attestation")
	}
	s.metrics.IncSigned(claims.Kind)
	return Issued{Token: token, ID: jti, ExpiresAt: expiresAt.UTC()}, nil
}

// Verify checks signature, issuer, validity window and revocation.
func (s *Signer) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.public, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.metrics.IncRejected("expired")
			return nil, dErrors.Wrap(sentinel.ErrExpired, dErrors.CodeUnauthorized, "attestation has expired")
		}
		s.metrics.IncRejected("invalid")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid attestation")
	}
	if !parsed.Valid {
		s.metrics.IncRejected("invalid")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid attestation")
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "revocation list unavailable")
	}
	if revoked {
		s.metrics.IncRejected("revoked")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "attestation has been revoked")
	}
	return claims, nil
}

// Revoke adds jti to the revocation list until expiresAt.
func (s *Signer) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.clock())
	if ttl <= 0 {
		// Already expired; Verify rejects it without a list entry.
		return nil
	}
	if err := s.revocations.Revoke(ctx, jti, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to revoke attestation")
	}
	return nil
}
