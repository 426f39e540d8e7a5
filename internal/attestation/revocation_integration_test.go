//go:build integration

package attestation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"jobgate/internal/attestation"
	"jobgate/pkg/testutil/containers"
)

type RedisRevocationSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	signer *attestation.Signer
}

func TestRedisRevocationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisRevocationSuite))
}

func (s *RedisRevocationSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisRevocationSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	signer, err := attestation.NewSigner([]byte("integration"), "did:web:jobgate.test",
		attestation.WithRevocations(attestation.NewRedisRevocations(s.redis.Client)),
	)
	s.Require().NoError(err)
	s.signer = signer
}

func (s *RedisRevocationSuite) TestRevokedAttestationFailsVerification() {
	ctx := context.Background()
	issued, err := s.signer.SignCredential("cred-1", "Reference", "did:example:goodman")
	s.Require().NoError(err)

	_, err = s.signer.Verify(ctx, issued.Token)
	s.Require().NoError(err)

	s.Require().NoError(s.signer.Revoke(ctx, issued.ID, issued.ExpiresAt))
	_, err = s.signer.Verify(ctx, issued.Token)
	s.Error(err)

	ttl, err := s.redis.Client.TTL(ctx, "attest:jti:"+issued.ID).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 23*time.Hour)
}

func (s *RedisRevocationSuite) TestRevocationsAreShared() {
	ctx := context.Background()
	issued, err := s.signer.SignJob("job-1", "digest", time.Now().Add(time.Hour))
	s.Require().NoError(err)

	replica, err := attestation.NewSigner([]byte("integration"), "did:web:jobgate.test",
		attestation.WithRevocations(attestation.NewRedisRevocations(s.redis.Client)),
	)
	s.Require().NoError(err)

	s.Require().NoError(s.signer.Revoke(ctx, issued.ID, issued.ExpiresAt))
	_, err = replica.Verify(ctx, issued.Token)
	s.Error(err, "a replica with the same seed sees the revocation")
}
