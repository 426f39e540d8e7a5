package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	applicantmodels "jobgate/internal/applicants/models"
	jobmodels "jobgate/internal/jobs/models"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
)

type fetched struct {
	job       *jobmodels.Job
	applicant *applicantmodels.Applicant
}

// fetch loads the job and the applicant in parallel. The first failure
// cancels the other fetch.
func (s *Service) fetch(ctx context.Context, jobID id.JobID, applicantID id.ApplicantID) (*fetched, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	out := &fetched{}

	g.Go(func() error {
		start := time.Now()
		job, err := s.jobs.Find(ctx, jobID)
		s.metrics.ObserveFetchLatency("job", time.Since(start))
		if err != nil {
			return err
		}
		out.job = job
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		applicant, err := s.applicants.Get(ctx, applicantID)
		s.metrics.ObserveFetchLatency("applicant", time.Since(start))
		if err != nil {
			return err
		}
		out.applicant = applicant
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "timed out loading job and applicant")
		}
		return nil, err
	}
	return out, nil
}
