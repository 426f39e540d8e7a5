// Package seed loads the demo employers, jobs and applicants so a fresh
// in-memory server has something to evaluate.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	applicantmodels "jobgate/internal/applicants/models"
	"jobgate/internal/eligibility"
	employermodels "jobgate/internal/employers/models"
	jobmodels "jobgate/internal/jobs/models"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/requestcontext"
)

type Employers interface {
	Create(ctx context.Context, req *employermodels.CreateEmployerRequest) (*employermodels.Employer, error)
}

type Jobs interface {
	Create(ctx context.Context, req *jobmodels.CreateJobRequest) (*jobmodels.Job, error)
}

type Applicants interface {
	Create(ctx context.Context, req *applicantmodels.CreateApplicantRequest) (*applicantmodels.Applicant, error)
}

// Result lists what was created, keyed by display name.
type Result struct {
	Employers  map[string]*employermodels.Employer
	Jobs       map[string]*jobmodels.Job
	Applicants map[string]*applicantmodels.Applicant
}

type applicantSeed struct {
	name  string
	did   string
	score int
	flags eligibility.FlagSet
	skill []string
}

var applicants = []applicantSeed{
	{name: "Goodman Clearance", did: "did:example:goodman", score: 320, skill: []string{"Driving", "Customer Service"}},
	{name: "Misty Minor", did: "did:example:misty", score: 300,
		flags: eligibility.FlagSet{eligibility.FlagMisdemeanor: true}, skill: []string{"Caregiving"}},
	{name: "Felix Felton", did: "did:example:felix", score: 290,
		flags: eligibility.FlagSet{eligibility.FlagFelony: true}, skill: []string{"Warehouse"}},
	{name: "Dewey Driver", did: "did:example:dewey", score: 250,
		flags: eligibility.FlagSet{eligibility.FlagDUI: true}, skill: []string{"Driving"}},
	{name: "Warren Outlaw", did: "did:example:warren", score: 280,
		flags: eligibility.FlagSet{eligibility.FlagWarrants: true}, skill: []string{"Navigation"}},
}

// Load creates the demo records. A conflict means the data is already there
// (a persistent backend that was seeded before) and stops the seed quietly.
func Load(ctx context.Context, employers Employers, jobs Jobs, people Applicants, logger *slog.Logger) (*Result, error) {
	now := requestcontext.Now(ctx)
	res := &Result{
		Employers:  map[string]*employermodels.Employer{},
		Jobs:       map[string]*jobmodels.Job{},
		Applicants: map[string]*applicantmodels.Applicant{},
	}

	acme, err := employers.Create(ctx, &employermodels.CreateEmployerRequest{
		Name:     "Acme Logistics",
		DID:      "did:example:acme",
		Email:    "hiring@acme.example.com",
		Website:  "https://acme.example.com",
		Industry: "Logistics",
		Location: "Austin, TX",
	})
	if dErrors.HasCode(err, dErrors.CodeConflict) {
		logger.InfoContext(ctx, "demo data already present")
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed employer Acme Logistics: %w", err)
	}
	res.Employers[acme.Name] = acme

	brightside, err := employers.Create(ctx, &employermodels.CreateEmployerRequest{
		Name:     "Brightside Care",
		DID:      "did:example:brightside",
		Email:    "jobs@brightside.example.com",
		Website:  "https://brightside.example.com",
		Industry: "Healthcare",
		Location: "Portland, OR",
	})
	if err != nil {
		return nil, fmt.Errorf("seed employer Brightside Care: %w", err)
	}
	res.Employers[brightside.Name] = brightside

	driverMin, careMin := 280, 270
	postings := []*jobmodels.CreateJobRequest{
		{
			EmployerID:  acme.ID.String(),
			Title:       "Delivery Driver",
			Company:     acme.Name,
			Description: "Drive a regional delivery route in a company van.",
			Location:    "Austin, TX",
			Type:        jobmodels.JobTypeFullTime,
			Salary:      jobmodels.Salary{Min: 42000, Max: 52000},
			Requirements: jobmodels.RequirementsInput{
				MinScore:            &driverMin,
				RequiredCredentials: []string{"No DUI", "Valid License"},
			},
			Skills:    []string{"Driving", "Navigation"},
			ExpiresAt: now.Add(60 * 24 * time.Hour),
		},
		{
			EmployerID:  brightside.ID.String(),
			Title:       "Care Assistant",
			Company:     brightside.Name,
			Description: "Support residents with daily living in a care home.",
			Location:    "Portland, OR",
			Type:        jobmodels.JobTypePartTime,
			Salary:      jobmodels.Salary{Min: 30000, Max: 36000},
			Requirements: jobmodels.RequirementsInput{
				MinScore:            &careMin,
				RequiredCredentials: []string{"No Felony"},
			},
			Skills:    []string{"Caregiving", "Customer Service"},
			ExpiresAt: now.Add(60 * 24 * time.Hour),
		},
	}
	for _, p := range postings {
		job, err := jobs.Create(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("seed job %s: %w", p.Title, err)
		}
		res.Jobs[job.Title] = job
	}

	for _, a := range applicants {
		score := a.score
		created, err := people.Create(ctx, &applicantmodels.CreateApplicantRequest{
			Name:    a.name,
			DID:     a.did,
			Email:   a.did[len("did:example:"):] + "@example.com",
			Profile: applicantmodels.ProfileInput{Score: &score, Disqualifiers: a.flags},
			Skills:  a.skill,
		})
		if err != nil {
			return nil, fmt.Errorf("seed applicant %s: %w", a.name, err)
		}
		res.Applicants[created.Name] = created
	}

	logger.InfoContext(ctx, "demo data loaded",
		"employers", len(res.Employers),
		"jobs", len(res.Jobs),
		"applicants", len(res.Applicants),
	)
	return res, nil
}
