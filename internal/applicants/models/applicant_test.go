package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobgate/internal/eligibility"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
)

func intPtr(v int) *int { return &v }

func validCreate() *CreateApplicantRequest {
	return &CreateApplicantRequest{
		Name:    "  Goodman Clearance ",
		DID:     "did:example:goodman",
		Email:   " Goodman@Example.com ",
		Profile: ProfileInput{Score: intPtr(320)},
		Skills:  []string{"Driving", "driving", " Forklift "},
		Experience: []Experience{{
			Title:     "Courier",
			Company:   "Quick Parcel",
			StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func TestCreateApplicantRequestNormalizes(t *testing.T) {
	req := validCreate()
	require.NoError(t, req.Validate())

	assert.Equal(t, "Goodman Clearance", req.Name)
	assert.Equal(t, "goodman@example.com", req.Email)
	assert.Equal(t, []string{"Driving", "Forklift"}, req.Skills)
	assert.Equal(t, eligibility.FlagSet{}, req.Profile.Profile().Disqualifiers)
}

func TestCreateApplicantRequestValidation(t *testing.T) {
	cases := map[string]func(r *CreateApplicantRequest){
		"missing name":      func(r *CreateApplicantRequest) { r.Name = "" },
		"bad did":           func(r *CreateApplicantRequest) { r.DID = "goodman" },
		"bad email":         func(r *CreateApplicantRequest) { r.Email = "goodman@" },
		"missing score":     func(r *CreateApplicantRequest) { r.Profile.Score = nil },
		"score above range": func(r *CreateApplicantRequest) { r.Profile.Score = intPtr(361) },
		"negative score":    func(r *CreateApplicantRequest) { r.Profile.Score = intPtr(-1) },
		"experience title":  func(r *CreateApplicantRequest) { r.Experience[0].Title = " " },
		"experience dates": func(r *CreateApplicantRequest) {
			end := r.Experience[0].StartDate.Add(-time.Hour)
			r.Experience[0].EndDate = &end
		},
		"education degree": func(r *CreateApplicantRequest) {
			r.Education = []Education{{Institution: "State U", GraduationDate: time.Now()}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validCreate()
			mutate(req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestScoreBoundsAreInclusive(t *testing.T) {
	for _, score := range []int{0, eligibility.MaxScore} {
		req := validCreate()
		req.Profile.Score = intPtr(score)
		assert.NoError(t, req.Validate())
	}
}

func TestAddCredentialRequest(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	before := issued.Add(-time.Hour)

	ok := &AddCredentialRequest{Type: CredentialSkill, Issuer: "did:web:acme.example", IssuedAt: issued}
	assert.NoError(t, ok.Validate())

	assert.Error(t, (&AddCredentialRequest{Type: "Diploma", Issuer: "did:web:x"}).Validate())
	assert.Error(t, (&AddCredentialRequest{Type: CredentialSkill, Issuer: "acme"}).Validate())
	assert.Error(t, (&AddCredentialRequest{Type: CredentialSkill, Issuer: "did:web:x", IssuedAt: issued, ExpiresAt: &before}).Validate())
}

func TestCredentialStatusAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.Equal(t, CredentialActive, Credential{Status: CredentialActive}.StatusAt(now))
	assert.Equal(t, CredentialActive, Credential{Status: CredentialActive, ExpiresAt: &future}.StatusAt(now))
	assert.Equal(t, CredentialExpired, Credential{Status: CredentialActive, ExpiresAt: &past}.StatusAt(now))
	assert.Equal(t, CredentialRevoked, Credential{Status: CredentialRevoked, ExpiresAt: &past}.StatusAt(now))
}

func TestPublicProfileHidesConfidentialFields(t *testing.T) {
	a := &Applicant{
		ID:      id.NewApplicantID(),
		Name:    "Felix Felton",
		Email:   "felix@example.com",
		Phone:   "555-0100",
		Profile: Profile{Score: 290, Disqualifiers: eligibility.FlagSet{eligibility.FlagFelony: true}},
	}
	public := a.Public()
	assert.Equal(t, "Felix Felton", public.Name)
	assert.Empty(t, public.Skills)
	assert.NotNil(t, public.Skills)
	assert.NotNil(t, public.Experience)
}

func TestEligibilityProfileIsACopy(t *testing.T) {
	a := &Applicant{Profile: Profile{Score: 300, Disqualifiers: eligibility.FlagSet{eligibility.FlagDUI: true}}}
	p := a.EligibilityProfile()
	p.Disqualifiers[eligibility.FlagDUI] = false
	assert.True(t, a.Profile.Disqualifiers.Has(eligibility.FlagDUI))
	assert.Equal(t, 300, p.Score)
}
