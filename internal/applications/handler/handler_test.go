package handler

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"jobgate/internal/applications/handler/mocks"
	"jobgate/internal/applications/models"
	"jobgate/internal/eligibility"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	jobID   id.JobID
	appID   id.ApplicationID
	person  id.ApplicantID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.service = mocks.NewMockService(gomock.NewController(s.T()))
	s.router = chi.NewRouter()
	New(s.service, testutil.DiscardLogger()).Register(s.router)
	s.jobID = id.NewJobID()
	s.person = id.NewApplicantID()
	s.appID = id.ApplicationIDFor(s.jobID, s.person)
}

func (s *HandlerSuite) TestApply() {
	s.service.EXPECT().Apply(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req *models.ApplyRequest) (*models.Application, error) {
			jobID, applicantID := req.IDs()
			s.Equal(s.jobID, jobID)
			return &models.Application{ID: s.appID, JobID: jobID, ApplicantID: applicantID, Status: models.StatusApplied}, nil
		})

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{
		"jobId":       s.jobID.String(),
		"applicantId": s.person.String(),
	}))
	s.Equal(http.StatusCreated, rr.Code, rr.Body.String())
	body := testutil.DecodeJSON[map[string]any](s.T(), rr)
	s.Equal(s.appID.String(), body["id"])
	s.Equal("Applied", body["status"])
}

func (s *HandlerSuite) TestApplyValidation() {
	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{
		"jobId": "not-a-job",
	}))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestApplyDuplicate() {
	s.service.EXPECT().Apply(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "application already exists"))

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{
		"jobId":       s.jobID.String(),
		"applicantId": s.person.String(),
	}))
	testutil.AssertError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *HandlerSuite) TestApplyToClosedJob() {
	s.service.EXPECT().Apply(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInvariantViolation, "job is not accepting applications"))

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{
		"jobId":       s.jobID.String(),
		"applicantId": s.person.String(),
	}))
	testutil.AssertError(s.T(), rr, http.StatusUnprocessableEntity, "invariant_violation")
}

func (s *HandlerSuite) TestListByJob() {
	s.service.EXPECT().ListByJob(gomock.Any(), s.jobID).
		Return([]*models.Application{{ID: s.appID, JobID: s.jobID}}, nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/applications/job/"+s.jobID.String(), nil))
	s.Equal(http.StatusOK, rr.Code)
	body := testutil.DecodeJSON[listResponse](s.T(), rr)
	s.Equal(1, body.Total)
}

func (s *HandlerSuite) TestListByApplicantEmpty() {
	s.service.EXPECT().ListByApplicant(gomock.Any(), s.person).Return(nil, nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/applications/applicant/"+s.person.String(), nil))
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"applications":[],"total":0}`, rr.Body.String())
}

func (s *HandlerSuite) TestGetMalformedID() {
	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/applications/123", nil))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *HandlerSuite) TestVerifyNotEligible() {
	s.service.EXPECT().Verify(gomock.Any(), s.appID).Return(&models.Application{
		ID:     s.appID,
		Status: models.StatusRejected,
		Verification: &models.Verification{
			Outcome:     models.OutcomeNotEligible,
			FailureKind: eligibility.KindDisqualifierPresent,
			Reason:      "does not meet requirement: No DUI record",
		},
		Attestation: models.Attestation{Token: "signed", Status: models.AttestationIssued},
	}, nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications/"+s.appID.String()+"/verify", nil))
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())
	body := testutil.DecodeJSON[map[string]any](s.T(), rr)
	s.Equal("NotEligible", body["status"])
	s.Equal("DisqualifierPresent", body["failureKind"])
	s.Equal("signed", body["attestation"])
}

func (s *HandlerSuite) TestUpdateStatus() {
	s.service.EXPECT().UpdateStatus(gomock.Any(), s.appID, gomock.Any()).
		DoAndReturn(func(_ any, _ id.ApplicationID, req *models.UpdateStatusRequest) (*models.Application, error) {
			s.Equal(models.StatusAccepted, req.Status)
			return &models.Application{ID: s.appID, Status: req.Status}, nil
		})

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/applications/"+s.appID.String()+"/status", map[string]any{"status": "Accepted"}))
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())
}

func (s *HandlerSuite) TestUpdateStatusRejectsVerified() {
	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/applications/"+s.appID.String()+"/status", map[string]any{"status": "Verified"}))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestWithdrawAndDelete() {
	s.service.EXPECT().Withdraw(gomock.Any(), s.appID).
		Return(&models.Application{ID: s.appID, Status: models.StatusWithdrawn}, nil)
	s.service.EXPECT().Delete(gomock.Any(), s.appID).Return(nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications/"+s.appID.String()+"/withdraw", nil))
	s.Equal(http.StatusOK, rr.Code)

	rr = testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete, "/applications/"+s.appID.String(), nil))
	s.Equal(http.StatusNoContent, rr.Code)
}

func (s *HandlerSuite) TestCheck() {
	s.service.EXPECT().CheckEligibility(gomock.Any(), gomock.Any()).Return(&models.EligibilityCheck{
		JobID:    s.jobID,
		Outcome:  models.OutcomeEligible,
		Eligible: true,
		Details:  []eligibility.Detail{{Check: "score", Status: eligibility.CheckPassed}},
	}, nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications/check", map[string]any{
		"jobId":       s.jobID.String(),
		"applicantId": s.person.String(),
	}))
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())
	body := testutil.DecodeJSON[map[string]any](s.T(), rr)
	s.Equal("Eligible", body["status"])
	s.Equal(true, body["eligible"])
}
