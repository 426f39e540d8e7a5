package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"jobgate/internal/eligibility"
	"jobgate/internal/jobs/handler/mocks"
	"jobgate/internal/jobs/models"
	id "jobgate/pkg/domain"
	dErrors "jobgate/pkg/domain-errors"
	"jobgate/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, testutil.DiscardLogger()).Register(s.router)
}

func sampleJob() *models.Job {
	posted := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &models.Job{
		ID:           id.NewJobID(),
		EmployerID:   id.NewEmployerID(),
		Title:        "Delivery Driver",
		Company:      "Acme Logistics",
		Description:  "Deliver parcels",
		Location:     "Austin, TX",
		Type:         models.JobTypeFullTime,
		Salary:       models.Salary{Min: 40000, Max: 52000, Currency: "USD"},
		Requirements: models.Requirements{MinScore: 280, Disqualifiers: eligibility.FlagSet{eligibility.FlagDUI: true}},
		PostedAt:     posted,
		ExpiresAt:    posted.Add(720 * time.Hour),
		Status:       models.StatusActive,
	}
}

func (s *HandlerSuite) TestCreate() {
	job := sampleJob()
	s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req *models.CreateJobRequest) (*models.Job, error) {
			s.Equal("Delivery Driver", req.Title)
			s.Equal(models.StatusActive, req.Status, "status defaults to Active")
			return job, nil
		})
	s.service.EXPECT().RequiredCredentials(job).Return([]string{"No DUI"})

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/jobs", map[string]any{
		"employerId":  job.EmployerID.String(),
		"title":       " Delivery Driver ",
		"company":     "Acme Logistics",
		"description": "Deliver parcels",
		"location":    "Austin, TX",
		"type":        "Full-time",
		"salary":      map[string]int{"min": 40000, "max": 52000},
		"expiresAt":   job.ExpiresAt,
	}))

	s.Equal(http.StatusCreated, rr.Code, rr.Body.String())
	body := testutil.DecodeJSON[map[string]any](s.T(), rr)
	s.Equal(job.ID.String(), body["id"])
	s.Equal([]any{"No DUI"}, body["requiredCredentials"])
}

func (s *HandlerSuite) TestCreateRejectsMissingTitle() {
	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/jobs", map[string]any{
		"employerId": id.NewEmployerID().String(),
		"expiresAt":  time.Now().Add(time.Hour),
	}))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestCreateRejectsEmptyBody() {
	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/jobs", nil))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *HandlerSuite) TestGet() {
	job := sampleJob()
	s.service.EXPECT().Get(gomock.Any(), job.ID).Return(job, nil)
	s.service.EXPECT().RequiredCredentials(job).Return(nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/jobs/"+job.ID.String(), nil))
	s.Equal(http.StatusOK, rr.Code)
	body := testutil.DecodeJSON[map[string]any](s.T(), rr)
	s.Equal([]any{}, body["requiredCredentials"])
}

func (s *HandlerSuite) TestGetInvalidID() {
	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/jobs/not-a-uuid", nil))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *HandlerSuite) TestGetNotFound() {
	jobID := id.NewJobID()
	s.service.EXPECT().Get(gomock.Any(), jobID).Return(nil, dErrors.New(dErrors.CodeNotFound, "job not found"))

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/jobs/"+jobID.String(), nil))
	testutil.AssertError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestSearchParsesQuery() {
	job := sampleJob()
	s.service.EXPECT().Search(gomock.Any(), models.SearchQuery{
		Title:     "driver",
		Type:      models.JobTypeFullTime,
		MinSalary: 30000,
		Skills:    []string{"Driving", "Navigation"},
	}).Return([]*models.Job{job}, nil)
	s.service.EXPECT().RequiredCredentials(job).Return([]string{"No DUI"})

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet,
		"/jobs/search?title=driver&type=Full-time&minSalary=30000&skills=Driving,%20Navigation", nil))
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())
	body := testutil.DecodeJSON[ListResponse](s.T(), rr)
	s.Equal(1, body.Total)
	s.Equal(job.ID, body.Jobs[0].ID)
}

func (s *HandlerSuite) TestSearchRejectsBadSalary() {
	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/jobs/search?minSalary=lots", nil))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *HandlerSuite) TestListEmpty() {
	s.service.EXPECT().List(gomock.Any()).Return(nil, nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/jobs", nil))
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"jobs":[],"total":0}`, rr.Body.String())
}

func (s *HandlerSuite) TestUpdate() {
	job := sampleJob()
	s.service.EXPECT().Update(gomock.Any(), job.ID, gomock.Any()).
		DoAndReturn(func(_ any, _ id.JobID, req *models.UpdateJobRequest) (*models.Job, error) {
			s.Require().NotNil(req.Title)
			s.Equal("Senior Driver", *req.Title)
			s.Nil(req.Company)
			job.Title = *req.Title
			return job, nil
		})
	s.service.EXPECT().RequiredCredentials(job).Return(nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/jobs/"+job.ID.String(),
		map[string]any{"title": "Senior Driver"}))
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())
}

func (s *HandlerSuite) TestChangeStatusConflict() {
	jobID := id.NewJobID()
	s.service.EXPECT().ChangeStatus(gomock.Any(), jobID, models.StatusActive).
		Return(nil, dErrors.New(dErrors.CodeInvariantViolation, "job cannot move from Filled to Active"))

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/jobs/"+jobID.String()+"/status",
		map[string]string{"status": "Active"}))
	testutil.AssertError(s.T(), rr, http.StatusUnprocessableEntity, "invariant_violation")
}

func (s *HandlerSuite) TestChangeStatusRejectsUnknown() {
	jobID := id.NewJobID()
	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/jobs/"+jobID.String()+"/status",
		map[string]string{"status": "Open"}))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestDelete() {
	jobID := id.NewJobID()
	s.service.EXPECT().Delete(gomock.Any(), jobID).Return(nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete, "/jobs/"+jobID.String(), nil))
	s.Equal(http.StatusNoContent, rr.Code)
}

func (s *HandlerSuite) TestVerifyPosting() {
	jobID := id.NewJobID()
	s.service.EXPECT().VerifyPosting(gomock.Any(), jobID).Return(&models.PostingVerification{
		JobID:  jobID,
		Valid:  false,
		Reason: "posting content does not match its signature",
	}, nil)

	rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/jobs/"+jobID.String()+"/verify-posting", nil))
	s.Equal(http.StatusOK, rr.Code)
	body := testutil.DecodeJSON[models.PostingVerification](s.T(), rr)
	s.False(body.Valid)
	s.Equal("posting content does not match its signature", body.Reason)
}
