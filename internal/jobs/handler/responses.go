package handler

import "jobgate/internal/jobs/models"

// JobResponse adds the credential labels implied by the job's requirement.
type JobResponse struct {
	*models.Job
	RequiredCredentials []string `json:"requiredCredentials"`
}

type ListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Total int           `json:"total"`
}

func (h *Handler) toResponse(job *models.Job) JobResponse {
	creds := h.service.RequiredCredentials(job)
	if creds == nil {
		creds = []string{}
	}
	return JobResponse{Job: job, RequiredCredentials: creds}
}

func (h *Handler) toListResponse(jobs []*models.Job) ListResponse {
	out := ListResponse{Jobs: make([]JobResponse, 0, len(jobs)), Total: len(jobs)}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, h.toResponse(j))
	}
	return out
}
