package models

import (
	"net/url"
	"strconv"
	"strings"

	dErrors "jobgate/pkg/domain-errors"
	pstrings "jobgate/pkg/platform/strings"
)

// SearchQuery filters active jobs. Zero-valued fields do not filter.
type SearchQuery struct {
	Title     string   `json:"title,omitempty"`
	Location  string   `json:"location,omitempty"`
	Type      JobType  `json:"type,omitempty"`
	MinSalary int      `json:"minSalary,omitempty"`
	Skills    []string `json:"skills,omitempty"`
}

// ParseSearchQuery reads title, location, type, minSalary and skills
// (comma separated) from URL query values.
func ParseSearchQuery(values url.Values) (SearchQuery, error) {
	q := SearchQuery{
		Title:    strings.TrimSpace(values.Get("title")),
		Location: strings.TrimSpace(values.Get("location")),
		Type:     JobType(strings.TrimSpace(values.Get("type"))),
		Skills:   pstrings.SplitList(values.Get("skills")),
	}
	if raw := strings.TrimSpace(values.Get("minSalary")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return SearchQuery{}, dErrors.New(dErrors.CodeInvalidInput, "minSalary must be a non-negative integer")
		}
		q.MinSalary = n
	}
	if q.Type != "" && !q.Type.IsValid() {
		return SearchQuery{}, dErrors.New(dErrors.CodeInvalidInput, "type must be one of Full-time, Part-time, Contract, Internship, Temporary")
	}
	return q, nil
}

// Matches applies the filters to j. Only active jobs match.
func (q SearchQuery) Matches(j *Job) bool {
	if !j.IsActive() {
		return false
	}
	if q.Title != "" && !pstrings.ContainsFold(j.Title, q.Title) {
		return false
	}
	if q.Location != "" && !pstrings.ContainsFold(j.Location, q.Location) {
		return false
	}
	if q.Type != "" && j.Type != q.Type {
		return false
	}
	if q.MinSalary > 0 && j.Salary.Min < q.MinSalary {
		return false
	}
	if len(q.Skills) > 0 && !pstrings.AnyEqualFold(j.Skills, q.Skills) {
		return false
	}
	return true
}
