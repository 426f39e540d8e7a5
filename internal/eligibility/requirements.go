package eligibility

import (
	"strconv"
	"strings"
)

// DefaultMinScore applies when an employer does not state a minimum score.
const DefaultMinScore = 270

// RequirementFromCredentials derives a requirement from the credential labels
// an employer lists on a posting, e.g. "No Felony" or "Valid License".
// Unknown labels are rejected. A nil minScore falls back to the evaluator's default.
func (e *Evaluator) RequirementFromCredentials(minScore *int, labels []string) (JobRequirement, error) {
	req := JobRequirement{
		MinScore:              e.defaultMinScore,
		RelevantDisqualifiers: e.catalog.DefaultRelevance(),
		AlwaysDisqualifying:   e.catalog.AlwaysDisqualifying(),
	}
	if minScore != nil {
		req.MinScore = *minScore
	}
	for i, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		key, ok := e.catalog.KeyForCredential(label)
		if !ok {
			return JobRequirement{}, &ValidationError{
				Field:   "requiredCredentials[" + strconv.Itoa(i) + "]",
				Message: "unknown credential " + label,
			}
		}
		req.RelevantDisqualifiers[key] = true
	}
	return req, nil
}

// RequiredCredentials is the inverse of RequirementFromCredentials: the
// labels of every relevant flag, in catalog order.
func (e *Evaluator) RequiredCredentials(req JobRequirement) []string {
	var labels []string
	for _, d := range e.catalog.descriptors {
		if req.RelevantDisqualifiers.Has(d.Key) && d.CredentialLabel != "" {
			labels = append(labels, d.CredentialLabel)
		}
	}
	return labels
}
