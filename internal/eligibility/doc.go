// Package eligibility decides whether an applicant's confidential profile
// meets a job's public hiring bar.
//
// The evaluator is a pure function over value objects: a score threshold
// followed by an ordered walk of the disqualifier catalog. It performs no I/O
// and keeps no state, so callers (HTTP handlers, the application service, the
// CLI) may invoke it concurrently and persist or render its Result as they
// see fit.
package eligibility
