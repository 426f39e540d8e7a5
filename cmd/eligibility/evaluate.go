package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"jobgate/internal/eligibility"
)

type evaluateOptions struct {
	profile     string
	requirement string
	explain     bool
}

type evaluateOutput struct {
	Status string `json:"status"`
	eligibility.Result
	Details []eligibility.Detail `json:"details,omitempty"`
}

// MarshalJSON flattens the embedded Result, which has its own marshaller.
func (o evaluateOutput) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(o.Result)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["status"] = o.Status
	if len(o.Details) > 0 {
		fields["details"] = o.Details
	}
	return json.Marshal(fields)
}

func newEvaluateCmd() *cobra.Command {
	opts := &evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a profile against a requirement",
		Long: "Reads the applicant profile and job requirement as JSON files (use - for stdin)\n" +
			"and prints the result. Exits 1 when the applicant is not eligible.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "applicant profile JSON file")
	cmd.Flags().StringVarP(&opts.requirement, "requirement", "r", "", "job requirement JSON file")
	cmd.Flags().BoolVarP(&opts.explain, "explain", "e", false, "include a per-check explanation")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("requirement")
	return cmd
}

func runEvaluate(cmd *cobra.Command, opts *evaluateOptions) error {
	if opts.profile == "-" && opts.requirement == "-" {
		return errors.New("only one of --profile and --requirement can read stdin")
	}
	rawProfile, err := readInput(cmd.InOrStdin(), opts.profile)
	if err != nil {
		return err
	}
	rawRequirement, err := readInput(cmd.InOrStdin(), opts.requirement)
	if err != nil {
		return err
	}

	profile, err := eligibility.DecodeProfile(rawProfile)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	requirement, err := eligibility.DecodeRequirement(rawRequirement)
	if err != nil {
		return fmt.Errorf("requirement: %w", err)
	}

	evaluator := eligibility.NewEvaluator(nil)
	result, err := evaluator.Evaluate(profile, requirement)
	if err != nil {
		return err
	}

	out := evaluateOutput{Status: "Eligible", Result: result}
	if !result.Eligible {
		out.Status = "NotEligible"
	}
	if opts.explain {
		out.Details = evaluator.Explain(requirement, result)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if !result.Eligible {
		return errNotEligible
	}
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
