package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jobgate/internal/eligibility"
)

func newFlagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flags",
		Short: "List disqualifier flags in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tCREDENTIAL\tPOLICY\tREQUIREMENT")
			for _, d := range eligibility.DefaultCatalog.Descriptors() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Key, d.CredentialLabel, policy(d), d.Requirement)
			}
			return w.Flush()
		},
	}
}

func policy(d eligibility.FlagDescriptor) string {
	switch {
	case d.AlwaysDisqualifying:
		return "always"
	case d.RelevantByDefault:
		return "default"
	default:
		return "per-job"
	}
}
