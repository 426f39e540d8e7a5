package main

import (
	"io"

	"github.com/spf13/cobra"
)

const app = "eligibility"

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           app,
		Short:         "Evaluate applicant eligibility against a job requirement",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newEvaluateCmd(), newFlagsCmd(), newVersionCmd())
	return root
}
