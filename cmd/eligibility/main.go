// Command eligibility evaluates an applicant profile against a job
// requirement from JSON files, without running the server.
//
// Exit status: 0 eligible, 1 not eligible, 2 invalid input or usage.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	root.SetArgs(args)
	err := root.Execute()
	code := exitCode(err)
	if code == exitInvalid {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return code
}

const (
	exitEligible    = 0
	exitNotEligible = 1
	exitInvalid     = 2
)

// errNotEligible carries a negative verdict out of cobra; it is not printed.
var errNotEligible = errors.New("not eligible")

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitEligible
	case errors.Is(err, errNotEligible):
		return exitNotEligible
	default:
		return exitInvalid
	}
}
