// Command refdata builds the openLCA reference data libraries from the CSV
// tables of a reference data directory.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/JonMunkholm/refdata/internal/core"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// Exit codes.
const (
	exitError       = 1
	exitParse       = 2
	exitConsistency = 3
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(exitCode(err))
	}
}

// describe prefixes known failures with their support code.
func describe(err error) string {
	if !core.IsUserFacing(err) {
		return err.Error()
	}
	return core.FormatUserError(err) + "\n  " + err.Error()
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, core.ErrParse):
		return exitParse
	case errors.Is(err, core.ErrConsistency):
		return exitConsistency
	default:
		return exitError
	}
}
