package bundle

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the run can surface.
var (
	// ErrInvalidArgument covers bad directories, empty extension sets and
	// nonsensical parallelism. Raised before any I/O side effect.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSetup covers output/tree/workspace creation failures. Raised before
	// dispatch starts.
	ErrSetup = errors.New("setup failed")

	// ErrConsolidation covers failures while merging fragments or writing the
	// final output. The workspace is left in place for manual recovery and
	// its path is part of the error message.
	ErrConsolidation = errors.New("consolidation failed")

	// ErrAborted signals an external interrupt. The workspace and any partial
	// output have been removed by the time it is returned.
	ErrAborted = errors.New("aborted")
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitUsage         = 1
	ExitConsolidation = 2
	ExitAborted       = 130
)

// ExitCode maps an error from Run to a process exit code. Unclassified
// errors, including flag-parse errors from the CLI layer, map to ExitUsage.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrAborted):
		return ExitAborted
	case errors.Is(err, ErrConsolidation):
		return ExitConsolidation
	default:
		return ExitUsage
	}
}

// fileFailure records one task that produced no fragment.
type fileFailure struct {
	Path string
	Err  error
}

func (f fileFailure) String() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}
