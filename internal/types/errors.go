package types

import "errors"

// Failure kinds returned by collaborators. Callers wrap them with
// fmt.Errorf("...: %w") and match with errors.Is.
var (
	// ErrNotFound is NXDOMAIN or an answer without A records
	ErrNotFound = errors.New("name not found")

	// ErrTimeout is a DNS or HTTP operation that ran out of time
	ErrTimeout = errors.New("operation timed out")

	// ErrConnection is an HTTP-level failure to reach a host
	ErrConnection = errors.New("connection failure")

	// ErrLookup is any other resolver fault
	ErrLookup = errors.New("lookup error")

	// ErrLoad means the wordlist could not be read; it is fatal for a run
	ErrLoad = errors.New("wordlist load error")
)
