package report

import (
	"errors"
	"fmt"
)

// ErrMalformedRow means a result-set row's width differs from its header.
// Fatal to the profile's run: a misaligned row would silently corrupt sums.
var ErrMalformedRow = errors.New("malformed result row")

// ErrPersistence means an artifact could not be written (target locked or
// inaccessible). Distinct from data errors so the operator knows to close
// the open file instead of re-running the queries.
var ErrPersistence = errors.New("artifact persistence failed")

// ErrUpstream wraps failures coming from the query source. The pipeline
// passes the reason through unmodified and never retries; retry policy
// belongs to the orchestrator that owns the transport.
var ErrUpstream = errors.New("query source failure")

func persistenceErr(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, path, err)
}

func upstreamErr(section string, err error) error {
	return fmt.Errorf("%w: section %s: %v", ErrUpstream, section, err)
}
