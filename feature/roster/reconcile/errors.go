package reconcile

import "fmt"

// RepositoryWriteError wraps a repository failure for a single record.
type RepositoryWriteError struct {
	Op         string
	ExternalID string
	Err        error
}

func (e *RepositoryWriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ExternalID, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RepositoryWriteError) Unwrap() error {
	return e.Err
}
