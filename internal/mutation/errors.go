package mutation

import (
	"errors"
	"fmt"
)

var (
	// ErrConsistency matches every *ConsistencyError through errors.Is.
	ErrConsistency = errors.New("mutation consistency violation")

	// ErrZeroStrength is returned by BreachChance before any category has
	// accumulated strength.
	ErrZeroStrength = errors.New("total category strength is zero")
)

// ConsistencyError reports malformed definitions or broken bookkeeping. It is
// never used for ordinary ineligibility.
type ConsistencyError struct {
	Op      string
	Subject string
	Detail  string
}

func (e *ConsistencyError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("mutation: %s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("mutation: %s %s: %s", e.Op, e.Subject, e.Detail)
}

func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}

func consistencyf(op, subject, format string, args ...any) *ConsistencyError {
	return &ConsistencyError{Op: op, Subject: subject, Detail: fmt.Sprintf(format, args...)}
}
