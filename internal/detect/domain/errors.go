package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoParentCommit is returned when HEAD has no parent to diff against,
	// e.g. on the first commit of a repository.
	ErrNoParentCommit = errors.New("HEAD has no parent commit")

	// ErrMissingContainers is returned when the deployment configuration has
	// no top-level containers field.
	ErrMissingContainers = errors.New("deployment config has no containers field")

	// ErrMissingPattern is returned when a container entry has no is_changed_regexp.
	ErrMissingPattern = errors.New("container has no is_changed_regexp")
)

// PatternError reports a container whose is_changed_regexp does not compile.
type PatternError struct {
	Container ContainerDescriptor
	Err       error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid is_changed_regexp %q for container %s: %s",
		e.Container.IsChangedRegexp, e.Container.Label(), e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
