// Package planning defines the error taxonomy shared by the MRP and capacity
// components. Structural and input errors abort only the unit of work that
// raised them; collaborator errors degrade a run to a partial result.
package planning

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks bad quantities or identifiers, rejected before
	// any computation runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a lookup for a plan or record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoSupplier marks a shortage with no configured supplier. Callers
	// surface it as an unresolvable shortage, not a failure.
	ErrNoSupplier = errors.New("no supplier configured")

	// ErrTooDeep marks a BOM whose nesting exceeds the resolver depth limit.
	ErrTooDeep = errors.New("bom exceeds depth limit")

	// ErrCollaboratorTimeout marks an external dependency that did not answer
	// within the caller-supplied timeout.
	ErrCollaboratorTimeout = errors.New("collaborator timeout")
)

// CycleError reports a cycle in the BOM structure, naming the product path
// that closes the loop.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic bom: %s", strings.Join(e.Path, " -> "))
}

// IsCycle reports whether err carries a CycleError
func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}
