package application

import (
	"errors"
	"fmt"

	"tourtags/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid ID")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrFetchFailed      = errors.New("fetch failed")
	ErrSessionClosed    = errors.New("session closed")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FetchError represents a failed child query for one node. The node is left
// fetched with no children.
type FetchError struct {
	Key domain.Key
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("cannot fetch children of %s: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// NodeNotFoundError represents a key with no materialized node
type NodeNotFoundError struct {
	Key domain.Key
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %s is not loaded", e.Key)
}

func (e *NodeNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
