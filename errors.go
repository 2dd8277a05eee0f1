package dbvt

import "errors"

var (
	// ErrInvalidConfig signals an invalid manager/tree configuration.
	ErrInvalidConfig = errors.New("dbvt: invalid configuration")
	// ErrAlreadyRegistered signals that RegisterObject was called twice for
	// the same object identity. The source this package generalizes treats
	// this as a programmer error rather than a recoverable state.
	ErrAlreadyRegistered = errors.New("dbvt: object already registered")
	// ErrConcurrentMutation signals that two goroutines attempted to mutate
	// the same Manager at once. Read-only queries on an otherwise-idle
	// Manager are unaffected.
	ErrConcurrentMutation = errors.New("dbvt: concurrent mutation of manager")
	// ErrMutationDuringCallback signals that a traversal callback attempted
	// to mutate the manager it was invoked from. Manager's reentrancy guard
	// returns it from the rejected mutating call, which leaves the tree
	// untouched, so the traversal in progress continues over an unchanged
	// tree.
	ErrMutationDuringCallback = errors.New("dbvt: tree mutated from inside a traversal callback")
	// ErrKindMismatch signals that a pairwise operation was attempted
	// between managers or queries of incompatible kinds.
	ErrKindMismatch = errors.New("dbvt: mismatched manager/query kind")
)
