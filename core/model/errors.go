package model

import "errors"

// Sentinel errors shared by the pool, planner and negotiation packages.
// Callers match them with errors.Is; wrapping adds context.
var (
	// ErrInvalidRequest marks a malformed request: non-positive quantity or
	// duration, or an unknown kind or subtype.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCapacityExceeded means no feasible slot, unit or inventory exists
	// for the requested window.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrPriceExceedsBudget means the computed quote is above the request's
	// maximum acceptable price.
	ErrPriceExceedsBudget = errors.New("price exceeds budget")

	// ErrNotFound marks an unknown session, offer or allocation id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation on a session already in a terminal
	// state or in the wrong phase.
	ErrInvalidState = errors.New("invalid state")

	// ErrExpired marks an operation past a session's or offer's TTL.
	ErrExpired = errors.New("expired")
)
