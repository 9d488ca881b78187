package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync cycle is already running.
	// Cycles are serialised behind an in-process flag; a second
	// trigger fails fast instead of interleaving file writes.
	ErrSyncInProgress = errors.New("sync in progress")

	// Connectivity errors. These abort the whole cycle since no useful
	// partial sync is possible without data.

	// ErrConnect indicates the session handshake with the remote
	// service failed (timeout, non-200, network error).
	ErrConnect = errors.New("connect handshake failed")

	// ErrUnauthorized indicates the remote service rejected the
	// bearer token. The cached session secret may be stale.
	ErrUnauthorized = errors.New("unauthorized")

	// Missing-prerequisite errors. These skip one operation and let the
	// remainder of an enclosing sync cycle continue.

	// ErrMissingPrerequisite indicates a required setting is absent
	// (daily note folder or date format unset).
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrDailyNoteMissing indicates today's daily note does not exist,
	// so there is nothing to inject the reflection into.
	ErrDailyNoteMissing = errors.New("daily note missing")
)
