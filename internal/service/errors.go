package service

import "errors"

var (
	// ErrNoUserBound means a space subscription was requested before any
	// user was bound to the orchestrator.
	ErrNoUserBound = errors.New("no user bound to sync")

	// ErrSharingDisabled means an operation that needs an active space ran
	// in local mode.
	ErrSharingDisabled = errors.New("sharing is not enabled")

	// ErrDuplicateInvite means a pending invite to the same email already
	// exists for the space.
	ErrDuplicateInvite = errors.New("a pending invite for this email already exists")

	// ErrInviteNotPending means the invite was already accepted, declined,
	// or cancelled.
	ErrInviteNotPending = errors.New("invite is no longer pending")

	// ErrInviteNotAddressed means the invite belongs to a different email.
	ErrInviteNotAddressed = errors.New("invite is addressed to a different user")

	// ErrSpaceGone means the invite's target space no longer exists; the
	// invite is defensively declined when this is detected.
	ErrSpaceGone = errors.New("the invited space no longer exists")

	// ErrSpacePaused means the target space is read-only for members.
	ErrSpacePaused = errors.New("sharing is paused for this space")
)
