package core

import "errors"

var (
	// ErrInvalidWindow is returned for a malformed sampling window
	// (end before start, or a non-positive step).
	ErrInvalidWindow = errors.New("invalid sampling window")

	// ErrMisalignedTrajectories indicates the two sequences handed to the
	// closest-approach search are not time-aligned index-for-index. The
	// sampler never produces this for a shared window; seeing it means a
	// caller bug, so it is surfaced loudly instead of truncating.
	ErrMisalignedTrajectories = errors.New("misaligned trajectories")

	// ErrEmptyTrajectory is returned when a search receives zero samples.
	ErrEmptyTrajectory = errors.New("empty trajectory")

	// ErrNonFiniteAltitude is returned by propagators for element sets
	// whose altitude is NaN or infinite.
	ErrNonFiniteAltitude = errors.New("non-finite altitude")
)
