package votecount

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every error caused by bad input
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvariantViolation is wrapped by every error revealing a logic defect.
	// The tabulation is aborted and no result is committed
	ErrInvariantViolation = errors.New("invariant violation")

	ErrInvalidSeats           = fmt.Errorf("%w: seats must be at least one", ErrInvalidArgument)
	ErrNoBallots              = fmt.Errorf("%w: require at least one ballot", ErrInvalidArgument)
	ErrEmptyBallot            = fmt.Errorf("%w: ballot holds no vote", ErrInvalidArgument)
	ErrDuplicateCandidate     = fmt.Errorf("%w: candidate ranked more than once", ErrInvalidArgument)
	ErrMalformedBallot        = fmt.Errorf("%w: malformed ballot", ErrInvalidArgument)
	ErrUnknownCandidate       = fmt.Errorf("%w: unknown candidate", ErrInvalidArgument)
	ErrUnknownMethod          = fmt.Errorf("%w: unknown tabulation method", ErrInvalidArgument)
	ErrUnknownTiebreaker      = fmt.Errorf("%w: unknown tiebreaker", ErrInvalidArgument)
	ErrNoCandidates           = fmt.Errorf("%w: no candidate to break the tie", ErrInvalidArgument)
	ErrNilMethod              = fmt.Errorf("%w: method is required", ErrInvalidArgument)
	ErrInvalidPrecision       = fmt.Errorf("%w: precision must be between 1 and 28", ErrInvalidArgument)
	ErrDataDirRequired        = fmt.Errorf("%w: data dir is required", ErrInvalidArgument)
	ErrInvalidMetrics         = fmt.Errorf("%w: metrics cannot be registered", ErrInvalidArgument)
	ErrSingleSeatMethod       = fmt.Errorf("%w: method fills a single seat", ErrInvalidArgument)
	ErrTooManyElected         = fmt.Errorf("%w: elected more candidates than seats", ErrInvariantViolation)
	ErrInvalidStateTransition = fmt.Errorf("%w: candidate can only leave the hopeful state", ErrInvariantViolation)
	ErrUnresolvedTie          = fmt.Errorf("%w: no tiebreaker resolved the tie", ErrInvariantViolation)
	ErrRoundLimitExceeded     = fmt.Errorf("%w: round limit exceeded", ErrInvariantViolation)
	ErrRecordNotFound         = errors.New("record not found")
)
