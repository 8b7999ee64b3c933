package discord

import (
	"errors"

	"pollbot/internal/domain/poll"
	"pollbot/internal/platform/apperr"
)

// mapError translates domain errors into the taxonomy used for the
// requester-facing ephemeral notice. Failures never touch the shared
// poll message.
func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "something went wrong, try again", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, poll.ErrInvalidInput):
		return apperr.InvalidInput("invalid_options", "provide at least one comma-separated option (25 at most)", err)
	case errors.Is(err, poll.ErrSessionNotFound):
		return apperr.NotFound("poll_not_found", "this poll is no longer tracked", err)
	case errors.Is(err, poll.ErrSessionClosed):
		return apperr.Gone("poll_closed", "voting has ended for this poll", err)
	case errors.Is(err, poll.ErrDuplicateVoter):
		return apperr.Conflict("already_voted", "you already voted in this poll", err)
	case errors.Is(err, poll.ErrInvalidOption):
		return apperr.InvalidInput("invalid_option", "that option is not part of this poll", err)
	default:
		return apperr.Internal("internal_error", "something went wrong, try again", err)
	}
}
