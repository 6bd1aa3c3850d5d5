package schedule

import (
	"context"
	"errors"

	"meetsched/pkg/types"
)

// MeetingRepository is the persistence collaborator the engine reads
// from and writes through. Implementations live outside this package;
// the engine never caches repository state between calls.
type MeetingRepository interface {
	// MeetingsForDate returns every meeting on a YYYY-MM-DD date,
	// ordered by start time.
	MeetingsForDate(ctx context.Context, date string) ([]types.Meeting, error)
	// Meeting returns a meeting by id, or ErrMeetingNotFound.
	Meeting(ctx context.Context, id int64) (*types.Meeting, error)
	// UpdateMeeting applies a partial update. It returns
	// ErrMeetingNotFound for unknown ids and ErrVersionMismatch when
	// upd.ExpectedVersion does not match the stored version; in both
	// cases the meeting is left unchanged.
	UpdateMeeting(ctx context.Context, id int64, upd types.MeetingUpdate) (*types.Meeting, error)
}

var (
	// ErrMeetingNotFound is returned when a meeting id does not exist.
	ErrMeetingNotFound = errors.New("meeting not found")
	// ErrVersionMismatch is returned when a write carries a stale
	// meeting version; the caller should re-analyze and retry.
	ErrVersionMismatch = errors.New("meeting version mismatch")
	// ErrUnsupportedSuggestion is returned when Resolve is asked to
	// apply a suggestion type it cannot execute.
	ErrUnsupportedSuggestion = errors.New("unsupported suggestion type")
)
