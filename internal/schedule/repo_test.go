package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"meetsched/pkg/types"
)

// fakeRepo is an in-package repository double. The storage package
// imports schedule for the interface, so these tests carry their own
// implementation instead of importing it back.
type fakeRepo struct {
	meetings map[int64]*types.Meeting
	nextID   int64
}

func newFakeRepo(meetings ...types.Meeting) *fakeRepo {
	r := &fakeRepo{meetings: make(map[int64]*types.Meeting)}
	for _, m := range meetings {
		r.add(m)
	}
	return r
}

func (r *fakeRepo) add(m types.Meeting) *types.Meeting {
	r.nextID++
	if m.ID == 0 {
		m.ID = r.nextID
	}
	if m.Version == 0 {
		m.Version = 1
	}
	stored := m
	r.meetings[stored.ID] = &stored
	return &stored
}

func (r *fakeRepo) MeetingsForDate(_ context.Context, date string) ([]types.Meeting, error) {
	var out []types.Meeting
	for _, m := range r.meetings {
		if m.Date == date {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeRepo) Meeting(_ context.Context, id int64) (*types.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, fmt.Errorf("meeting %d: %w", id, ErrMeetingNotFound)
	}
	copied := *m
	return &copied, nil
}

func (r *fakeRepo) UpdateMeeting(_ context.Context, id int64, upd types.MeetingUpdate) (*types.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, fmt.Errorf("meeting %d: %w", id, ErrMeetingNotFound)
	}
	if m.Version != upd.ExpectedVersion {
		return nil, fmt.Errorf("meeting %d at version %d, expected %d: %w",
			id, m.Version, upd.ExpectedVersion, ErrVersionMismatch)
	}
	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.Date != nil {
		m.Date = *upd.Date
	}
	if upd.StartTime != nil {
		m.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		m.EndTime = *upd.EndTime
	}
	if upd.MandatoryAttendees != nil {
		m.MandatoryAttendees = upd.MandatoryAttendees
	}
	if upd.OptionalAttendees != nil {
		m.OptionalAttendees = upd.OptionalAttendees
	}
	m.Version++
	m.UpdatedAt = time.Now().UTC()
	copied := *m
	return &copied, nil
}
