package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"meetsched/internal/schedule"
	"meetsched/pkg/types"
)

// InMemoryRepository is a map-backed meeting store with the same
// semantics as the SQLite repository. It backs tests and runs that do
// not want a database on disk.
type InMemoryRepository struct {
	mu       sync.RWMutex
	meetings map[int64]*types.Meeting
	nextID   int64
}

// NewInMemoryRepository creates an empty in-memory meeting store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		meetings: make(map[int64]*types.Meeting),
		nextID:   1,
	}
}

// CreateMeeting stores a meeting, assigning its id, version and
// timestamps.
func (r *InMemoryRepository) CreateMeeting(_ context.Context, m *types.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	m.ID = r.nextID
	r.nextID++
	m.Version = 1
	m.CreatedAt = now
	m.UpdatedAt = now

	stored := cloneMeeting(m)
	r.meetings[m.ID] = &stored
	return nil
}

// Meeting retrieves a meeting by id.
func (r *InMemoryRepository) Meeting(_ context.Context, id int64) (*types.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.meetings[id]
	if !ok {
		return nil, schedule.ErrMeetingNotFound
	}
	copied := cloneMeeting(m)
	return &copied, nil
}

// MeetingsForDate returns the meetings on a date ordered by start time,
// then id.
func (r *InMemoryRepository) MeetingsForDate(_ context.Context, date string) ([]types.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var meetings []types.Meeting
	for _, m := range r.meetings {
		if m.Date == date {
			meetings = append(meetings, cloneMeeting(m))
		}
	}
	sort.Slice(meetings, func(i, j int) bool {
		if meetings[i].StartTime != meetings[j].StartTime {
			return meetings[i].StartTime < meetings[j].StartTime
		}
		return meetings[i].ID < meetings[j].ID
	})
	return meetings, nil
}

// UpdateMeeting applies a partial update under the same version rules
// as the SQLite repository.
func (r *InMemoryRepository) UpdateMeeting(_ context.Context, id int64, upd types.MeetingUpdate) (*types.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.meetings[id]
	if !ok {
		return nil, schedule.ErrMeetingNotFound
	}
	if current.Version != upd.ExpectedVersion {
		return nil, fmt.Errorf("%w: have %d, expected %d",
			schedule.ErrVersionMismatch, current.Version, upd.ExpectedVersion)
	}

	updated := cloneMeeting(current)
	applyUpdate(&updated, upd)
	updated.Version++
	updated.UpdatedAt = time.Now().UTC()
	r.meetings[id] = &updated

	copied := cloneMeeting(&updated)
	return &copied, nil
}

// DeleteMeeting removes a meeting by id.
func (r *InMemoryRepository) DeleteMeeting(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[id]; !ok {
		return schedule.ErrMeetingNotFound
	}
	delete(r.meetings, id)
	return nil
}

func cloneMeeting(m *types.Meeting) types.Meeting {
	copied := *m
	copied.MandatoryAttendees = append([]string(nil), m.MandatoryAttendees...)
	copied.OptionalAttendees = append([]string(nil), m.OptionalAttendees...)
	return copied
}
