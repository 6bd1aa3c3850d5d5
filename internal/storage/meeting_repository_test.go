package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetsched/internal/config"
	"meetsched/internal/schedule"
	"meetsched/pkg/types"
)

// meetingStore is the surface the suite exercises; both repositories
// must behave identically behind it.
type meetingStore interface {
	CreateMeeting(ctx context.Context, m *types.Meeting) error
	Meeting(ctx context.Context, id int64) (*types.Meeting, error)
	MeetingsForDate(ctx context.Context, date string) ([]types.Meeting, error)
	UpdateMeeting(ctx context.Context, id int64, upd types.MeetingUpdate) (*types.Meeting, error)
	DeleteMeeting(ctx context.Context, id int64) error
}

func newSQLiteStore(t *testing.T) meetingStore {
	t.Helper()
	db, err := Open(config.DatabaseConfig{
		Path:          filepath.Join(t.TempDir(), "meetsched.db"),
		BusyTimeoutMS: 5000,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMeetingRepository(db)
}

func runStoreTests(t *testing.T, newStore func(t *testing.T) meetingStore) {
	ctx := context.Background()

	sample := func() *types.Meeting {
		return &types.Meeting{
			Title:              "Sprint planning",
			Date:               "2025-06-02",
			StartTime:          "09:00",
			EndTime:            "10:00",
			MandatoryAttendees: []string{"alice", "bob"},
			OptionalAttendees:  []string{"carol"},
			Scheduler:          "alice",
		}
	}

	t.Run("create and get", func(t *testing.T) {
		store := newStore(t)
		m := sample()
		require.NoError(t, store.CreateMeeting(ctx, m))
		assert.Positive(t, m.ID)
		assert.Equal(t, int64(1), m.Version)
		assert.False(t, m.CreatedAt.IsZero())

		got, err := store.Meeting(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m.Title, got.Title)
		assert.Equal(t, m.Date, got.Date)
		assert.Equal(t, m.StartTime, got.StartTime)
		assert.Equal(t, m.EndTime, got.EndTime)
		assert.Equal(t, []string{"alice", "bob"}, got.MandatoryAttendees)
		assert.Equal(t, []string{"carol"}, got.OptionalAttendees)
		assert.Equal(t, "alice", got.Scheduler)
		assert.Equal(t, int64(1), got.Version)
	})

	t.Run("nil attendees round-trip empty", func(t *testing.T) {
		store := newStore(t)
		m := sample()
		m.MandatoryAttendees = []string{"alice"}
		m.OptionalAttendees = nil
		require.NoError(t, store.CreateMeeting(ctx, m))

		got, err := store.Meeting(ctx, m.ID)
		require.NoError(t, err)
		assert.Empty(t, got.OptionalAttendees)
	})

	t.Run("get unknown", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Meeting(ctx, 999)
		assert.ErrorIs(t, err, schedule.ErrMeetingNotFound)
	})

	t.Run("meetings for date ordering", func(t *testing.T) {
		store := newStore(t)
		for _, slot := range []struct{ start, end, date string }{
			{start: "14:00", end: "15:00", date: "2025-06-02"},
			{start: "09:00", end: "10:00", date: "2025-06-02"},
			{start: "11:00", end: "12:00", date: "2025-06-02"},
			{start: "08:00", end: "09:00", date: "2025-06-03"},
		} {
			m := sample()
			m.StartTime = slot.start
			m.EndTime = slot.end
			m.Date = slot.date
			require.NoError(t, store.CreateMeeting(ctx, m))
		}

		meetings, err := store.MeetingsForDate(ctx, "2025-06-02")
		require.NoError(t, err)
		require.Len(t, meetings, 3)
		assert.Equal(t, "09:00", meetings[0].StartTime)
		assert.Equal(t, "11:00", meetings[1].StartTime)
		assert.Equal(t, "14:00", meetings[2].StartTime)

		empty, err := store.MeetingsForDate(ctx, "2025-06-09")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("update bumps version", func(t *testing.T) {
		store := newStore(t)
		m := sample()
		require.NoError(t, store.CreateMeeting(ctx, m))

		newEnd := "09:30"
		updated, err := store.UpdateMeeting(ctx, m.ID, types.MeetingUpdate{
			EndTime:         &newEnd,
			ExpectedVersion: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "09:30", updated.EndTime)
		assert.Equal(t, "09:00", updated.StartTime, "untouched fields survive")
		assert.Equal(t, int64(2), updated.Version)

		got, err := store.Meeting(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "09:30", got.EndTime)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("stale version rejected", func(t *testing.T) {
		store := newStore(t)
		m := sample()
		require.NoError(t, store.CreateMeeting(ctx, m))

		title := "Renamed"
		_, err := store.UpdateMeeting(ctx, m.ID, types.MeetingUpdate{
			Title:           &title,
			ExpectedVersion: 1,
		})
		require.NoError(t, err)

		// Same expected version again is now stale.
		_, err = store.UpdateMeeting(ctx, m.ID, types.MeetingUpdate{
			Title:           &title,
			ExpectedVersion: 1,
		})
		assert.ErrorIs(t, err, schedule.ErrVersionMismatch)

		got, err := store.Meeting(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Version, "a rejected write leaves the row unchanged")
	})

	t.Run("update unknown", func(t *testing.T) {
		store := newStore(t)
		title := "Renamed"
		_, err := store.UpdateMeeting(ctx, 999, types.MeetingUpdate{
			Title:           &title,
			ExpectedVersion: 1,
		})
		assert.ErrorIs(t, err, schedule.ErrMeetingNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		m := sample()
		require.NoError(t, store.CreateMeeting(ctx, m))

		require.NoError(t, store.DeleteMeeting(ctx, m.ID))
		_, err := store.Meeting(ctx, m.ID)
		assert.ErrorIs(t, err, schedule.ErrMeetingNotFound)
		assert.ErrorIs(t, store.DeleteMeeting(ctx, m.ID), schedule.ErrMeetingNotFound)
	})
}

func TestSQLiteMeetingRepository(t *testing.T) {
	runStoreTests(t, newSQLiteStore)
}

func TestInMemoryRepository(t *testing.T) {
	runStoreTests(t, func(t *testing.T) meetingStore {
		return NewInMemoryRepository()
	})
}
