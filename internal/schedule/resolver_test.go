package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetsched/pkg/types"
)

func newTestResolver(repo MeetingRepository) *Resolver {
	detector := NewDetector(10)
	slots := NewSlotSearch(DefaultSlotSearchConfig(), detector, repo)
	return NewResolver(repo, detector, slots, nil)
}

func TestAnalyzeOverlapScenario(t *testing.T) {
	repo := newFakeRepo(
		testMeeting(0, "Standup", "09:00", "10:00", []string{"alice"}, nil),
	)
	resolver := newTestResolver(repo)

	req := types.ConflictRequest{
		Date:               "2025-06-02",
		StartTime:          "09:30",
		EndTime:            "10:30",
		MandatoryAttendees: []string{"alice"},
	}
	analysis, err := resolver.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, analysis.HasConflicts)
	assert.Equal(t, 1, analysis.TotalConflicts)
	require.Len(t, analysis.Conflicts, 1)
	assert.Equal(t, types.ConflictTypeMandatory, analysis.Conflicts[0].Type)
	assert.Equal(t, 30, analysis.Conflicts[0].ConflictMinutes)
	assert.Equal(t, types.SeverityMedium, analysis.Severity)

	require.NotEmpty(t, analysis.Suggestions)
	top := analysis.Suggestions[0]
	assert.Equal(t, types.SuggestionReschedule, top.Type)
	assert.Equal(t, types.PriorityHigh, top.Priority)
	require.NotNil(t, top.NewSlot)
	assert.Equal(t, "10:15", top.NewSlot.StartTime, "10:00 sits inside the buffer")
}

func TestAnalyzeBufferScenario(t *testing.T) {
	repo := newFakeRepo(
		testMeeting(0, "Standup", "09:00", "10:00", []string{"alice"}, nil),
	)
	resolver := newTestResolver(repo)

	analysis, err := resolver.Analyze(context.Background(), types.ConflictRequest{
		Date:               "2025-06-02",
		StartTime:          "10:05",
		EndTime:            "10:35",
		MandatoryAttendees: []string{"alice"},
	})
	require.NoError(t, err)

	assert.True(t, analysis.HasConflicts)
	require.Len(t, analysis.Conflicts, 1)
	c := analysis.Conflicts[0]
	assert.Equal(t, types.ConflictTypeBufferViolation, c.Type)
	assert.Equal(t, 10, c.ConflictMinutes)
	assert.Equal(t, types.SeverityMedium, analysis.Severity)
}

func TestAnalyzeCleanDay(t *testing.T) {
	resolver := newTestResolver(newFakeRepo())

	analysis, err := resolver.Analyze(context.Background(), types.ConflictRequest{
		Date:               "2025-06-02",
		StartTime:          "09:00",
		EndTime:            "10:00",
		MandatoryAttendees: []string{"alice"},
	})
	require.NoError(t, err)

	assert.False(t, analysis.HasConflicts)
	assert.Equal(t, 0, analysis.TotalConflicts)
	assert.Empty(t, analysis.Conflicts)
	assert.NotNil(t, analysis.Suggestions)
	assert.Empty(t, analysis.Suggestions)
	assert.Equal(t, types.SeverityLow, analysis.Severity)
}

func TestAnalyzeOverlapsPrecedeBufferViolations(t *testing.T) {
	repo := newFakeRepo(
		testMeeting(0, "Adjacent", "08:00", "09:25", []string{"alice"}, nil),
		testMeeting(0, "Overlapping", "10:00", "11:00", []string{"alice"}, nil),
	)
	resolver := newTestResolver(repo)

	analysis, err := resolver.Analyze(context.Background(), types.ConflictRequest{
		Date:               "2025-06-02",
		StartTime:          "09:30",
		EndTime:            "10:30",
		MandatoryAttendees: []string{"alice"},
	})
	require.NoError(t, err)

	require.Len(t, analysis.Conflicts, 2)
	assert.Equal(t, types.ConflictTypeMandatory, analysis.Conflicts[0].Type)
	assert.Equal(t, types.ConflictTypeBufferViolation, analysis.Conflicts[1].Type)
}

func TestAnalyzeIdempotent(t *testing.T) {
	repo := newFakeRepo(
		testMeeting(0, "Standup", "09:00", "10:00", []string{"alice"}, []string{"bob"}),
	)
	resolver := newTestResolver(repo)
	req := types.ConflictRequest{
		Date:               "2025-06-02",
		StartTime:          "09:30",
		EndTime:            "10:30",
		MandatoryAttendees: []string{"alice"},
		OptionalAttendees:  []string{"bob"},
	}

	first, err := resolver.Analyze(context.Background(), req)
	require.NoError(t, err)
	second, err := resolver.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// Every suggested reschedule slot must itself analyze clean.
func TestAnalyzeSuggestedSlotsAreConflictFree(t *testing.T) {
	repo := newFakeRepo(
		testMeeting(0, "Standup", "09:00", "10:00", []string{"alice"}, nil),
		testMeeting(0, "Review", "11:00", "12:00", []string{"alice"}, nil),
	)
	resolver := newTestResolver(repo)

	analysis, err := resolver.Analyze(context.Background(), types.ConflictRequest{
		Date:               "2025-06-02",
		StartTime:          "09:30",
		EndTime:            "10:30",
		MandatoryAttendees: []string{"alice"},
	})
	require.NoError(t, err)
	require.True(t, analysis.HasConflicts)

	for _, s := range analysis.Suggestions {
		if s.Type != types.SuggestionReschedule {
			continue
		}
		require.NotNil(t, s.NewSlot)
		recheck, err := resolver.Analyze(context.Background(), types.ConflictRequest{
			Date:               s.NewSlot.Date,
			StartTime:          s.NewSlot.StartTime,
			EndTime:            s.NewSlot.EndTime,
			MandatoryAttendees: []string{"alice"},
		})
		require.NoError(t, err)
		assert.False(t, recheck.HasConflicts,
			"suggested slot %s %s-%s still conflicts", s.NewSlot.Date, s.NewSlot.StartTime, s.NewSlot.EndTime)
	}
}

func TestResolveReschedule(t *testing.T) {
	repo := newFakeRepo(
		testMeeting(0, "Standup", "09:00", "10:00", []string{"alice"}, nil),
	)
	resolver := newTestResolver(repo)

	err := resolver.Resolve(context.Background(), 1, 1, types.ConflictSuggestion{
		ID:   "reschedule-1",
		Type: types.SuggestionReschedule,
		NewSlot: &types.TimeSlot{
			Date:      "2025-06-03",
			StartTime: "14:00",
			EndTime:   "15:00",
		},
	})
	require.NoError(t, err)

	m, err := repo.Meeting(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03", m.Date)
	assert.Equal(t, "14:00", m.StartTime)
	assert.Equal(t, "15:00", m.EndTime)
	assert.Equal(t, int64(2), m.Version, "a successful resolve bumps the version")
}

func TestResolveRemoveAttendee(t *testing.T) {
	repo := newFakeRepo(
		testMeeting(0, "Standup", "09:00", "10:00", []string{"alice"}, []string{"bob", "carol"}),
	)
	resolver := newTestResolver(repo)

	err := resolver.Resolve(context.Background(), 1, 1, types.ConflictSuggestion{
		ID:             "remove_attendee-1",
		Type:           types.SuggestionRemoveAttendee,
		AttendeeChange: &types.AttendeeChange{Remove: []string{"bob"}},
	})
	require.NoError(t, err)

	m, err := repo.Meeting(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, m.OptionalAttendees)
	assert.Equal(t, []string{"alice"}, m.MandatoryAttendees, "mandatory attendees are untouched")
}

func TestResolveShortenDuration(t *testing.T) {
	repo := newFakeRepo(
		testMeeting(0, "Standup", "10:00", "11:00", []string{"alice"}, nil),
	)
	resolver := newTestResolver(repo)

	err := resolver.Resolve(context.Background(), 1, 1, types.ConflictSuggestion{
		ID:          "shorten_duration-1",
		Type:        types.SuggestionShortenDuration,
		NewDuration: 30,
	})
	require.NoError(t, err)

	m, err := repo.Meeting(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "10:00", m.StartTime)
	assert.Equal(t, "10:30", m.EndTime)
}

func TestResolveErrors(t *testing.T) {
	repo := newFakeRepo(
		testMeeting(0, "Standup", "09:00", "10:00", []string{"alice"}, nil),
	)
	resolver := newTestResolver(repo)

	t.Run("unknown meeting", func(t *testing.T) {
		err := resolver.Resolve(context.Background(), 99, 1, types.ConflictSuggestion{
			Type:        types.SuggestionShortenDuration,
			NewDuration: 30,
		})
		assert.ErrorIs(t, err, ErrMeetingNotFound)
	})

	t.Run("stale version", func(t *testing.T) {
		err := resolver.Resolve(context.Background(), 1, 7, types.ConflictSuggestion{
			Type:        types.SuggestionShortenDuration,
			NewDuration: 30,
		})
		assert.ErrorIs(t, err, ErrVersionMismatch)

		m, repoErr := repo.Meeting(context.Background(), 1)
		require.NoError(t, repoErr)
		assert.Equal(t, "10:00", m.EndTime, "a rejected write leaves the meeting unchanged")
		assert.Equal(t, int64(1), m.Version)
	})

	t.Run("unsupported type", func(t *testing.T) {
		err := resolver.Resolve(context.Background(), 1, 1, types.ConflictSuggestion{
			Type: types.SuggestionBufferAdjust,
		})
		assert.ErrorIs(t, err, ErrUnsupportedSuggestion)
	})

	t.Run("reschedule without slot", func(t *testing.T) {
		err := resolver.Resolve(context.Background(), 1, 1, types.ConflictSuggestion{
			Type: types.SuggestionReschedule,
		})
		assert.Error(t, err)
	})

	t.Run("reschedule with invalid slot", func(t *testing.T) {
		err := resolver.Resolve(context.Background(), 1, 1, types.ConflictSuggestion{
			Type: types.SuggestionReschedule,
			NewSlot: &types.TimeSlot{
				Date:      "2025-06-03",
				StartTime: "15:00",
				EndTime:   "14:00",
			},
		})
		assert.Error(t, err)
	})
}
