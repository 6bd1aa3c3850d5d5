package schedule

import (
	"context"
	"fmt"

	"meetsched/internal/logging"
	"meetsched/pkg/types"
)

// Resolver wires the detector, buffer check, slot search and suggestion
// generation into the two operations callers use: Analyze and Resolve.
// It holds no mutable state of its own; all state lives in the
// repository, so a single Resolver is safe for concurrent requests.
type Resolver struct {
	repo     MeetingRepository
	detector *Detector
	slots    *SlotSearch
	logger   logging.Logger
}

// NewResolver creates a resolver over the given repository.
func NewResolver(repo MeetingRepository, detector *Detector, slots *SlotSearch, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNoop()
	}
	return &Resolver{
		repo:     repo,
		detector: detector,
		slots:    slots,
		logger:   logger.WithComponent("resolver"),
	}
}

// Analyze runs conflict detection and suggestion generation for one
// candidate meeting window. It performs no mutation, and an unchanged
// repository yields identical output for identical input. Overlap
// conflicts precede buffer violations in the result.
func (r *Resolver) Analyze(ctx context.Context, req types.ConflictRequest) (*types.ConflictAnalysis, error) {
	meetings, err := r.repo.MeetingsForDate(ctx, req.Date)
	if err != nil {
		return nil, fmt.Errorf("load meetings for %s: %w", req.Date, err)
	}

	conflicts, err := r.detector.Detect(req, meetings)
	if err != nil {
		return nil, err
	}
	bufferViolations, err := r.detector.CheckBuffer(req, meetings)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, bufferViolations...)

	analysis := &types.ConflictAnalysis{
		HasConflicts:   len(conflicts) > 0,
		Conflicts:      conflicts,
		Suggestions:    []types.ConflictSuggestion{},
		Severity:       types.SeverityLow,
		TotalConflicts: len(conflicts),
	}
	if len(conflicts) == 0 {
		return analysis, nil
	}

	analysis.Severity = OverallSeverity(conflicts)

	alternatives, err := r.slots.FindAlternatives(ctx, req)
	if err != nil {
		return nil, err
	}
	analysis.Suggestions = GenerateSuggestions(req, conflicts, alternatives)

	r.logger.Debug("analysis complete",
		"date", req.Date,
		"conflicts", len(conflicts),
		"suggestions", len(analysis.Suggestions),
		"severity", string(analysis.Severity))
	return analysis, nil
}

// Resolve applies a chosen suggestion to a stored meeting. version is
// the meeting version the caller read before choosing; a stale version
// fails with ErrVersionMismatch and no write. The update is all or
// nothing, and no re-analysis happens here: callers re-run Analyze
// after a successful resolve if they want to check the new slot.
func (r *Resolver) Resolve(ctx context.Context, meetingID, version int64, sug types.ConflictSuggestion) error {
	meeting, err := r.repo.Meeting(ctx, meetingID)
	if err != nil {
		return err
	}

	upd := types.MeetingUpdate{ExpectedVersion: version}
	switch sug.Type {
	case types.SuggestionReschedule:
		if sug.NewSlot == nil {
			return fmt.Errorf("reschedule suggestion %s carries no time slot", sug.ID)
		}
		if _, err := ParseDate(sug.NewSlot.Date); err != nil {
			return err
		}
		if _, err := NewInterval(sug.NewSlot.StartTime, sug.NewSlot.EndTime); err != nil {
			return err
		}
		upd.Date = &sug.NewSlot.Date
		upd.StartTime = &sug.NewSlot.StartTime
		upd.EndTime = &sug.NewSlot.EndTime

	case types.SuggestionRemoveAttendee:
		if sug.AttendeeChange == nil || len(sug.AttendeeChange.Remove) == 0 {
			return fmt.Errorf("remove_attendee suggestion %s lists no attendees", sug.ID)
		}
		upd.OptionalAttendees = withoutAttendees(meeting.OptionalAttendees, sug.AttendeeChange.Remove)

	case types.SuggestionShortenDuration:
		if sug.NewDuration <= 0 {
			return fmt.Errorf("shorten_duration suggestion %s carries no duration", sug.ID)
		}
		start, err := ParseClock(meeting.StartTime)
		if err != nil {
			return fmt.Errorf("meeting %d has invalid start time: %w", meetingID, err)
		}
		end, err := ClockFromMinutes(start.Minutes() + sug.NewDuration)
		if err != nil {
			return fmt.Errorf("shortened end time out of range: %w", err)
		}
		endStr := end.String()
		upd.EndTime = &endStr

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSuggestion, sug.Type)
	}

	if _, err := r.repo.UpdateMeeting(ctx, meetingID, upd); err != nil {
		return err
	}
	r.logger.Info("suggestion applied",
		"meeting_id", meetingID,
		"suggestion", string(sug.Type))
	return nil
}

// withoutAttendees returns attendees minus every entry in remove.
// A nil result is normalized to an empty slice so the repository
// stores an updated value rather than skipping the field.
func withoutAttendees(attendees, remove []string) []string {
	drop := make(map[string]struct{}, len(remove))
	for _, name := range remove {
		drop[name] = struct{}{}
	}
	kept := make([]string, 0, len(attendees))
	for _, name := range attendees {
		if _, ok := drop[name]; !ok {
			kept = append(kept, name)
		}
	}
	return kept
}
