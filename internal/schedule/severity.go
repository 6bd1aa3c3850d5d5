package schedule

import "meetsched/pkg/types"

// Classification thresholds. A conflict is high when three or more
// mandatory attendees are double-booked or the overlap eats an hour,
// medium for two attendees or a half-hour overlap, low otherwise.
const (
	highAttendeeCount = 3
	highOverlapMin    = 60
	mediumAttendee    = 2
	mediumOverlapMin  = 30
)

// ClassifySeverity maps the shared-attendee count and overlap duration
// of a single conflict to a severity level.
func ClassifySeverity(attendeeCount, overlapMinutes int) types.Severity {
	switch {
	case attendeeCount >= highAttendeeCount || overlapMinutes >= highOverlapMin:
		return types.SeverityHigh
	case attendeeCount >= mediumAttendee || overlapMinutes >= mediumOverlapMin:
		return types.SeverityMedium
	default:
		return types.SeverityLow
	}
}

// OverallSeverity returns the maximum severity across all conflicts,
// or low for an empty list.
func OverallSeverity(conflicts []types.ConflictDetail) types.Severity {
	overall := types.SeverityLow
	for _, c := range conflicts {
		overall = types.MaxSeverity(overall, c.Severity)
	}
	return overall
}
