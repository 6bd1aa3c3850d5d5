package schedule

import (
	"fmt"
	"sort"

	"meetsched/pkg/types"
)

// Feasibility scores for the non-reschedule suggestion categories.
// Reschedule suggestions carry the slot-search score instead.
const (
	removeAttendeeScore  = 85
	shortenDurationScore = 70
	shortenStepMinutes   = 15
	shortenFloorMinutes  = 30
)

// GenerateSuggestions composes the suggestion list for a conflicted
// request: one reschedule per alternative slot, one optional-attendee
// removal when conflicted attendees are optional on the request, and
// one duration cut when the meeting is long enough to shrink. The
// returned list is sorted by descending feasibility; ties keep
// generation order. Suggestion ids are deterministic so identical
// analyses produce identical output.
func GenerateSuggestions(req types.ConflictRequest, conflicts []types.ConflictDetail, slots []SlotCandidate) []types.ConflictSuggestion {
	var suggestions []types.ConflictSuggestion

	for i, candidate := range slots {
		slot := candidate.Slot
		priority := types.PriorityMedium
		if i == 0 {
			priority = types.PriorityHigh
		}
		suggestions = append(suggestions, types.ConflictSuggestion{
			ID:          fmt.Sprintf("%s-%d", types.SuggestionReschedule, i+1),
			Type:        types.SuggestionReschedule,
			Description: fmt.Sprintf("Move the meeting to %s %s-%s", slot.Date, slot.StartTime, slot.EndTime),
			NewSlot: &types.TimeSlot{
				Date:      slot.Date,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			},
			Priority:         priority,
			FeasibilityScore: candidate.Score,
			ImpactLevel:      types.ImpactMinimal,
		})
	}

	if removable := conflictedOptionals(req, conflicts); len(removable) > 0 {
		suggestions = append(suggestions, types.ConflictSuggestion{
			ID:          fmt.Sprintf("%s-1", types.SuggestionRemoveAttendee),
			Type:        types.SuggestionRemoveAttendee,
			Description: fmt.Sprintf("Drop %d optional attendee(s) with conflicting commitments", len(removable)),
			AttendeeChange: &types.AttendeeChange{
				Remove: removable,
			},
			Priority:         types.PriorityMedium,
			FeasibilityScore: removeAttendeeScore,
			ImpactLevel:      types.ImpactModerate,
		})
	}

	if window, err := NewInterval(req.StartTime, req.EndTime); err == nil && window.Duration() > shortenFloorMinutes {
		newDuration := window.Duration() - shortenStepMinutes
		if newDuration < shortenFloorMinutes {
			newDuration = shortenFloorMinutes
		}
		suggestions = append(suggestions, types.ConflictSuggestion{
			ID:               fmt.Sprintf("%s-1", types.SuggestionShortenDuration),
			Type:             types.SuggestionShortenDuration,
			Description:      fmt.Sprintf("Shorten the meeting to %d minutes", newDuration),
			NewDuration:      newDuration,
			Priority:         types.PriorityLow,
			FeasibilityScore: shortenDurationScore,
			ImpactLevel:      types.ImpactModerate,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].FeasibilityScore > suggestions[j].FeasibilityScore
	})
	return suggestions
}

// conflictedOptionals returns the request's optional attendees that
// appear in any conflict's affected set, keeping request order.
func conflictedOptionals(req types.ConflictRequest, conflicts []types.ConflictDetail) []string {
	affected := make(map[string]struct{})
	for _, c := range conflicts {
		for _, name := range c.AffectedAttendees {
			affected[name] = struct{}{}
		}
	}
	var removable []string
	for _, name := range req.OptionalAttendees {
		if _, ok := affected[name]; ok {
			removable = append(removable, name)
		}
	}
	return removable
}
