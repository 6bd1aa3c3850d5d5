package schedule

import (
	"context"
	"fmt"
	"sort"

	"meetsched/pkg/types"
)

// SlotSearchConfig bounds the alternative-slot scan.
type SlotSearchConfig struct {
	// GranularityMinutes is the spacing between candidate start times.
	GranularityMinutes int
	// DayStartHour and DayEndHour bound the working window; a candidate
	// must start and end inside [DayStartHour:00, DayEndHour:00].
	DayStartHour int
	DayEndHour   int
	// SearchDays is how many days past the requested date are scanned
	// when the requested date itself yields too few candidates.
	SearchDays int
	// MaxPerFutureDay caps how many candidates each future day may
	// contribute.
	MaxPerFutureDay int
	// MinSameDay is the same-day candidate count below which the future
	// days are scanned at all.
	MinSameDay int
	// MaxResults caps the merged result list.
	MaxResults int
}

// DefaultSlotSearchConfig returns the standard search bounds: 15-minute
// granularity inside 08:00-20:00, a 3-day horizon with at most 3
// candidates per future day, and 5 results.
func DefaultSlotSearchConfig() SlotSearchConfig {
	return SlotSearchConfig{
		GranularityMinutes: 15,
		DayStartHour:       8,
		DayEndHour:         20,
		SearchDays:         3,
		MaxPerFutureDay:    3,
		MinSameDay:         3,
		MaxResults:         5,
	}
}

// SlotCandidate is a conflict-free window of the requested duration,
// scored 0-100 (higher is closer to the original request).
type SlotCandidate struct {
	Slot  types.TimeSlot
	Score int
}

// SlotSearch scans for replacement windows. Meetings for each candidate
// date are fetched once and all candidates on that date are evaluated
// in memory, so a full search costs one repository query per scanned
// day rather than one per slot.
type SlotSearch struct {
	cfg      SlotSearchConfig
	detector *Detector
	repo     MeetingRepository
}

// NewSlotSearch creates a slot search over the given repository.
func NewSlotSearch(cfg SlotSearchConfig, detector *Detector, repo MeetingRepository) *SlotSearch {
	return &SlotSearch{cfg: cfg, detector: detector, repo: repo}
}

// FindAlternatives returns up to MaxResults conflict-free slots for the
// request's duration and mandatory-attendee set, sorted by descending
// score. Same-day candidates score by proximity to the requested start;
// future-day candidates score by day offset. An empty result is a valid
// terminal state, not an error.
func (s *SlotSearch) FindAlternatives(ctx context.Context, req types.ConflictRequest) ([]SlotCandidate, error) {
	window, err := NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	duration := window.Duration()

	candidates, err := s.scanDay(ctx, req, date.String(), duration, func(start ClockTime) int {
		diff := start.Minutes() - window.Start.Minutes()
		if diff < 0 {
			diff = -diff
		}
		return maxInt(20, 100-diff/5)
	}, 0)
	if err != nil {
		return nil, err
	}

	if len(candidates) < s.cfg.MinSameDay {
		for offset := 1; offset <= s.cfg.SearchDays; offset++ {
			score := maxInt(50, 90-offset*10)
			dayCandidates, err := s.scanDay(ctx, req, date.AddDays(offset).String(), duration, func(ClockTime) int {
				return score
			}, s.cfg.MaxPerFutureDay)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, dayCandidates...)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > s.cfg.MaxResults {
		candidates = candidates[:s.cfg.MaxResults]
	}
	return candidates, nil
}

// scanDay enumerates candidate start times on one date and keeps those
// whose window is free of mandatory conflicts. limit of 0 means
// unbounded.
func (s *SlotSearch) scanDay(ctx context.Context, req types.ConflictRequest, date string, duration int, score func(ClockTime) int, limit int) ([]SlotCandidate, error) {
	meetings, err := s.repo.MeetingsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load meetings for %s: %w", date, err)
	}

	dayStart := s.cfg.DayStartHour * 60
	dayEnd := s.cfg.DayEndHour * 60
	// An end hour of 24 means the whole evening, but 24:00 is not a
	// representable clock time, so the last candidate may end at 23:59.
	if dayEnd > 24*60-1 {
		dayEnd = 24*60 - 1
	}

	var candidates []SlotCandidate
	for startMin := dayStart; startMin+duration <= dayEnd; startMin += s.cfg.GranularityMinutes {
		start, err := ClockFromMinutes(startMin)
		if err != nil {
			return nil, err
		}
		end, err := ClockFromMinutes(startMin + duration)
		if err != nil {
			return nil, err
		}

		probe := types.ConflictRequest{
			Date:               date,
			StartTime:          start.String(),
			EndTime:            end.String(),
			MandatoryAttendees: req.MandatoryAttendees,
			ExcludeMeetingID:   req.ExcludeMeetingID,
		}
		conflicts, err := s.detector.Detect(probe, meetings)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			continue
		}
		// A slot that merely dodges overlaps but lands inside the
		// buffer of an adjacent meeting would conflict again on
		// re-analysis, so those are rejected too.
		nearMisses, err := s.detector.CheckBuffer(probe, meetings)
		if err != nil {
			return nil, err
		}
		if len(nearMisses) > 0 {
			continue
		}

		candidates = append(candidates, SlotCandidate{
			Slot: types.TimeSlot{
				Date:      date,
				StartTime: start.String(),
				EndTime:   end.String(),
			},
			Score: score(start),
		})
		if limit > 0 && len(candidates) >= limit {
			break
		}
	}
	return candidates, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
