package schedule

import (
	"fmt"

	"meetsched/pkg/types"
)

// Detector finds collisions between a candidate meeting window and the
// meetings already booked on a date. It is stateless and safe for
// concurrent use.
type Detector struct {
	bufferMinutes int
}

// NewDetector creates a detector with the given near-miss buffer in
// minutes.
func NewDetector(bufferMinutes int) *Detector {
	return &Detector{bufferMinutes: bufferMinutes}
}

// BufferMinutes returns the configured near-miss buffer.
func (d *Detector) BufferMinutes() int { return d.bufferMinutes }

// Detect reports one mandatory conflict per existing meeting that both
// shares a mandatory attendee with the request and overlaps its window.
// Results keep the order of the input meetings so repeated analyses of
// an unchanged day are reproducible.
func (d *Detector) Detect(req types.ConflictRequest, meetings []types.Meeting) ([]types.ConflictDetail, error) {
	window, err := NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	var conflicts []types.ConflictDetail
	for _, m := range meetings {
		if m.ID == req.ExcludeMeetingID {
			continue
		}
		if len(intersect(req.MandatoryAttendees, m.MandatoryAttendees)) == 0 {
			continue
		}
		other, err := NewInterval(m.StartTime, m.EndTime)
		if err != nil {
			return nil, fmt.Errorf("meeting %d has invalid times: %w", m.ID, err)
		}
		if !window.Overlaps(other) {
			continue
		}
		// The conflict triggers on mandatory attendees only, but the
		// reported set covers every attendee both sides have booked.
		affected := intersect(
			append(append([]string{}, req.MandatoryAttendees...), req.OptionalAttendees...),
			append(append([]string{}, m.MandatoryAttendees...), m.OptionalAttendees...),
		)
		overlap := window.OverlapMinutes(other)
		conflicts = append(conflicts, types.ConflictDetail{
			ID:                fmt.Sprintf("%s-%d", types.ConflictTypeMandatory, m.ID),
			Type:              types.ConflictTypeMandatory,
			MeetingID:         m.ID,
			MeetingTitle:      m.Title,
			AffectedAttendees: affected,
			ConflictMinutes:   overlap,
			Severity:          ClassifySeverity(len(affected), overlap),
			Description: fmt.Sprintf("Overlaps %q (%s-%s) by %d minutes for %s",
				m.Title, m.StartTime, m.EndTime, overlap, joinAttendees(affected)),
		})
	}
	return conflicts, nil
}

// CheckBuffer reports buffer violations: meetings that share a
// mandatory attendee, do not overlap the request (overlaps are already
// reported by Detect) and leave less than the configured buffer around
// it. The reported conflict duration is the buffer size itself, not the
// actual gap, and severity is always medium.
func (d *Detector) CheckBuffer(req types.ConflictRequest, meetings []types.Meeting) ([]types.ConflictDetail, error) {
	window, err := NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	var violations []types.ConflictDetail
	for _, m := range meetings {
		if m.ID == req.ExcludeMeetingID {
			continue
		}
		shared := intersect(req.MandatoryAttendees, m.MandatoryAttendees)
		if len(shared) == 0 {
			continue
		}
		other, err := NewInterval(m.StartTime, m.EndTime)
		if err != nil {
			return nil, fmt.Errorf("meeting %d has invalid times: %w", m.ID, err)
		}
		if !window.WithinBuffer(other, d.bufferMinutes) {
			continue
		}
		violations = append(violations, types.ConflictDetail{
			ID:                fmt.Sprintf("%s-%d", types.ConflictTypeBufferViolation, m.ID),
			Type:              types.ConflictTypeBufferViolation,
			MeetingID:         m.ID,
			MeetingTitle:      m.Title,
			AffectedAttendees: shared,
			ConflictMinutes:   d.bufferMinutes,
			Severity:          types.SeverityMedium,
			Description: fmt.Sprintf("Less than %d minutes between this meeting and %q (%s-%s) for %s",
				d.bufferMinutes, m.Title, m.StartTime, m.EndTime, joinAttendees(shared)),
		})
	}
	return violations, nil
}

// intersect returns the members of a that also appear in b, keeping the
// order of a.
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(b))
	for _, name := range b {
		set[name] = struct{}{}
	}
	var shared []string
	for _, name := range a {
		if _, ok := set[name]; ok {
			shared = append(shared, name)
		}
	}
	return shared
}

func joinAttendees(names []string) string {
	switch len(names) {
	case 0:
		return "no attendees"
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%s and %d others", names[0], len(names)-1)
	}
}
