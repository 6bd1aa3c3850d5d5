package types

// Severity classifies how disruptive a conflict is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank returns the ordering of a severity level, higher is worse.
// Unknown values rank below low so a corrupted record can never
// dominate a real classification.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MaxSeverity returns the more disruptive of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ConflictType identifies what kind of collision a ConflictDetail reports.
type ConflictType string

const (
	// ConflictTypeMandatory is an actual time overlap between meetings
	// sharing at least one mandatory attendee.
	ConflictTypeMandatory ConflictType = "mandatory_conflict"
	// ConflictTypeAttendeeOverlap is reserved for overlaps that involve
	// only optional attendees.
	ConflictTypeAttendeeOverlap ConflictType = "attendee_overlap"
	// ConflictTypeBufferViolation is a near miss: meetings that do not
	// overlap but leave less than the configured buffer between them.
	ConflictTypeBufferViolation ConflictType = "buffer_violation"
)

// SuggestionType identifies the kind of change a suggestion proposes.
type SuggestionType string

const (
	SuggestionReschedule      SuggestionType = "reschedule"
	SuggestionRemoveAttendee  SuggestionType = "remove_attendee"
	SuggestionShortenDuration SuggestionType = "shorten_duration"
	SuggestionBufferAdjust    SuggestionType = "buffer_adjustment"
	SuggestionSplitMeeting    SuggestionType = "split_meeting"
)

// SuggestionPriority ranks suggestions for presentation.
type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
	PriorityLow    SuggestionPriority = "low"
)

// ImpactLevel describes how much a suggestion changes the meeting.
type ImpactLevel string

const (
	ImpactMinimal     ImpactLevel = "minimal"
	ImpactModerate    ImpactLevel = "moderate"
	ImpactSignificant ImpactLevel = "significant"
)

// ConflictRequest describes a candidate meeting window to analyze.
// ExcludeMeetingID is non-zero when re-analyzing an existing meeting
// so it does not conflict with itself.
type ConflictRequest struct {
	Date               string   `json:"date"`
	StartTime          string   `json:"startTime"`
	EndTime            string   `json:"endTime"`
	MandatoryAttendees []string `json:"mandatoryAttendees"`
	OptionalAttendees  []string `json:"optionalAttendees,omitempty"`
	ExcludeMeetingID   int64    `json:"excludeMeetingId,omitempty"`
}

// ConflictDetail reports a single collision between the request and an
// existing meeting. Details are created fresh on every analysis and are
// never persisted.
type ConflictDetail struct {
	ID                string       `json:"id"`
	Type              ConflictType `json:"type"`
	MeetingID         int64        `json:"meetingId"`
	MeetingTitle      string       `json:"meetingTitle"`
	AffectedAttendees []string     `json:"affectedAttendees"`
	// ConflictMinutes is the overlap duration for mandatory conflicts
	// and the configured buffer size for buffer violations.
	ConflictMinutes int      `json:"conflictMinutes"`
	Severity        Severity `json:"severity"`
	Description     string   `json:"description"`
}

// TimeSlot is a proposed replacement window for a meeting.
type TimeSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AttendeeChange lists attendee adjustments proposed by a suggestion.
type AttendeeChange struct {
	Remove           []string `json:"remove,omitempty"`
	DemoteToOptional []string `json:"demoteToOptional,omitempty"`
}

// ConflictSuggestion is one automatically computed way out of a
// conflict, scored 0-100 by feasibility (higher is more workable).
type ConflictSuggestion struct {
	ID               string             `json:"id"`
	Type             SuggestionType     `json:"type"`
	Description      string             `json:"description"`
	NewSlot          *TimeSlot          `json:"newSlot,omitempty"`
	AttendeeChange   *AttendeeChange    `json:"attendeeChange,omitempty"`
	NewDuration      int                `json:"newDuration,omitempty"`
	Priority         SuggestionPriority `json:"priority"`
	FeasibilityScore int                `json:"feasibilityScore"`
	ImpactLevel      ImpactLevel        `json:"impactLevel"`
}

// ConflictAnalysis is the complete result of analyzing one request.
// Conflicts keep detection order; suggestions are sorted by descending
// feasibility score.
type ConflictAnalysis struct {
	HasConflicts   bool                 `json:"hasConflicts"`
	Conflicts      []ConflictDetail     `json:"conflicts"`
	Suggestions    []ConflictSuggestion `json:"suggestions"`
	Severity       Severity             `json:"severity"`
	TotalConflicts int                  `json:"totalConflicts"`
}
