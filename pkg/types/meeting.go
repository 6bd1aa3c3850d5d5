// Package types contains the shared domain types for the meetsched
// conflict engine: meetings, conflict details, suggestions and the
// analysis aggregate returned to callers.
package types

import "time"

// Meeting represents a scheduled meeting as stored in the repository.
// Date is YYYY-MM-DD and StartTime/EndTime are 24-hour HH:MM strings;
// a meeting never spans midnight and StartTime < EndTime. Attendee
// entries are opaque unique identifiers. Version increments on every
// write and backs optimistic concurrency on updates.
type Meeting struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Date               string    `json:"date"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	MandatoryAttendees []string  `json:"mandatoryAttendees"`
	OptionalAttendees  []string  `json:"optionalAttendees"`
	Scheduler          string    `json:"scheduler"`
	Version            int64     `json:"version"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// MeetingUpdate is a partial update applied to a stored meeting. Nil
// fields are left unchanged. ExpectedVersion must match the stored
// version or the update is rejected.
type MeetingUpdate struct {
	Title              *string  `json:"title,omitempty"`
	Date               *string  `json:"date,omitempty"`
	StartTime          *string  `json:"startTime,omitempty"`
	EndTime            *string  `json:"endTime,omitempty"`
	MandatoryAttendees []string `json:"mandatoryAttendees,omitempty"`
	OptionalAttendees  []string `json:"optionalAttendees,omitempty"`
	ExpectedVersion    int64    `json:"expectedVersion"`
}
