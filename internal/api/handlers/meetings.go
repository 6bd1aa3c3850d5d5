package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"meetsched/internal/api/response"
	"meetsched/internal/schedule"
	"meetsched/pkg/types"
)

// MeetingStore is the persistence surface the CRUD handlers need.
// Both storage implementations satisfy it.
type MeetingStore interface {
	schedule.MeetingRepository
	CreateMeeting(ctx context.Context, m *types.Meeting) error
	DeleteMeeting(ctx context.Context, id int64) error
}

// MeetingHandlerConfig bounds meeting input.
type MeetingHandlerConfig struct {
	MaxTitleLength   int `json:"maxTitleLength"`
	MaxAttendeeCount int `json:"maxAttendeeCount"`
}

// DefaultMeetingHandlerConfig returns default limits.
func DefaultMeetingHandlerConfig() MeetingHandlerConfig {
	return MeetingHandlerConfig{
		MaxTitleLength:   200,
		MaxAttendeeCount: 100,
	}
}

// MeetingHandler handles meeting CRUD operations.
type MeetingHandler struct {
	store  MeetingStore
	config MeetingHandlerConfig
}

// NewMeetingHandler creates a meeting CRUD handler.
func NewMeetingHandler(store MeetingStore, config MeetingHandlerConfig) *MeetingHandler {
	return &MeetingHandler{store: store, config: config}
}

// CreateMeetingRequest represents a meeting creation request.
type CreateMeetingRequest struct {
	Title              string   `json:"title"`
	Date               string   `json:"date"`
	StartTime          string   `json:"startTime"`
	EndTime            string   `json:"endTime"`
	MandatoryAttendees []string `json:"mandatoryAttendees"`
	OptionalAttendees  []string `json:"optionalAttendees,omitempty"`
	Scheduler          string   `json:"scheduler,omitempty"`
}

// Create handles meeting creation.
func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid JSON request", err.Error())
		return
	}
	if err := h.validateCreateRequest(&req); err != nil {
		response.WriteBadRequest(w, "Validation failed", err.Error())
		return
	}

	meeting := types.Meeting{
		Title:              req.Title,
		Date:               req.Date,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		MandatoryAttendees: req.MandatoryAttendees,
		OptionalAttendees:  req.OptionalAttendees,
		Scheduler:          req.Scheduler,
	}
	if err := h.store.CreateMeeting(r.Context(), &meeting); err != nil {
		response.WriteInternalError(w, "Failed to create meeting", err.Error())
		return
	}
	response.WriteJSON(w, http.StatusCreated, meeting)
}

// Get handles meeting retrieval by id.
func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}
	meeting, err := h.store.Meeting(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Failed to get meeting")
		return
	}
	response.WriteJSON(w, http.StatusOK, meeting)
}

// List handles meeting listing for a date.
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.WriteBadRequest(w, "date query parameter is required")
		return
	}
	if _, err := schedule.ParseDate(date); err != nil {
		response.WriteBadRequest(w, "Validation failed", err.Error())
		return
	}

	meetings, err := h.store.MeetingsForDate(r.Context(), date)
	if err != nil {
		response.WriteInternalError(w, "Failed to list meetings", err.Error())
		return
	}
	if meetings == nil {
		meetings = []types.Meeting{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"date":     date,
		"meetings": meetings,
		"count":    len(meetings),
	})
}

// Update handles partial meeting updates.
func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}

	var upd types.MeetingUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		response.WriteBadRequest(w, "Invalid JSON request", err.Error())
		return
	}
	if err := h.validateUpdateRequest(&upd); err != nil {
		response.WriteBadRequest(w, "Validation failed", err.Error())
		return
	}

	// Changing only one endpoint can invert the stored interval, so the
	// merged window has to be checked against the current meeting.
	if (upd.StartTime == nil) != (upd.EndTime == nil) {
		current, err := h.store.Meeting(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "Failed to get meeting")
			return
		}
		start, end := current.StartTime, current.EndTime
		if upd.StartTime != nil {
			start = *upd.StartTime
		}
		if upd.EndTime != nil {
			end = *upd.EndTime
		}
		if _, err := schedule.NewInterval(start, end); err != nil {
			response.WriteBadRequest(w, "Validation failed", err.Error())
			return
		}
	}

	meeting, err := h.store.UpdateMeeting(r.Context(), id, upd)
	if err != nil {
		writeStoreError(w, err, "Failed to update meeting")
		return
	}
	response.WriteJSON(w, http.StatusOK, meeting)
}

// Delete handles meeting deletion.
func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteMeeting(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to delete meeting")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Meeting deleted",
		"id":      id,
	})
}

func (h *MeetingHandler) validateCreateRequest(req *CreateMeetingRequest) error {
	if req.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(req.Title) > h.config.MaxTitleLength {
		return fmt.Errorf("title too long (max %d characters)", h.config.MaxTitleLength)
	}
	if _, err := schedule.ParseDate(req.Date); err != nil {
		return err
	}
	if _, err := schedule.NewInterval(req.StartTime, req.EndTime); err != nil {
		return err
	}
	if len(req.MandatoryAttendees) == 0 {
		return fmt.Errorf("mandatoryAttendees must not be empty")
	}
	if len(req.MandatoryAttendees)+len(req.OptionalAttendees) > h.config.MaxAttendeeCount {
		return fmt.Errorf("too many attendees (max %d)", h.config.MaxAttendeeCount)
	}
	return nil
}

func (h *MeetingHandler) validateUpdateRequest(upd *types.MeetingUpdate) error {
	if upd.Title != nil && *upd.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if upd.Date != nil {
		if _, err := schedule.ParseDate(*upd.Date); err != nil {
			return err
		}
	}
	if upd.StartTime != nil {
		if _, err := schedule.ParseClock(*upd.StartTime); err != nil {
			return err
		}
	}
	if upd.EndTime != nil {
		if _, err := schedule.ParseClock(*upd.EndTime); err != nil {
			return err
		}
	}
	if upd.StartTime != nil && upd.EndTime != nil {
		if _, err := schedule.NewInterval(*upd.StartTime, *upd.EndTime); err != nil {
			return err
		}
	}
	return nil
}

// meetingID parses the {id} URL parameter, writing a 400 on failure.
func meetingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.WriteBadRequest(w, "Invalid meeting id", raw)
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, schedule.ErrMeetingNotFound):
		response.WriteNotFound(w, "Meeting not found", err.Error())
	case errors.Is(err, schedule.ErrVersionMismatch):
		response.WriteVersionConflict(w, "Meeting was modified since it was read", err.Error())
	default:
		response.WriteInternalError(w, message, err.Error())
	}
}
