// Package handlers provides the HTTP handlers for conflict analysis,
// conflict resolution and meeting management.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"meetsched/internal/api/response"
	"meetsched/internal/schedule"
	"meetsched/pkg/types"
)

// ConflictHandler handles conflict analysis and resolution requests.
type ConflictHandler struct {
	resolver *schedule.Resolver
}

// NewConflictHandler creates a conflict handler over a resolver.
func NewConflictHandler(resolver *schedule.Resolver) *ConflictHandler {
	return &ConflictHandler{resolver: resolver}
}

// Analyze handles POST /conflicts/analyze. The response is always a
// complete ConflictAnalysis; a request with no collisions yields
// hasConflicts=false with empty lists.
func (h *ConflictHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req types.ConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid JSON request", err.Error())
		return
	}
	if err := validateConflictRequest(&req); err != nil {
		response.WriteBadRequest(w, "Validation failed", err.Error())
		return
	}

	analysis, err := h.resolver.Analyze(r.Context(), req)
	if err != nil {
		response.WriteInternalError(w, "Failed to analyze conflicts", err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, analysis)
}

// ResolveRequest is the body of POST /conflicts/resolve. Version is the
// meeting version the caller read before picking the suggestion.
type ResolveRequest struct {
	MeetingID    int64                    `json:"meetingId"`
	Version      int64                    `json:"version"`
	SuggestionID string                   `json:"suggestionId"`
	Suggestion   types.ConflictSuggestion `json:"suggestion"`
}

// ResolveResponse is the success body of POST /conflicts/resolve.
type ResolveResponse struct {
	Message string `json:"message"`
}

// Resolve handles POST /conflicts/resolve. Failures never leave a
// partially updated meeting behind.
func (h *ConflictHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid JSON request", err.Error())
		return
	}
	if req.MeetingID == 0 {
		response.WriteBadRequest(w, "Validation failed", "meetingId is required")
		return
	}
	if req.Suggestion.Type == "" {
		response.WriteBadRequest(w, "Validation failed", "suggestion is required")
		return
	}

	err := h.resolver.Resolve(r.Context(), req.MeetingID, req.Version, req.Suggestion)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, ResolveResponse{
			Message: fmt.Sprintf("Applied %s suggestion to meeting %d", req.Suggestion.Type, req.MeetingID),
		})
	case errors.Is(err, schedule.ErrMeetingNotFound):
		response.WriteNotFound(w, "Meeting not found", err.Error())
	case errors.Is(err, schedule.ErrVersionMismatch):
		response.WriteVersionConflict(w, "Meeting was modified since it was read", err.Error())
	case errors.Is(err, schedule.ErrUnsupportedSuggestion):
		response.WriteValidationError(w, "Unsupported suggestion type", err.Error())
	default:
		response.WriteInternalError(w, "Failed to resolve conflict", err.Error())
	}
}

// validateConflictRequest rejects malformed analysis input before any
// computation; the engine assumes validated values.
func validateConflictRequest(req *types.ConflictRequest) error {
	if req.Date == "" {
		return fmt.Errorf("date is required")
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
	return nil
}
