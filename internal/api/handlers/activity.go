package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Broker-Document-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Document-Importer/internal/api/response"
	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/service"
)

// ActivityHandler handles HTTP requests for stored activities.
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler with the provided service dependency.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// Activities handles GET requests to list stored activities.
//
// Endpoint: GET /api/activity
// Query Parameters: type, isin, start_date, end_date (all optional)
// Response: 200 OK with array of model.ImportedActivity
// Error: 400 Bad Request if a filter is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *ActivityHandler) Activities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters, err := request.ParseActivityFilters(q.Get("type"), q.Get("isin"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	activities, err := h.activityService.GetActivities(*filters)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveActivities.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, activities)
}

// GetActivity handles GET requests to retrieve a single stored activity.
//
// Endpoint: GET /api/activity/{uuid}
// Response: 200 OK with model.ImportedActivity
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the activity does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	activity, err := h.activityService.GetActivity(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrActivityNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrActivityNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveActivity.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, activity)
}

// ReparseActivity handles GET requests that parse the retained source of an
// activity again and compare the result with the stored values.
//
// Endpoint: GET /api/activity/{uuid}/reparse
// Response: 200 OK with model.ReparseResult
// Error: 404 Not Found if the activity does not exist
// Error: 409 Conflict if the source was not retained
// Error: 422 Unprocessable Entity if the source no longer parses
func (h *ActivityHandler) ReparseActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	result, err := h.activityService.ReparseActivity(id)
	if err != nil {
		response.RespondDocumentError(w, err, apperrors.ErrFailedToRetrieveActivity)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// DeleteActivity handles DELETE requests to remove a stored activity, which
// allows its document to be imported again.
//
// Endpoint: DELETE /api/activity/{uuid}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the activity does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	if err := h.activityService.DeleteActivity(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrActivityNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrActivityNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDeleteActivity.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
