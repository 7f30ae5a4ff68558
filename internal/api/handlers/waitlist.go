package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	waitlist WaitlistClient
}

func NewWaitlistHandler(wc WaitlistClient) *WaitlistHandler {
	return &WaitlistHandler{waitlist: wc}
}

// ListByAttendee returns every waitlist record for one attendee.
func (h *WaitlistHandler) ListByAttendee(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	records, err := h.waitlist.ListByAttendee(r.Context(), sess, attendeeID)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to fetch waitlist records")
		return
	}
	sendData(w, http.StatusOK, records)
}

// Create puts an attendee onto a course template's waitlist.
func (h *WaitlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	var req struct {
		CourseTemplateID string `json:"courseTemplateId"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		sendError(w, r, "validation_failed", "invalid body", http.StatusBadRequest)
		return
	}
	templateID, err := uuid.Parse(req.CourseTemplateID)
	if err != nil {
		sendError(w, r, "validation_failed", "invalid course template id", http.StatusBadRequest)
		return
	}

	record, err := h.waitlist.Create(r.Context(), sess, attendeeID, templateID)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to create waitlist record")
		return
	}
	sendData(w, http.StatusCreated, record)
}

// Delete removes a waitlist record; mounted behind RequireConfirmation.
func (h *WaitlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	recordID, err := uuid.Parse(chi.URLParam(r, "recordID"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid waitlist record id", http.StatusBadRequest)
		return
	}

	if err := h.waitlist.Delete(r.Context(), sess, recordID); err != nil {
		handleUpstreamError(w, r, err, "failed to delete waitlist record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
