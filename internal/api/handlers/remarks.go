package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/internal/upstream"
	"github.com/traincore/dashboard-bff/middleware"
)

// RemarkClient is the remark surface the handlers consume. Remarks only
// exist under an attendee; there is no standalone remark resource.
type RemarkClient interface {
	ListRemarks(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.Remark, error)
	CreateRemark(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID, in upstream.RemarkInput) (*domain.Remark, error)
	UpdateRemark(ctx context.Context, sess middleware.Session, attendeeID, remarkID uuid.UUID, in upstream.RemarkInput) (*domain.Remark, error)
	DeleteRemark(ctx context.Context, sess middleware.Session, attendeeID, remarkID uuid.UUID) error
}

type RemarkHandler struct {
	remarks RemarkClient
}

func NewRemarkHandler(rc RemarkClient) *RemarkHandler {
	return &RemarkHandler{remarks: rc}
}

// List returns an attendee's remarks, newest first.
func (h *RemarkHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	remarks, err := h.remarks.ListRemarks(r.Context(), sess, attendeeID)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to fetch remarks")
		return
	}
	domain.SortRemarks(remarks)
	sendData(w, http.StatusOK, remarks)
}

func (h *RemarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	in, ok := decodeRemarkInput(w, r)
	if !ok {
		return
	}

	remark, err := h.remarks.CreateRemark(r.Context(), sess, attendeeID, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to create remark")
		return
	}
	sendData(w, http.StatusCreated, remark)
}

// Update saves the edited remark. The write goes through even when the
// text is unchanged; the upstream's updatedAt is the source of truth.
func (h *RemarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}
	remarkID, err := uuid.Parse(chi.URLParam(r, "remarkID"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid remark id", http.StatusBadRequest)
		return
	}

	in, ok := decodeRemarkInput(w, r)
	if !ok {
		return
	}

	remark, err := h.remarks.UpdateRemark(r.Context(), sess, attendeeID, remarkID, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to update remark")
		return
	}
	sendData(w, http.StatusOK, remark)
}

// Delete removes a remark; mounted behind RequireConfirmation.
func (h *RemarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}
	remarkID, err := uuid.Parse(chi.URLParam(r, "remarkID"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid remark id", http.StatusBadRequest)
		return
	}

	if err := h.remarks.DeleteRemark(r.Context(), sess, attendeeID, remarkID); err != nil {
		handleUpstreamError(w, r, err, "failed to delete remark")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeRemarkInput(w http.ResponseWriter, r *http.Request) (upstream.RemarkInput, bool) {
	var in upstream.RemarkInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		sendError(w, r, "validation_failed", "invalid body", http.StatusBadRequest)
		return in, false
	}
	in.RemarkText = strings.TrimSpace(in.RemarkText)
	if in.RemarkText == "" {
		sendError(w, r, "validation_failed", "remark text is required", http.StatusBadRequest)
		return in, false
	}
	return in, true
}
