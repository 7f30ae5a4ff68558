package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/internal/upstream"
	"github.com/traincore/dashboard-bff/internal/workflow"
	"github.com/traincore/dashboard-bff/middleware"
)

// CourseClient is the course surface the handlers consume.
type CourseClient interface {
	List(ctx context.Context, sess middleware.Session) ([]domain.Course, error)
	Get(ctx context.Context, sess middleware.Session, id uuid.UUID) (*domain.Course, error)
	Create(ctx context.Context, sess middleware.Session, in upstream.CourseInput) (*domain.Course, error)
	Update(ctx context.Context, sess middleware.Session, id uuid.UUID, in upstream.CourseInput) (*domain.Course, error)
	Delete(ctx context.Context, sess middleware.Session, id uuid.UUID) error
	Archive(ctx context.Context, sess middleware.Session, id uuid.UUID, finishRemark string) error
	ListByTemplate(ctx context.Context, sess middleware.Session, templateID uuid.UUID) ([]domain.Course, error)
	ListAttendees(ctx context.Context, sess middleware.Session, id uuid.UUID) ([]domain.Attendee, error)
	AssignAttendee(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID) error
	RemoveAttendee(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID) error
}

// WorkflowRunner is the orchestration surface the handlers consume.
type WorkflowRunner interface {
	ScheduleCourse(ctx context.Context, sess middleware.Session, in upstream.CourseInput, selected []domain.WaitlistRecord) (*workflow.PromotionReport, error)
	ReturnToWaitlist(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID, templateID *uuid.UUID) error
}

type CourseHandler struct {
	courses   CourseClient
	templates TemplateClient
	workflows WorkflowRunner
	audit     *workflow.Audit
}

func NewCourseHandler(cc CourseClient, tc TemplateClient, wf WorkflowRunner, audit *workflow.Audit) *CourseHandler {
	return &CourseHandler{courses: cc, templates: tc, workflows: wf, audit: audit}
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.List(r.Context(), sess)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to fetch courses")
		return
	}
	sendData(w, http.StatusOK, courses)
}

// DegradedInfo names the view section that could not be loaded.
type DegradedInfo struct {
	Template string `json:"template,omitempty"`
}

// CourseViewResponse is the composed course detail view.
type CourseViewResponse struct {
	Course    *domain.Course         `json:"course"`
	Attendees []domain.Attendee      `json:"attendees"`
	Template  *domain.CourseTemplate `json:"template,omitempty"`
	Actions   domain.CourseActions   `json:"actions"`
	Degraded  *DegradedInfo          `json:"degraded,omitempty"`
}

// GetView composes course, enrolled attendees and the backing template in
// parallel. Course and attendee failures abort the view; a template lookup
// failure only degrades its section since the course itself is renderable.
func (h *CourseHandler) GetView(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid course id", http.StatusBadRequest)
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)

	var (
		course      *domain.Course
		courseErr   error
		attendees   []domain.Attendee
		attendeeErr error
	)

	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		course, courseErr = h.courses.Get(ctx, sess, courseID)
	}()
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		attendees, attendeeErr = h.courses.ListAttendees(ctx, sess, courseID)
	}()

	wg.Wait()

	if courseErr != nil {
		handleUpstreamError(w, r, courseErr, "failed to fetch course")
		return
	}
	if attendeeErr != nil {
		handleUpstreamError(w, r, attendeeErr, "failed to fetch course attendees")
		return
	}

	resp := CourseViewResponse{
		Course:    course,
		Attendees: attendees,
		Actions:   domain.CalculateCourseActions(course),
	}

	if course.TemplateID != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		tpl, err := h.templates.Get(ctx, sess, *course.TemplateID)
		if err != nil {
			resp.Degraded = &DegradedInfo{Template: "unavailable"}
		} else {
			resp.Template = tpl
		}
	}

	sendData(w, http.StatusOK, resp)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	in, ok := decodeCourseInput(w, r)
	if !ok {
		return
	}

	course, err := h.courses.Create(r.Context(), sess, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to create course")
		return
	}
	sendData(w, http.StatusCreated, course)
}

// Update edits course fields. A status change must follow the lifecycle;
// anything else is rejected before the upstream sees it.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid course id", http.StatusBadRequest)
		return
	}

	in, ok := decodeCourseInput(w, r)
	if !ok {
		return
	}

	if in.Status != "" {
		current, err := h.courses.Get(r.Context(), sess, courseID)
		if err != nil {
			handleUpstreamError(w, r, err, "failed to fetch course")
			return
		}
		if in.Status != current.Status && !current.Status.CanTransitionTo(in.Status) {
			sendError(w, r, "conflict_state",
				"course cannot move from "+current.Status.Label()+" to "+in.Status.Label(),
				http.StatusConflict)
			return
		}
	}

	course, err := h.courses.Update(r.Context(), sess, courseID, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to update course")
		return
	}
	sendData(w, http.StatusOK, course)
}

// Delete is the hard delete, mounted behind RequireConfirmation.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid course id", http.StatusBadRequest)
		return
	}

	if err := h.courses.Delete(r.Context(), sess, courseID); err != nil {
		handleUpstreamError(w, r, err, "failed to delete course")
		return
	}
	h.audit.CourseDeleted(r.Context(), courseID)
	w.WriteHeader(http.StatusNoContent)
}

// Archive retires a course from the active list; separate from Delete.
func (h *CourseHandler) Archive(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid course id", http.StatusBadRequest)
		return
	}

	var req struct {
		FinishRemark string `json:"finishRemark"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		sendError(w, r, "validation_failed", "invalid body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.FinishRemark) == "" {
		sendError(w, r, "validation_failed", "finishRemark is required", http.StatusBadRequest)
		return
	}

	if err := h.courses.Archive(r.Context(), sess, courseID, req.FinishRemark); err != nil {
		handleUpstreamError(w, r, err, "failed to archive course")
		return
	}
	h.audit.CourseArchived(r.Context(), courseID)
	w.WriteHeader(http.StatusNoContent)
}

// AssignAttendee enrolls one attendee picked in the management dialog. Seat
// capacity is left to the core API; its rejection comes back as a
// StatusError and is forwarded as-is.
func (h *CourseHandler) AssignAttendee(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid course id", http.StatusBadRequest)
		return
	}

	var req struct {
		AttendeeID string `json:"attendeeId"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		sendError(w, r, "validation_failed", "invalid body", http.StatusBadRequest)
		return
	}
	attendeeID, err := uuid.Parse(req.AttendeeID)
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	if err := h.courses.AssignAttendee(r.Context(), sess, courseID, attendeeID); err != nil {
		handleUpstreamError(w, r, err, "failed to assign attendee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveAttendee unenrolls an attendee; mounted behind RequireConfirmation.
func (h *CourseHandler) RemoveAttendee(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid course id", http.StatusBadRequest)
		return
	}
	attendeeID, err := uuid.Parse(chi.URLParam(r, "attendeeID"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	if err := h.courses.RemoveAttendee(r.Context(), sess, courseID, attendeeID); err != nil {
		handleUpstreamError(w, r, err, "failed to remove attendee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReturnToWaitlist moves an enrolled attendee back onto the course
// template's waitlist. Disabled for freeform courses: there is no template
// to put them back on.
func (h *CourseHandler) ReturnToWaitlist(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid course id", http.StatusBadRequest)
		return
	}
	attendeeID, err := uuid.Parse(chi.URLParam(r, "attendeeID"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	course, err := h.courses.Get(r.Context(), sess, courseID)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to fetch course")
		return
	}

	err = h.workflows.ReturnToWaitlist(r.Context(), sess, courseID, attendeeID, course.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateMissing) {
			sendError(w, r, "conflict_state", "course has no template; attendee cannot be waitlisted", http.StatusConflict)
			return
		}
		handleWorkflowError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeCourseInput(w http.ResponseWriter, r *http.Request) (upstream.CourseInput, bool) {
	var in upstream.CourseInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		sendError(w, r, "validation_failed", "invalid body", http.StatusBadRequest)
		return in, false
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		sendError(w, r, "validation_failed", "course name is required", http.StatusBadRequest)
		return in, false
	}
	if in.MaxSeats <= 0 {
		sendError(w, r, "validation_failed", "maxSeats must be positive", http.StatusBadRequest)
		return in, false
	}
	if in.StartDate == "" || in.EndDate == "" {
		sendError(w, r, "validation_failed", "startDate and endDate are required", http.StatusBadRequest)
		return in, false
	}
	if in.Status != "" && !in.Status.Valid() {
		sendError(w, r, "validation_failed", "unknown course status", http.StatusBadRequest)
		return in, false
	}
	return in, true
}

// handleWorkflowError unwraps a failed saga step so the response names the
// step, then defers to the usual upstream mapping for the cause.
func handleWorkflowError(w http.ResponseWriter, r *http.Request, err error) {
	var stepErr *workflow.StepError
	if errors.As(err, &stepErr) {
		handleUpstreamError(w, r, stepErr.Err, "workflow step "+stepErr.Step+" failed")
		return
	}
	handleUpstreamError(w, r, err, "workflow failed")
}
