package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/traincore/dashboard-bff/internal/cache"
	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/internal/upstream"
)

type TemplateHandler struct {
	templates TemplateClient
	courses   CourseClient
	waitlist  WaitlistClient
	workflows WorkflowRunner
	tplCache  *cache.TemplateCache
}

func NewTemplateHandler(tc TemplateClient, cc CourseClient, wc WaitlistClient, wf WorkflowRunner, tpl *cache.TemplateCache) *TemplateHandler {
	return &TemplateHandler{templates: tc, courses: cc, waitlist: wc, workflows: wf, tplCache: tpl}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	templates, err := h.templates.List(r.Context(), sess)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to fetch templates")
		return
	}
	sendData(w, http.StatusOK, templates)
}

// TemplateViewResponse is the composed template detail view: the template,
// its open waitlist, and the courses scheduled from it.
type TemplateViewResponse struct {
	Template *domain.CourseTemplate  `json:"template"`
	Waitlist []domain.WaitlistRecord `json:"waitlist"`
	Courses  []domain.Course         `json:"courses"`
}

// GetView fetches the template, its waiting records and its courses in
// parallel. Any failure aborts the view.
func (h *TemplateHandler) GetView(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid template id", http.StatusBadRequest)
		return
	}

	var wg sync.WaitGroup
	wg.Add(3)

	var (
		tpl         *domain.CourseTemplate
		tplErr      error
		records     []domain.WaitlistRecord
		recordsErr  error
		courses     []domain.Course
		coursesErr  error
	)

	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		tpl, tplErr = h.templates.Get(ctx, sess, templateID)
	}()
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		records, recordsErr = h.waitlist.ListByTemplate(ctx, sess, templateID)
	}()
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		courses, coursesErr = h.courses.ListByTemplate(ctx, sess, templateID)
	}()

	wg.Wait()

	for _, err := range []error{tplErr, recordsErr, coursesErr} {
		if err != nil {
			handleUpstreamError(w, r, err, "failed to fetch template view")
			return
		}
	}

	waiting := make([]domain.WaitlistRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status == domain.WaitlistWaiting {
			waiting = append(waiting, rec)
		}
	}

	sendData(w, http.StatusOK, TemplateViewResponse{
		Template: tpl,
		Waitlist: waiting,
		Courses:  courses,
	})
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	in, ok := decodeTemplateInput(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.Create(r.Context(), sess, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to create template")
		return
	}
	sendData(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid template id", http.StatusBadRequest)
		return
	}

	in, ok := decodeTemplateInput(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.Update(r.Context(), sess, templateID, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to update template")
		return
	}
	h.tplCache.Invalidate(r.Context(), templateID)
	sendData(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid template id", http.StatusBadRequest)
		return
	}

	if err := h.templates.Delete(r.Context(), sess, templateID); err != nil {
		handleUpstreamError(w, r, err, "failed to delete template")
		return
	}
	h.tplCache.Invalidate(r.Context(), templateID)
	w.WriteHeader(http.StatusNoContent)
}

// ScheduleCourseRequest carries the new course fields plus the waitlist
// records picked for immediate enrollment.
type ScheduleCourseRequest struct {
	Course            upstream.CourseInput `json:"course"`
	WaitlistRecordIDs []string             `json:"waitlistRecordIds"`
}


// ScheduleCourse creates a course from the template and promotes the
// selected waitlist records onto it. Selected records must still be
// waiting and must belong to this template; stale selections are rejected
// before any write happens.
func (h *TemplateHandler) ScheduleCourse(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid template id", http.StatusBadRequest)
		return
	}

	var req ScheduleCourseRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		sendError(w, r, "validation_failed", "invalid body", http.StatusBadRequest)
		return
	}
	req.Course.Name = strings.TrimSpace(req.Course.Name)
	if req.Course.Name == "" {
		sendError(w, r, "validation_failed", "course name is required", http.StatusBadRequest)
		return
	}
	if req.Course.MaxSeats <= 0 {
		sendError(w, r, "validation_failed", "maxSeats must be positive", http.StatusBadRequest)
		return
	}
	req.Course.TemplateID = &templateID

	selectedIDs := make(map[uuid.UUID]bool, len(req.WaitlistRecordIDs))
	for _, raw := range req.WaitlistRecordIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			sendError(w, r, "validation_failed", "invalid waitlist record id", http.StatusBadRequest)
			return
		}
		selectedIDs[id] = true
	}

	records, err := h.waitlist.ListByTemplate(r.Context(), sess, templateID)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to fetch waitlist")
		return
	}

	selected := make([]domain.WaitlistRecord, 0, len(selectedIDs))
	for _, rec := range records {
		if !selectedIDs[rec.ID] {
			continue
		}
		if rec.Status != domain.WaitlistWaiting {
			sendError(w, r, "conflict_state", "waitlist record "+rec.ID.String()+" is no longer waiting", http.StatusConflict)
			return
		}
		selected = append(selected, rec)
		delete(selectedIDs, rec.ID)
	}
	if len(selectedIDs) > 0 {
		sendError(w, r, "conflict_state", "selected waitlist records not found on this template", http.StatusConflict)
		return
	}

	report, err := h.workflows.ScheduleCourse(r.Context(), sess, req.Course, selected)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	sendData(w, http.StatusCreated, report)
}

func decodeTemplateInput(w http.ResponseWriter, r *http.Request) (upstream.TemplateInput, bool) {
	var in upstream.TemplateInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		sendError(w, r, "validation_failed", "invalid body", http.StatusBadRequest)
		return in, false
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		sendError(w, r, "validation_failed", "template name is required", http.StatusBadRequest)
		return in, false
	}
	return in, true
}
