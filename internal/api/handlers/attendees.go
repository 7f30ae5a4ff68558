package handlers

import (
	"context"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/traincore/dashboard-bff/internal/cache"
	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/internal/upstream"
	"github.com/traincore/dashboard-bff/middleware"
)

// AttendeeClient is the attendee surface the handlers consume; the concrete
// implementation lives in internal/upstream and tests mock it.
type AttendeeClient interface {
	List(ctx context.Context, sess middleware.Session) ([]domain.Attendee, error)
	Get(ctx context.Context, sess middleware.Session, id uuid.UUID) (*domain.Attendee, error)
	Create(ctx context.Context, sess middleware.Session, in upstream.AttendeeInput) (*domain.Attendee, error)
	Update(ctx context.Context, sess middleware.Session, id uuid.UUID, in upstream.AttendeeInput) (*domain.Attendee, error)
	Delete(ctx context.Context, sess middleware.Session, id uuid.UUID) error
	ListCourses(ctx context.Context, sess middleware.Session, id uuid.UUID) ([]domain.Course, error)
	ListRemarks(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.Remark, error)
}

// WaitlistClient is the waitlist surface the handlers consume.
type WaitlistClient interface {
	ListByTemplate(ctx context.Context, sess middleware.Session, templateID uuid.UUID) ([]domain.WaitlistRecord, error)
	ListByAttendee(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.WaitlistRecord, error)
	Create(ctx context.Context, sess middleware.Session, attendeeID, templateID uuid.UUID) (*domain.WaitlistRecord, error)
	Delete(ctx context.Context, sess middleware.Session, recordID uuid.UUID) error
}

// TemplateClient is the template surface the handlers consume.
type TemplateClient interface {
	List(ctx context.Context, sess middleware.Session) ([]domain.CourseTemplate, error)
	Get(ctx context.Context, sess middleware.Session, id uuid.UUID) (*domain.CourseTemplate, error)
	Create(ctx context.Context, sess middleware.Session, in upstream.TemplateInput) (*domain.CourseTemplate, error)
	Update(ctx context.Context, sess middleware.Session, id uuid.UUID, in upstream.TemplateInput) (*domain.CourseTemplate, error)
	Delete(ctx context.Context, sess middleware.Session, id uuid.UUID) error
}

type AttendeeHandler struct {
	attendees AttendeeClient
	waitlist  WaitlistClient
	templates TemplateClient
	tplCache  *cache.TemplateCache
}

func NewAttendeeHandler(ac AttendeeClient, wc WaitlistClient, tc TemplateClient, tplCache *cache.TemplateCache) *AttendeeHandler {
	return &AttendeeHandler{
		attendees: ac,
		waitlist:  wc,
		templates: tc,
		tplCache:  tplCache,
	}
}

// AttendeeListResponse is a page of the filtered attendee collection.
type AttendeeListResponse struct {
	Items    []domain.Attendee `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// List returns attendees filtered by the q parameter (case-insensitive
// substring over name, surname, email, telephone and rank label) and paged.
func (h *AttendeeHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendees, err := h.attendees.List(r.Context(), sess)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to fetch attendees")
		return
	}

	filtered := domain.FilterAttendees(attendees, r.URL.Query().Get("q"))

	page, pageSize := pageParams(r, 1, 25)
	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	sendData(w, http.StatusOK, AttendeeListResponse{
		Items:    filtered[start:end],
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
	})
}

// WaitlistEntry pairs a record with its resolved template for the waitlist
// tab; Template falls back to a placeholder when the lookup failed.
type WaitlistEntry struct {
	Record   domain.WaitlistRecord `json:"record"`
	Template domain.CourseTemplate `json:"template"`
}

// AttendeeViewResponse is the composed detail view.
type AttendeeViewResponse struct {
	Attendee *domain.Attendee `json:"attendee"`
	Remarks  []domain.Remark  `json:"remarks"`
	Courses  []domain.Course  `json:"courses"`
	Waitlist []WaitlistEntry  `json:"waitlist"`
}

// GetView fetches the attendee plus their remarks, courses and waitlist
// records in parallel, with one joint loading state. A failure in any of the
// four aborts the whole view. The template backfill below is per-record
// instead, so one bad template lookup does not blank the waitlist tab.
func (h *AttendeeHandler) GetView(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	var wg sync.WaitGroup
	wg.Add(4)

	var (
		attendee    *domain.Attendee
		attendeeErr error
		remarks     []domain.Remark
		remarksErr  error
		courses     []domain.Course
		coursesErr  error
		records     []domain.WaitlistRecord
		recordsErr  error
	)

	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		attendee, attendeeErr = h.attendees.Get(ctx, sess, attendeeID)
	}()
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		remarks, remarksErr = h.attendees.ListRemarks(ctx, sess, attendeeID)
	}()
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		courses, coursesErr = h.attendees.ListCourses(ctx, sess, attendeeID)
	}()
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		records, recordsErr = h.waitlist.ListByAttendee(ctx, sess, attendeeID)
	}()

	wg.Wait()

	if attendeeErr != nil {
		handleUpstreamError(w, r, attendeeErr, "failed to fetch attendee")
		return
	}
	for _, err := range []error{remarksErr, coursesErr, recordsErr} {
		if err != nil {
			handleUpstreamError(w, r, err, "failed to assemble attendee view")
			return
		}
	}

	domain.SortRemarks(remarks)

	sendData(w, http.StatusOK, AttendeeViewResponse{
		Attendee: attendee,
		Remarks:  remarks,
		Courses:  courses,
		Waitlist: h.resolveTemplates(r.Context(), sess, records),
	})
}

// resolveTemplates backfills each record's template, cache first, upstream
// second, placeholder last. Deliberately sequential: the original flow
// serializes these lookups and isolates failures per record.
func (h *AttendeeHandler) resolveTemplates(ctx context.Context, sess middleware.Session, records []domain.WaitlistRecord) []WaitlistEntry {
	entries := make([]WaitlistEntry, 0, len(records))
	for _, record := range records {
		entry := WaitlistEntry{Record: record}

		if tpl, err := h.tplCache.Get(ctx, record.CourseTemplateID); err == nil {
			entry.Template = *tpl
			entries = append(entries, entry)
			continue
		}

		tpl, err := h.templates.Get(ctx, sess, record.CourseTemplateID)
		if err != nil {
			entry.Template = domain.PlaceholderTemplate(record.CourseTemplateID)
			entries = append(entries, entry)
			continue
		}
		h.tplCache.Set(ctx, *tpl)
		entry.Template = *tpl
		entries = append(entries, entry)
	}
	return entries
}

func (h *AttendeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	in, ok := decodeAttendeeInput(w, r)
	if !ok {
		return
	}

	attendee, err := h.attendees.Create(r.Context(), sess, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to create attendee")
		return
	}
	sendData(w, http.StatusCreated, attendee)
}

func (h *AttendeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	in, ok := decodeAttendeeInput(w, r)
	if !ok {
		return
	}

	attendee, err := h.attendees.Update(r.Context(), sess, attendeeID, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to update attendee")
		return
	}
	sendData(w, http.StatusOK, attendee)
}

// Delete is mounted behind RequireConfirmation.
func (h *AttendeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	if err := h.attendees.Delete(r.Context(), sess, attendeeID); err != nil {
		handleUpstreamError(w, r, err, "failed to delete attendee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeAttendeeInput(w http.ResponseWriter, r *http.Request) (upstream.AttendeeInput, bool) {
	var in upstream.AttendeeInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		sendError(w, r, "validation_failed", "invalid body", http.StatusBadRequest)
		return in, false
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" || in.Surname == "" {
		sendError(w, r, "validation_failed", "name and surname are required", http.StatusBadRequest)
		return in, false
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			sendError(w, r, "validation_failed", "email is not a valid address", http.StatusBadRequest)
			return in, false
		}
	}
	if in.Rank != "" && !in.Rank.Valid() {
		sendError(w, r, "validation_failed", "unknown rank", http.StatusBadRequest)
		return in, false
	}
	return in, true
}

func pageParams(r *http.Request, defaultPage, defaultSize int) (page, pageSize int) {
	page = defaultPage
	pageSize = defaultSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}
	return page, pageSize
}
