package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/internal/upstream"
	"github.com/traincore/dashboard-bff/internal/workflow"
	"github.com/traincore/dashboard-bff/middleware"
)

type mockAttendeeClient struct {
	mock.Mock
}

func (m *mockAttendeeClient) List(ctx context.Context, sess middleware.Session) ([]domain.Attendee, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendee), args.Error(1)
}

func (m *mockAttendeeClient) Get(ctx context.Context, sess middleware.Session, id uuid.UUID) (*domain.Attendee, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendee), args.Error(1)
}

func (m *mockAttendeeClient) Create(ctx context.Context, sess middleware.Session, in upstream.AttendeeInput) (*domain.Attendee, error) {
	args := m.Called(ctx, sess, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendee), args.Error(1)
}

func (m *mockAttendeeClient) Update(ctx context.Context, sess middleware.Session, id uuid.UUID, in upstream.AttendeeInput) (*domain.Attendee, error) {
	args := m.Called(ctx, sess, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendee), args.Error(1)
}

func (m *mockAttendeeClient) Delete(ctx context.Context, sess middleware.Session, id uuid.UUID) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *mockAttendeeClient) ListCourses(ctx context.Context, sess middleware.Session, id uuid.UUID) ([]domain.Course, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *mockAttendeeClient) ListRemarks(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.Remark, error) {
	args := m.Called(ctx, sess, attendeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Remark), args.Error(1)
}

type mockWaitlistClient struct {
	mock.Mock
}

func (m *mockWaitlistClient) ListByTemplate(ctx context.Context, sess middleware.Session, templateID uuid.UUID) ([]domain.WaitlistRecord, error) {
	args := m.Called(ctx, sess, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WaitlistRecord), args.Error(1)
}

func (m *mockWaitlistClient) ListByAttendee(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.WaitlistRecord, error) {
	args := m.Called(ctx, sess, attendeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WaitlistRecord), args.Error(1)
}

func (m *mockWaitlistClient) Create(ctx context.Context, sess middleware.Session, attendeeID, templateID uuid.UUID) (*domain.WaitlistRecord, error) {
	args := m.Called(ctx, sess, attendeeID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitlistRecord), args.Error(1)
}

func (m *mockWaitlistClient) Delete(ctx context.Context, sess middleware.Session, recordID uuid.UUID) error {
	args := m.Called(ctx, sess, recordID)
	return args.Error(0)
}

type mockTemplateClient struct {
	mock.Mock
}

func (m *mockTemplateClient) List(ctx context.Context, sess middleware.Session) ([]domain.CourseTemplate, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CourseTemplate), args.Error(1)
}

func (m *mockTemplateClient) Get(ctx context.Context, sess middleware.Session, id uuid.UUID) (*domain.CourseTemplate, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CourseTemplate), args.Error(1)
}

func (m *mockTemplateClient) Create(ctx context.Context, sess middleware.Session, in upstream.TemplateInput) (*domain.CourseTemplate, error) {
	args := m.Called(ctx, sess, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CourseTemplate), args.Error(1)
}

func (m *mockTemplateClient) Update(ctx context.Context, sess middleware.Session, id uuid.UUID, in upstream.TemplateInput) (*domain.CourseTemplate, error) {
	args := m.Called(ctx, sess, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CourseTemplate), args.Error(1)
}

func (m *mockTemplateClient) Delete(ctx context.Context, sess middleware.Session, id uuid.UUID) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

type mockCourseClient struct {
	mock.Mock
}

func (m *mockCourseClient) List(ctx context.Context, sess middleware.Session) ([]domain.Course, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *mockCourseClient) Get(ctx context.Context, sess middleware.Session, id uuid.UUID) (*domain.Course, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *mockCourseClient) Create(ctx context.Context, sess middleware.Session, in upstream.CourseInput) (*domain.Course, error) {
	args := m.Called(ctx, sess, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *mockCourseClient) Update(ctx context.Context, sess middleware.Session, id uuid.UUID, in upstream.CourseInput) (*domain.Course, error) {
	args := m.Called(ctx, sess, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *mockCourseClient) Delete(ctx context.Context, sess middleware.Session, id uuid.UUID) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *mockCourseClient) Archive(ctx context.Context, sess middleware.Session, id uuid.UUID, finishRemark string) error {
	args := m.Called(ctx, sess, id, finishRemark)
	return args.Error(0)
}

func (m *mockCourseClient) ListByTemplate(ctx context.Context, sess middleware.Session, templateID uuid.UUID) ([]domain.Course, error) {
	args := m.Called(ctx, sess, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *mockCourseClient) ListAttendees(ctx context.Context, sess middleware.Session, id uuid.UUID) ([]domain.Attendee, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendee), args.Error(1)
}

func (m *mockCourseClient) AssignAttendee(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID) error {
	args := m.Called(ctx, sess, courseID, attendeeID)
	return args.Error(0)
}

func (m *mockCourseClient) RemoveAttendee(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID) error {
	args := m.Called(ctx, sess, courseID, attendeeID)
	return args.Error(0)
}

type mockWorkflowRunner struct {
	mock.Mock
}

func (m *mockWorkflowRunner) ScheduleCourse(ctx context.Context, sess middleware.Session, in upstream.CourseInput, selected []domain.WaitlistRecord) (*workflow.PromotionReport, error) {
	args := m.Called(ctx, sess, in, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.PromotionReport), args.Error(1)
}

func (m *mockWorkflowRunner) ReturnToWaitlist(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID, templateID *uuid.UUID) error {
	args := m.Called(ctx, sess, courseID, attendeeID, templateID)
	return args.Error(0)
}

type mockRemarkClient struct {
	mock.Mock
}

func (m *mockRemarkClient) ListRemarks(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.Remark, error) {
	args := m.Called(ctx, sess, attendeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Remark), args.Error(1)
}

func (m *mockRemarkClient) CreateRemark(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID, in upstream.RemarkInput) (*domain.Remark, error) {
	args := m.Called(ctx, sess, attendeeID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Remark), args.Error(1)
}

func (m *mockRemarkClient) UpdateRemark(ctx context.Context, sess middleware.Session, attendeeID, remarkID uuid.UUID, in upstream.RemarkInput) (*domain.Remark, error) {
	args := m.Called(ctx, sess, attendeeID, remarkID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Remark), args.Error(1)
}

func (m *mockRemarkClient) DeleteRemark(ctx context.Context, sess middleware.Session, attendeeID, remarkID uuid.UUID) error {
	args := m.Called(ctx, sess, attendeeID, remarkID)
	return args.Error(0)
}

type mockDocumentClient struct {
	mock.Mock
}

func (m *mockDocumentClient) ListDocuments(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.Document, error) {
	args := m.Called(ctx, sess, attendeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *mockDocumentClient) CreateDocument(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID, in upstream.DocumentInput) (*domain.Document, error) {
	args := m.Called(ctx, sess, attendeeID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocumentClient) UpdateDocument(ctx context.Context, sess middleware.Session, attendeeID, documentID uuid.UUID, in upstream.DocumentInput) (*domain.Document, error) {
	args := m.Called(ctx, sess, attendeeID, documentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocumentClient) DeleteDocument(ctx context.Context, sess middleware.Session, attendeeID, documentID uuid.UUID) error {
	args := m.Called(ctx, sess, attendeeID, documentID)
	return args.Error(0)
}

func (m *mockDocumentClient) DownloadURL(ctx context.Context, sess middleware.Session, attendeeID, documentID, fileID uuid.UUID) (string, error) {
	args := m.Called(ctx, sess, attendeeID, documentID, fileID)
	return args.String(0), args.Error(1)
}

func (m *mockDocumentClient) Scan(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID, filename string, file io.Reader) (*domain.ScanResult, error) {
	args := m.Called(ctx, sess, attendeeID, filename, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanResult), args.Error(1)
}

// newAuthedRequest builds a request carrying a session and chi URL params.
func newAuthedRequest(method, target string, body io.Reader, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)

	ctx = middleware.SetSessionForTest(ctx, middleware.Session{
		UserID:           uuid.New(),
		TrainingCenterID: uuid.New(),
		Email:            "operator@example.com",
		Bearer:           "Bearer test-token",
	})
	return req.WithContext(ctx)
}
