package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/internal/upstream"
	"github.com/traincore/dashboard-bff/internal/workflow"
)

func newCourseHandler(cc *mockCourseClient, tc *mockTemplateClient, wf *mockWorkflowRunner) *CourseHandler {
	return NewCourseHandler(cc, tc, wf, workflow.NewAudit(zerolog.Nop()))
}

func TestCourseGetView_Success(t *testing.T) {
	cc := new(mockCourseClient)
	tc := new(mockTemplateClient)
	h := newCourseHandler(cc, tc, new(mockWorkflowRunner))

	courseID := uuid.New()
	templateID := uuid.New()
	course := &domain.Course{
		ID:         courseID,
		TemplateID: &templateID,
		Name:       "GMDSS Refresher",
		Status:     domain.CourseScheduled,
	}

	cc.On("Get", mock.Anything, mock.Anything, courseID).Return(course, nil)
	cc.On("ListAttendees", mock.Anything, mock.Anything, courseID).Return([]domain.Attendee{
		{ID: uuid.New(), Name: "John"},
	}, nil)
	tc.On("Get", mock.Anything, mock.Anything, templateID).
		Return(&domain.CourseTemplate{ID: templateID, Name: "GMDSS"}, nil)

	req := newAuthedRequest("GET", "/api/courses/"+courseID.String(), nil,
		map[string]string{"id": courseID.String()})
	w := httptest.NewRecorder()
	h.GetView(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Data CourseViewResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "GMDSS Refresher", res.Data.Course.Name)
	assert.Len(t, res.Data.Attendees, 1)
	assert.Equal(t, "GMDSS", res.Data.Template.Name)
	assert.Nil(t, res.Data.Degraded)
	assert.True(t, res.Data.Actions.CanManageAttendees)
	assert.True(t, res.Data.Actions.CanReturnToWaitlist)
}

func TestCourseGetView_TemplateFailureDegrades(t *testing.T) {
	cc := new(mockCourseClient)
	tc := new(mockTemplateClient)
	h := newCourseHandler(cc, tc, new(mockWorkflowRunner))

	courseID := uuid.New()
	templateID := uuid.New()

	cc.On("Get", mock.Anything, mock.Anything, courseID).
		Return(&domain.Course{ID: courseID, TemplateID: &templateID, Status: domain.CourseScheduled}, nil)
	cc.On("ListAttendees", mock.Anything, mock.Anything, courseID).Return([]domain.Attendee{}, nil)
	tc.On("Get", mock.Anything, mock.Anything, templateID).Return(nil, upstream.ErrTimeout)

	req := newAuthedRequest("GET", "/api/courses/"+courseID.String(), nil,
		map[string]string{"id": courseID.String()})
	w := httptest.NewRecorder()
	h.GetView(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Data CourseViewResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Nil(t, res.Data.Template)
	assert.NotNil(t, res.Data.Degraded)
	assert.Equal(t, "unavailable", res.Data.Degraded.Template)
}

func TestCourseGetView_AttendeeFailureAborts(t *testing.T) {
	cc := new(mockCourseClient)
	h := newCourseHandler(cc, new(mockTemplateClient), new(mockWorkflowRunner))

	courseID := uuid.New()
	cc.On("Get", mock.Anything, mock.Anything, courseID).
		Return(&domain.Course{ID: courseID, Status: domain.CourseScheduled}, nil)
	cc.On("ListAttendees", mock.Anything, mock.Anything, courseID).Return(nil, upstream.ErrUnavailable)

	req := newAuthedRequest("GET", "/api/courses/"+courseID.String(), nil,
		map[string]string{"id": courseID.String()})
	w := httptest.NewRecorder()
	h.GetView(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCourseUpdate_RejectsInvalidTransition(t *testing.T) {
	cc := new(mockCourseClient)
	h := newCourseHandler(cc, new(mockTemplateClient), new(mockWorkflowRunner))

	courseID := uuid.New()
	cc.On("Get", mock.Anything, mock.Anything, courseID).
		Return(&domain.Course{ID: courseID, Status: domain.CourseCompleted}, nil)

	body := `{"name":"Course","startDate":"2026-09-01","endDate":"2026-09-05","maxSeats":12,"status":"IN_PROGRESS"}`
	req := newAuthedRequest("PUT", "/api/courses/"+courseID.String(), strings.NewReader(body),
		map[string]string{"id": courseID.String()})
	w := httptest.NewRecorder()
	h.Update(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var apiErr domain.APIError
	json.Unmarshal(w.Body.Bytes(), &apiErr)
	assert.Equal(t, "conflict_state", apiErr.Error.Code)
	cc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCourseUpdate_AllowsValidTransition(t *testing.T) {
	cc := new(mockCourseClient)
	h := newCourseHandler(cc, new(mockTemplateClient), new(mockWorkflowRunner))

	courseID := uuid.New()
	cc.On("Get", mock.Anything, mock.Anything, courseID).
		Return(&domain.Course{ID: courseID, Status: domain.CourseScheduled}, nil)
	cc.On("Update", mock.Anything, mock.Anything, courseID, mock.Anything).
		Return(&domain.Course{ID: courseID, Status: domain.CourseInProgress}, nil)

	body := `{"name":"Course","startDate":"2026-09-01","endDate":"2026-09-05","maxSeats":12,"status":"IN_PROGRESS"}`
	req := newAuthedRequest("PUT", "/api/courses/"+courseID.String(), strings.NewReader(body),
		map[string]string{"id": courseID.String()})
	w := httptest.NewRecorder()
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cc.AssertExpectations(t)
}

func TestCourseArchive_RequiresFinishRemark(t *testing.T) {
	cc := new(mockCourseClient)
	h := newCourseHandler(cc, new(mockTemplateClient), new(mockWorkflowRunner))

	courseID := uuid.New()
	body := `{"finishRemark":"   "}`
	req := newAuthedRequest("POST", "/api/courses/"+courseID.String()+"/archive", strings.NewReader(body),
		map[string]string{"id": courseID.String()})
	w := httptest.NewRecorder()
	h.Archive(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	cc.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCourseArchive_Success(t *testing.T) {
	cc := new(mockCourseClient)
	h := newCourseHandler(cc, new(mockTemplateClient), new(mockWorkflowRunner))

	courseID := uuid.New()
	cc.On("Archive", mock.Anything, mock.Anything, courseID, "all certified").Return(nil)

	body := `{"finishRemark":"all certified"}`
	req := newAuthedRequest("POST", "/api/courses/"+courseID.String()+"/archive", strings.NewReader(body),
		map[string]string{"id": courseID.String()})
	w := httptest.NewRecorder()
	h.Archive(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	cc.AssertExpectations(t)
}

func TestCourseAssignAttendee_ForwardsSeatConflict(t *testing.T) {
	cc := new(mockCourseClient)
	h := newCourseHandler(cc, new(mockTemplateClient), new(mockWorkflowRunner))

	courseID := uuid.New()
	attendeeID := uuid.New()
	cc.On("AssignAttendee", mock.Anything, mock.Anything, courseID, attendeeID).
		Return(&upstream.StatusError{StatusCode: http.StatusConflict, Code: "course_full", Message: "no seats left"})

	body := `{"attendeeId":"` + attendeeID.String() + `"}`
	req := newAuthedRequest("POST", "/api/courses/"+courseID.String()+"/attendees", strings.NewReader(body),
		map[string]string{"id": courseID.String()})
	w := httptest.NewRecorder()
	h.AssignAttendee(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var apiErr domain.APIError
	json.Unmarshal(w.Body.Bytes(), &apiErr)
	assert.Equal(t, "course_full", apiErr.Error.Code)
}

func TestCourseReturnToWaitlist_Success(t *testing.T) {
	cc := new(mockCourseClient)
	wf := new(mockWorkflowRunner)
	h := newCourseHandler(cc, new(mockTemplateClient), wf)

	courseID := uuid.New()
	attendeeID := uuid.New()
	templateID := uuid.New()

	cc.On("Get", mock.Anything, mock.Anything, courseID).
		Return(&domain.Course{ID: courseID, TemplateID: &templateID, Status: domain.CourseScheduled}, nil)
	wf.On("ReturnToWaitlist", mock.Anything, mock.Anything, courseID, attendeeID, &templateID).Return(nil)

	req := newAuthedRequest("POST",
		"/api/courses/"+courseID.String()+"/attendees/"+attendeeID.String()+"/return-to-waitlist", nil,
		map[string]string{"id": courseID.String(), "attendeeID": attendeeID.String()})
	w := httptest.NewRecorder()
	h.ReturnToWaitlist(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	wf.AssertExpectations(t)
}

func TestCourseReturnToWaitlist_NoTemplateConflicts(t *testing.T) {
	cc := new(mockCourseClient)
	wf := new(mockWorkflowRunner)
	h := newCourseHandler(cc, new(mockTemplateClient), wf)

	courseID := uuid.New()
	attendeeID := uuid.New()

	cc.On("Get", mock.Anything, mock.Anything, courseID).
		Return(&domain.Course{ID: courseID, Status: domain.CourseScheduled}, nil)
	wf.On("ReturnToWaitlist", mock.Anything, mock.Anything, courseID, attendeeID, (*uuid.UUID)(nil)).
		Return(domain.ErrTemplateMissing)

	req := newAuthedRequest("POST",
		"/api/courses/"+courseID.String()+"/attendees/"+attendeeID.String()+"/return-to-waitlist", nil,
		map[string]string{"id": courseID.String(), "attendeeID": attendeeID.String()})
	w := httptest.NewRecorder()
	h.ReturnToWaitlist(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var apiErr domain.APIError
	json.Unmarshal(w.Body.Bytes(), &apiErr)
	assert.Equal(t, "conflict_state", apiErr.Error.Code)
}
