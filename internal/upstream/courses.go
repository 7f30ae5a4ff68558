package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/middleware"
)

// CourseClient wraps the scheduled-course surface of the core API.
type CourseClient struct {
	client *Client
}

func NewCourseClient(client *Client) *CourseClient {
	return &CourseClient{client: client}
}

// CourseInput is the write payload for creating or updating a course.
type CourseInput struct {
	TemplateID  *uuid.UUID          `json:"templateId,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	StartDate   string              `json:"startDate"`
	EndDate     string              `json:"endDate"`
	StartTime   string              `json:"startTime"`
	EndTime     string              `json:"endTime"`
	Price       float64             `json:"price"`
	Currency    string              `json:"currency"`
	MaxSeats    int                 `json:"maxSeats"`
	Status      domain.CourseStatus `json:"status,omitempty"`
}

func (c *CourseClient) List(ctx context.Context, sess middleware.Session) ([]domain.Course, error) {
	url := c.client.centerPath(sess) + "/courses"
	courses, err := getJSON[[]domain.Course](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	return courses, nil
}

func (c *CourseClient) Get(ctx context.Context, sess middleware.Session, id uuid.UUID) (*domain.Course, error) {
	url := fmt.Sprintf("%s/courses/%s", c.client.centerPath(sess), id)
	course, err := getJSON[domain.Course](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CourseClient) Create(ctx context.Context, sess middleware.Session, in CourseInput) (*domain.Course, error) {
	url := c.client.centerPath(sess) + "/courses"
	course, err := writeJSON[domain.Course](ctx, c.client, sess, http.MethodPost, url, in)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CourseClient) Update(ctx context.Context, sess middleware.Session, id uuid.UUID, in CourseInput) (*domain.Course, error) {
	url := fmt.Sprintf("%s/courses/%s", c.client.centerPath(sess), id)
	course, err := writeJSON[domain.Course](ctx, c.client, sess, http.MethodPut, url, in)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Delete is the hard delete; archival is the separate Archive call.
func (c *CourseClient) Delete(ctx context.Context, sess middleware.Session, id uuid.UUID) error {
	url := fmt.Sprintf("%s/courses/%s", c.client.centerPath(sess), id)
	return deleteReq(ctx, c.client, sess, url)
}

// Archive retires a course from the active list with a finish remark.
func (c *CourseClient) Archive(ctx context.Context, sess middleware.Session, id uuid.UUID, finishRemark string) error {
	url := fmt.Sprintf("%s/courses/%s/archive", c.client.centerPath(sess), id)
	body := map[string]string{"finishRemark": finishRemark}
	_, err := writeJSON[struct{}](ctx, c.client, sess, http.MethodPost, url, body)
	return err
}

// ListByTemplate returns the active courses scheduled from a template.
func (c *CourseClient) ListByTemplate(ctx context.Context, sess middleware.Session, templateID uuid.UUID) ([]domain.Course, error) {
	url := fmt.Sprintf("%s/courses/template/%s", c.client.centerPath(sess), templateID)
	courses, err := getJSON[[]domain.Course](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	return courses, nil
}

// ListAttendees returns the attendees enrolled on a course.
func (c *CourseClient) ListAttendees(ctx context.Context, sess middleware.Session, id uuid.UUID) ([]domain.Attendee, error) {
	url := fmt.Sprintf("%s/courses/%s/attendees", c.client.centerPath(sess), id)
	attendees, err := getJSON[[]domain.Attendee](ctx, c.client, sess, url)
	if err != nil {
		return nil, err
	}
	if attendees == nil {
		attendees = []domain.Attendee{}
	}
	return attendees, nil
}

// AssignAttendee enrolls an attendee. Seat capacity is not checked here; the
// core API rejects over-capacity assignment and the rejection is surfaced
// as a StatusError.
func (c *CourseClient) AssignAttendee(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID) error {
	url := fmt.Sprintf("%s/courses/%s/attendees", c.client.centerPath(sess), courseID)
	body := map[string]string{"attendeeId": attendeeID.String()}
	_, err := writeJSON[struct{}](ctx, c.client, sess, http.MethodPost, url, body)
	return err
}

// RemoveAttendee unenrolls an attendee from a course.
func (c *CourseClient) RemoveAttendee(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID) error {
	url := fmt.Sprintf("%s/attendees/%s/courses/%s", c.client.centerPath(sess), attendeeID, courseID)
	return deleteReq(ctx, c.client, sess, url)
}
