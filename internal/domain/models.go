package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownStatus   = errors.New("unknown_status")
	ErrTemplateMissing = errors.New("course_has_no_template")
)

// Attendee is the core person record. Courses, WaitlistRecords and Remarks
// are only populated by the with-details upstream endpoint.
type Attendee struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Surname   string       `json:"surname"`
	Email     string       `json:"email"`
	Telephone string       `json:"telephone"`
	Rank      AttendeeRank `json:"rank"`
	Remark    string       `json:"remark,omitempty"`

	Courses         []Course         `json:"courses,omitempty"`
	WaitlistRecords []WaitlistRecord `json:"waitlistRecords,omitempty"`
	Remarks         []Remark         `json:"remarks,omitempty"`
}

// Course is a concrete scheduled instantiation of a CourseTemplate.
// TemplateID is nil for freeform courses; those cannot take part in
// waitlist workflows.
type Course struct {
	ID                uuid.UUID    `json:"id"`
	TemplateID        *uuid.UUID   `json:"templateId,omitempty"`
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	StartDate         string       `json:"startDate"`
	EndDate           string       `json:"endDate"`
	StartTime         string       `json:"startTime"`
	EndTime           string       `json:"endTime"`
	Price             float64      `json:"price"`
	Currency          string       `json:"currency"`
	MaxSeats          int          `json:"maxSeats"`
	AvailableSeats    int          `json:"availableSeats"`
	EnrolledAttendees int          `json:"enrolledAttendees"`
	Status            CourseStatus `json:"status"`
}

// CourseTemplate is the reusable blueprint a Course is scheduled from.
type CourseTemplate struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	MaxSeats    int       `json:"maxSeats"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"lastUpdatedAt"`
}

// PlaceholderTemplate stands in for a template whose lookup failed while
// assembling a waitlist view, so one bad lookup never blanks the whole tab.
func PlaceholderTemplate(id uuid.UUID) CourseTemplate {
	return CourseTemplate{
		ID:   id,
		Name: "Unknown template",
	}
}

// WaitlistRecord is a pending request to join a future course instance of a
// template. The attendee is a denormalized snapshot taken at creation time.
type WaitlistRecord struct {
	ID               uuid.UUID      `json:"id"`
	AttendeeResponse Attendee       `json:"attendeeResponse"`
	CourseTemplateID uuid.UUID      `json:"courseTemplateId"`
	Status           WaitlistStatus `json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// Remark is a free-form audit note attached to an attendee.
type Remark struct {
	ID            uuid.UUID `json:"id"`
	RemarkText    string    `json:"remarkText"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Document is an identity or certificate document attached to an attendee.
// It takes no part in the waitlist/course workflows.
type Document struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Number     string    `json:"number"`
	IssueDate  string    `json:"issueDate,omitempty"`
	ExpiryDate string    `json:"expiryDate,omitempty"`
	IsVerified bool      `json:"isVerified"`
	FileID     *uuid.UUID `json:"fileId,omitempty"`
}

// ScanResult holds the document fields the OCR service extracted from an
// uploaded file, for the operator to review before saving.
type ScanResult struct {
	Name       string `json:"name,omitempty"`
	Number     string `json:"number,omitempty"`
	IssueDate  string `json:"issueDate,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// SortRemarks orders remarks newest-first. The upstream return order is not
// trusted; ties fall back to id so the order is stable.
func SortRemarks(remarks []Remark) {
	sort.SliceStable(remarks, func(i, j int) bool {
		if !remarks[i].CreatedAt.Equal(remarks[j].CreatedAt) {
			return remarks[i].CreatedAt.After(remarks[j].CreatedAt)
		}
		return remarks[i].ID.String() > remarks[j].ID.String()
	})
}

// MatchesQuery reports whether q is a case-insensitive substring of the
// attendee's name, surname, email, telephone or rank label. An empty query
// matches everything.
func (a Attendee) MatchesQuery(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range []string{a.Name, a.Surname, a.Email, a.Telephone, a.Rank.Label()} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterAttendees returns the attendees matching q, preserving order.
func FilterAttendees(attendees []Attendee, q string) []Attendee {
	out := make([]Attendee, 0, len(attendees))
	for _, a := range attendees {
		if a.MatchesQuery(q) {
			out = append(out, a)
		}
	}
	return out
}

type APIError struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Meta      map[string]string `json:"meta,omitempty"`
		RequestID string            `json:"request_id,omitempty"`
	} `json:"error"`
}
