package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/internal/upstream"
	"github.com/traincore/dashboard-bff/middleware"
)

var promotionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "workflow_promotions_total",
		Help: "Waitlist-to-course promotions by result",
	},
	[]string{"result"},
)

// CourseWriter is the course surface the workflows need.
type CourseWriter interface {
	Create(ctx context.Context, sess middleware.Session, in upstream.CourseInput) (*domain.Course, error)
	AssignAttendee(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID) error
	RemoveAttendee(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID) error
}

// WaitlistWriter is the waitlist surface the workflows need.
type WaitlistWriter interface {
	Create(ctx context.Context, sess middleware.Session, attendeeID, templateID uuid.UUID) (*domain.WaitlistRecord, error)
	Delete(ctx context.Context, sess middleware.Session, recordID uuid.UUID) error
}

// Orchestrator runs the waitlist/course workflows over the upstream clients.
type Orchestrator struct {
	courses  CourseWriter
	waitlist WaitlistWriter
	audit    *Audit
	log      zerolog.Logger
}

func NewOrchestrator(courses CourseWriter, waitlist WaitlistWriter, audit *Audit, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{courses: courses, waitlist: waitlist, audit: audit, log: log}
}

// PromotionFailure names the attendee that could not be promoted and the
// step that failed, so the dashboard can show succeeded and failed counts.
type PromotionFailure struct {
	WaitlistRecordID uuid.UUID `json:"waitlistRecordId"`
	AttendeeID       uuid.UUID `json:"attendeeId"`
	Step             string    `json:"step"`
	Message          string    `json:"message"`
}

// PromotionReport is the aggregate outcome of a schedule-with-promotion run.
type PromotionReport struct {
	Course   *domain.Course     `json:"course"`
	Promoted int                `json:"promoted"`
	Failed   []PromotionFailure `json:"failed"`
}

// ScheduleCourse creates a course and promotes the selected waitlist records
// onto it. Each record is moved by its own two-step saga (assign seat, then
// retire the waitlist record); when the retirement fails the assignment is
// compensated so the attendee stays consistently waitlisted rather than
// ending up enrolled and waitlisted at once. One attendee failing never
// aborts the rest of the batch.
func (o *Orchestrator) ScheduleCourse(ctx context.Context, sess middleware.Session, in upstream.CourseInput, selected []domain.WaitlistRecord) (*PromotionReport, error) {
	course, err := o.courses.Create(ctx, sess, in)
	if err != nil {
		return nil, err
	}
	o.audit.CourseScheduled(ctx, course.ID, course.TemplateID, len(selected))

	report := &PromotionReport{Course: course, Failed: []PromotionFailure{}}

	for _, record := range selected {
		attendeeID := record.AttendeeResponse.ID
		recordID := record.ID

		steps := []Step{
			{
				Name: "assign_attendee",
				Do: func(ctx context.Context) error {
					return o.courses.AssignAttendee(ctx, sess, course.ID, attendeeID)
				},
				Compensate: func(ctx context.Context) error {
					return o.courses.RemoveAttendee(ctx, sess, course.ID, attendeeID)
				},
			},
			{
				Name: "retire_waitlist_record",
				Do: func(ctx context.Context) error {
					return o.waitlist.Delete(ctx, sess, recordID)
				},
			},
		}

		if err := Run(ctx, o.log, "waitlist_promotion", steps); err != nil {
			promotionsTotal.WithLabelValues("failed").Inc()
			failure := PromotionFailure{
				WaitlistRecordID: recordID,
				AttendeeID:       attendeeID,
				Message:          err.Error(),
			}
			var stepErr *StepError
			if errors.As(err, &stepErr) {
				failure.Step = stepErr.Step
			}
			o.audit.PromotionFailed(ctx, course.ID, attendeeID, failure.Step, err)
			report.Failed = append(report.Failed, failure)
			continue
		}

		promotionsTotal.WithLabelValues("promoted").Inc()
		o.audit.AttendeePromoted(ctx, course.ID, attendeeID, recordID)
		report.Promoted++
	}

	return report, nil
}

// ReturnToWaitlist moves an enrolled attendee back onto the template's
// waitlist. The waitlist record is created first and has no compensation:
// if the course removal then fails, the attendee keeps both the seat and the
// new record, and never loses their place in line.
func (o *Orchestrator) ReturnToWaitlist(ctx context.Context, sess middleware.Session, courseID, attendeeID uuid.UUID, templateID *uuid.UUID) error {
	if templateID == nil {
		return domain.ErrTemplateMissing
	}

	steps := []Step{
		{
			Name: "create_waitlist_record",
			Do: func(ctx context.Context) error {
				_, err := o.waitlist.Create(ctx, sess, attendeeID, *templateID)
				return err
			},
		},
		{
			Name: "remove_from_course",
			Do: func(ctx context.Context) error {
				return o.courses.RemoveAttendee(ctx, sess, courseID, attendeeID)
			},
		},
	}

	if err := Run(ctx, o.log, "return_to_waitlist", steps); err != nil {
		return err
	}

	o.audit.ReturnedToWaitlist(ctx, courseID, attendeeID, *templateID)
	return nil
}
