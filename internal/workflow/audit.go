package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/traincore/dashboard-bff/middleware"
)

// Audit provides structured audit logging for workflow outcomes.
type Audit struct {
	log zerolog.Logger
}

func NewAudit(log zerolog.Logger) *Audit {
	return &Audit{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// CourseScheduled logs a course created by the promotion workflow.
func (a *Audit) CourseScheduled(ctx context.Context, courseID uuid.UUID, templateID *uuid.UUID, selected int) {
	e := a.log.Info().
		Str("action", "course_scheduled").
		Str("course_id", courseID.String()).
		Int("selected_waitlist_records", selected).
		Str("request_id", middleware.GetRequestID(ctx))
	if templateID != nil {
		e = e.Str("template_id", templateID.String())
	}
	e.Msg("Course scheduled")
}

// AttendeePromoted logs a waitlist record consumed into a seat assignment.
func (a *Audit) AttendeePromoted(ctx context.Context, courseID, attendeeID, recordID uuid.UUID) {
	a.log.Info().
		Str("action", "attendee_promoted").
		Str("course_id", courseID.String()).
		Str("attendee_id", attendeeID.String()).
		Str("waitlist_record_id", recordID.String()).
		Str("request_id", middleware.GetRequestID(ctx)).
		Msg("Attendee promoted from waitlist")
}

// PromotionFailed logs a per-attendee promotion failure; the batch goes on.
func (a *Audit) PromotionFailed(ctx context.Context, courseID, attendeeID uuid.UUID, step string, err error) {
	a.log.Warn().
		Str("action", "promotion_failed").
		Str("course_id", courseID.String()).
		Str("attendee_id", attendeeID.String()).
		Str("step", step).
		Err(err).
		Str("request_id", middleware.GetRequestID(ctx)).
		Msg("Waitlist promotion failed for attendee")
}

// ReturnedToWaitlist logs an attendee moved back from a course to the
// template's waitlist.
func (a *Audit) ReturnedToWaitlist(ctx context.Context, courseID, attendeeID, templateID uuid.UUID) {
	a.log.Info().
		Str("action", "returned_to_waitlist").
		Str("course_id", courseID.String()).
		Str("attendee_id", attendeeID.String()).
		Str("template_id", templateID.String()).
		Str("request_id", middleware.GetRequestID(ctx)).
		Msg("Attendee returned to waitlist")
}

// CourseArchived logs an archival with its finish remark length (the remark
// itself is free text and stays out of the log).
func (a *Audit) CourseArchived(ctx context.Context, courseID uuid.UUID) {
	a.log.Info().
		Str("action", "course_archived").
		Str("course_id", courseID.String()).
		Str("request_id", middleware.GetRequestID(ctx)).
		Msg("Course archived")
}

// CourseDeleted logs the hard delete path.
func (a *Audit) CourseDeleted(ctx context.Context, courseID uuid.UUID) {
	a.log.Warn().
		Str("action", "course_deleted").
		Str("course_id", courseID.String()).
		Str("request_id", middleware.GetRequestID(ctx)).
		Msg("Course deleted")
}
