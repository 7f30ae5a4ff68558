package domain

// CourseActions tells the dashboard which operations are currently valid for
// a course, so every surface renders the same buttons from one computation.
type CourseActions struct {
	CanEdit             bool   `json:"can_edit"`
	CanStart            bool   `json:"can_start"`
	CanComplete         bool   `json:"can_complete"`
	CanCancel           bool   `json:"can_cancel"`
	CanArchive          bool   `json:"can_archive"`
	CanDelete           bool   `json:"can_delete"`
	CanManageAttendees  bool   `json:"can_manage_attendees"`
	CanReturnToWaitlist bool   `json:"can_return_to_waitlist"`
	Reason              string `json:"reason,omitempty"`
}

// CalculateCourseActions derives the action set from the course state alone.
// Returning an attendee to the waitlist needs a template to put them back
// on; freeform courses disable that action rather than failing mid-workflow.
func CalculateCourseActions(course *Course) CourseActions {
	actions := CourseActions{
		CanEdit:     !course.Status.Terminal(),
		CanStart:    course.Status.CanTransitionTo(CourseInProgress),
		CanComplete: course.Status.CanTransitionTo(CourseCompleted),
		CanCancel:   course.Status.CanTransitionTo(CourseCancelled),
		CanDelete:   true,
	}

	// Archival takes a finish remark and retires the course from the active
	// list, so it only applies once the lifecycle has ended.
	actions.CanArchive = course.Status.Terminal()

	actions.CanManageAttendees = course.Status == CourseScheduled || course.Status == CourseInProgress

	if !actions.CanManageAttendees {
		actions.Reason = "course_finished"
		return actions
	}

	if course.TemplateID == nil {
		actions.Reason = ErrTemplateMissing.Error()
		return actions
	}

	actions.CanReturnToWaitlist = true
	return actions
}
