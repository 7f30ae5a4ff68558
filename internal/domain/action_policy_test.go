package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCalculateCourseActions_Scheduled(t *testing.T) {
	tplID := uuid.New()
	actions := CalculateCourseActions(&Course{Status: CourseScheduled, TemplateID: &tplID})

	assert.True(t, actions.CanEdit)
	assert.True(t, actions.CanStart)
	assert.False(t, actions.CanComplete)
	assert.True(t, actions.CanCancel)
	assert.False(t, actions.CanArchive)
	assert.True(t, actions.CanManageAttendees)
	assert.True(t, actions.CanReturnToWaitlist)
	assert.Empty(t, actions.Reason)
}

func TestCalculateCourseActions_InProgress(t *testing.T) {
	tplID := uuid.New()
	actions := CalculateCourseActions(&Course{Status: CourseInProgress, TemplateID: &tplID})

	assert.False(t, actions.CanStart)
	assert.True(t, actions.CanComplete)
	assert.True(t, actions.CanManageAttendees)
	assert.False(t, actions.CanArchive)
}

func TestCalculateCourseActions_TerminalEnablesArchive(t *testing.T) {
	for _, status := range []CourseStatus{CourseCompleted, CourseCancelled} {
		actions := CalculateCourseActions(&Course{Status: status})

		assert.True(t, actions.CanArchive, "status %s", status)
		assert.False(t, actions.CanEdit)
		assert.False(t, actions.CanManageAttendees)
		assert.False(t, actions.CanReturnToWaitlist)
		assert.Equal(t, "course_finished", actions.Reason)
	}
}

func TestCalculateCourseActions_NoTemplateDisablesReturn(t *testing.T) {
	actions := CalculateCourseActions(&Course{Status: CourseScheduled})

	assert.True(t, actions.CanManageAttendees)
	assert.False(t, actions.CanReturnToWaitlist)
	assert.Equal(t, "course_has_no_template", actions.Reason)
}
