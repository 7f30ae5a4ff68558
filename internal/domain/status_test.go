package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCourseStatus(t *testing.T) {
	s, err := ParseCourseStatus("scheduled")
	assert.NoError(t, err)
	assert.Equal(t, CourseScheduled, s)

	s, err = ParseCourseStatus("  IN_PROGRESS  ")
	assert.NoError(t, err)
	assert.Equal(t, CourseInProgress, s)

	_, err = ParseCourseStatus("ARCHIVED")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = ParseCourseStatus("")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCourseStatusTransitions(t *testing.T) {
	cases := []struct {
		from    CourseStatus
		to      CourseStatus
		allowed bool
	}{
		{CourseScheduled, CourseInProgress, true},
		{CourseScheduled, CourseCancelled, true},
		{CourseScheduled, CourseCompleted, false},
		{CourseInProgress, CourseCompleted, true},
		{CourseInProgress, CourseCancelled, true},
		{CourseInProgress, CourseScheduled, false},
		{CourseCompleted, CourseInProgress, false},
		{CourseCompleted, CourseCancelled, false},
		{CourseCancelled, CourseScheduled, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCourseStatusTerminal(t *testing.T) {
	assert.False(t, CourseScheduled.Terminal())
	assert.False(t, CourseInProgress.Terminal())
	assert.True(t, CourseCompleted.Terminal())
	assert.True(t, CourseCancelled.Terminal())
}

func TestParseWaitlistStatus(t *testing.T) {
	s, err := ParseWaitlistStatus("waiting")
	assert.NoError(t, err)
	assert.Equal(t, WaitlistWaiting, s)

	_, err = ParseWaitlistStatus("PENDING")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestAttendeeRank(t *testing.T) {
	r, err := ParseAttendeeRank("chief_officer")
	assert.NoError(t, err)
	assert.Equal(t, RankChiefOfficer, r)
	assert.Equal(t, "Chief Officer", r.Label())

	_, err = ParseAttendeeRank("ADMIRAL")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	assert.True(t, RankCadet.Valid())
	assert.False(t, AttendeeRank("ADMIRAL").Valid())
}
