package domain

import "strings"

// CourseStatus is the closed set of course lifecycle states. Unknown strings
// are rejected at the decoding edge instead of leaking into comparisons.
type CourseStatus string

const (
	CourseScheduled  CourseStatus = "SCHEDULED"
	CourseInProgress CourseStatus = "IN_PROGRESS"
	CourseCompleted  CourseStatus = "COMPLETED"
	CourseCancelled  CourseStatus = "CANCELLED"
)

func ParseCourseStatus(s string) (CourseStatus, error) {
	switch CourseStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case CourseScheduled:
		return CourseScheduled, nil
	case CourseInProgress:
		return CourseInProgress, nil
	case CourseCompleted:
		return CourseCompleted, nil
	case CourseCancelled:
		return CourseCancelled, nil
	default:
		return "", ErrUnknownStatus
	}
}

func (s CourseStatus) Valid() bool {
	_, err := ParseCourseStatus(string(s))
	return err == nil
}

// CanTransitionTo encodes the lifecycle: SCHEDULED -> IN_PROGRESS ->
// COMPLETED, with CANCELLED reachable from any non-terminal state.
func (s CourseStatus) CanTransitionTo(next CourseStatus) bool {
	switch s {
	case CourseScheduled:
		return next == CourseInProgress || next == CourseCancelled
	case CourseInProgress:
		return next == CourseCompleted || next == CourseCancelled
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible.
func (s CourseStatus) Terminal() bool {
	return s == CourseCompleted || s == CourseCancelled
}

func (s CourseStatus) Label() string {
	switch s {
	case CourseScheduled:
		return "Scheduled"
	case CourseInProgress:
		return "In progress"
	case CourseCompleted:
		return "Completed"
	case CourseCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// WaitlistStatus is the closed set of waitlist record states.
type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "WAITING"
	WaitlistConfirmed WaitlistStatus = "CONFIRMED"
	WaitlistDeleted   WaitlistStatus = "DELETED"
)

func ParseWaitlistStatus(s string) (WaitlistStatus, error) {
	switch WaitlistStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case WaitlistWaiting:
		return WaitlistWaiting, nil
	case WaitlistConfirmed:
		return WaitlistConfirmed, nil
	case WaitlistDeleted:
		return WaitlistDeleted, nil
	default:
		return "", ErrUnknownStatus
	}
}

func (s WaitlistStatus) Valid() bool {
	_, err := ParseWaitlistStatus(string(s))
	return err == nil
}

// AttendeeRank classifies attendees; labels are what the search filter and
// the dashboard tables show.
type AttendeeRank string

const (
	RankCaptain       AttendeeRank = "CAPTAIN"
	RankChiefOfficer  AttendeeRank = "CHIEF_OFFICER"
	RankOfficer       AttendeeRank = "OFFICER"
	RankChiefEngineer AttendeeRank = "CHIEF_ENGINEER"
	RankEngineer      AttendeeRank = "ENGINEER"
	RankCadet         AttendeeRank = "CADET"
	RankRating        AttendeeRank = "RATING"
	RankOther         AttendeeRank = "OTHER"
)

var rankLabels = map[AttendeeRank]string{
	RankCaptain:       "Captain",
	RankChiefOfficer:  "Chief Officer",
	RankOfficer:       "Officer",
	RankChiefEngineer: "Chief Engineer",
	RankEngineer:      "Engineer",
	RankCadet:         "Cadet",
	RankRating:        "Rating",
	RankOther:         "Other",
}

func ParseAttendeeRank(s string) (AttendeeRank, error) {
	r := AttendeeRank(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := rankLabels[r]; ok {
		return r, nil
	}
	return "", ErrUnknownStatus
}

func (r AttendeeRank) Valid() bool {
	_, ok := rankLabels[r]
	return ok
}

func (r AttendeeRank) Label() string {
	if label, ok := rankLabels[r]; ok {
		return label
	}
	return string(r)
}
