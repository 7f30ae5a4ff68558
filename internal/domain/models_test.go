package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSortRemarks_NewestFirst(t *testing.T) {
	now := time.Now()
	remarks := []Remark{
		{ID: uuid.New(), RemarkText: "oldest", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: uuid.New(), RemarkText: "newest", CreatedAt: now},
		{ID: uuid.New(), RemarkText: "middle", CreatedAt: now.Add(-time.Hour)},
	}

	SortRemarks(remarks)

	assert.Equal(t, "newest", remarks[0].RemarkText)
	assert.Equal(t, "middle", remarks[1].RemarkText)
	assert.Equal(t, "oldest", remarks[2].RemarkText)
}

func TestSortRemarks_StableOnEqualTimestamps(t *testing.T) {
	ts := time.Now()
	remarks := []Remark{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), CreatedAt: ts},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), CreatedAt: ts},
	}

	SortRemarks(remarks)
	first := remarks[0].ID

	SortRemarks(remarks)
	assert.Equal(t, first, remarks[0].ID)
}

func TestMatchesQuery(t *testing.T) {
	a := Attendee{
		Name:      "John",
		Surname:   "Doe",
		Email:     "john.doe@example.com",
		Telephone: "+49 170 1234567",
		Rank:      RankChiefEngineer,
	}

	assert.True(t, a.MatchesQuery(""))
	assert.True(t, a.MatchesQuery("  "))
	assert.True(t, a.MatchesQuery("john"))
	assert.True(t, a.MatchesQuery("DOE"))
	assert.True(t, a.MatchesQuery("example.com"))
	assert.True(t, a.MatchesQuery("1234"))
	assert.True(t, a.MatchesQuery("chief eng"))
	assert.False(t, a.MatchesQuery("captain"))
	assert.False(t, a.MatchesQuery("smith"))
}

func TestFilterAttendees_PreservesOrder(t *testing.T) {
	attendees := []Attendee{
		{Name: "Anna", Surname: "Smith"},
		{Name: "Bob", Surname: "Jones"},
		{Name: "Susanna", Surname: "Miller"},
	}

	got := FilterAttendees(attendees, "anna")
	assert.Len(t, got, 2)
	assert.Equal(t, "Anna", got[0].Name)
	assert.Equal(t, "Susanna", got[1].Name)

	got = FilterAttendees(attendees, "nobody")
	assert.Empty(t, got)
}

func TestPlaceholderTemplate(t *testing.T) {
	id := uuid.New()
	tpl := PlaceholderTemplate(id)
	assert.Equal(t, id, tpl.ID)
	assert.Equal(t, "Unknown template", tpl.Name)
}
