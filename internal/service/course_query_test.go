package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coursematch/tutor-api/internal/models"
)

func TestParseCourseQueryEmpty(t *testing.T) {
	assert.Equal(t, models.CoursePredicate{MatchAll: true}, ParseCourseQuery(""))
	assert.Equal(t, models.CoursePredicate{MatchAll: true}, ParseCourseQuery("   \t "))
}

func TestParseCourseQueryCourseCode(t *testing.T) {
	pred := ParseCourseQuery("CSCI 1301")
	assert.True(t, pred.Conjunctive())
	assert.Equal(t, "CSCI", pred.Prefix)
	assert.Equal(t, "1301", pred.Number)
	assert.Empty(t, pred.Term)
	assert.False(t, pred.MatchAll)
}

func TestParseCourseQuerySingleToken(t *testing.T) {
	pred := ParseCourseQuery("calculus")
	assert.False(t, pred.Conjunctive())
	assert.Equal(t, "calculus", pred.Term)
}

func TestParseCourseQueryFreeText(t *testing.T) {
	pred := ParseCourseQuery("intro programming")
	assert.False(t, pred.Conjunctive())
	assert.Equal(t, "intro programming", pred.Term)
}

func TestParseCourseQueryShapes(t *testing.T) {
	cases := []struct {
		name        string
		query       string
		conjunctive bool
	}{
		{"honors suffix", "MATH 2250H", true},
		{"three digit number", "PHYS 120", true},
		{"prefix too short", "C 1301", false},
		{"prefix too long", "COMPSCI 1301", false},
		{"number too short", "CSCI 42", false},
		{"number with leading letters", "CSCI H1301", false},
		{"lowercase code", "csci 1301", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pred := ParseCourseQuery(tc.query)
			assert.Equal(t, tc.conjunctive, pred.Conjunctive())
		})
	}
}

func TestParseCourseQueryExtraTokensUseFirstTwo(t *testing.T) {
	pred := ParseCourseQuery("CSCI 1301 systems")
	assert.True(t, pred.Conjunctive())
	assert.Equal(t, "CSCI", pred.Prefix)
	assert.Equal(t, "1301", pred.Number)
}

func TestParseCourseQueryDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, ParseCourseQuery("CSCI 1301"), ParseCourseQuery("CSCI 1301"))
		assert.Equal(t, ParseCourseQuery("linear algebra"), ParseCourseQuery("linear algebra"))
	}
}
