package service

import (
	"regexp"
	"strings"

	"github.com/coursematch/tutor-api/internal/models"
)

var (
	coursePrefixShape = regexp.MustCompile(`^[A-Za-z]{2,5}$`)
	courseNumberShape = regexp.MustCompile(`^[0-9]{3,4}[A-Za-z]*$`)
)

// ParseCourseQuery classifies a free-text search string into a course
// predicate. A blank query matches everything. When the first two tokens
// look like a course code ("CSCI 1301"), the result is a conjunctive
// prefix+number match; anything else becomes a disjunctive match of the
// whole string against prefix, number and title. The conjunctive shape
// deliberately skips titles so "CSCI 1301" cannot match a course whose
// title merely mentions both tokens.
//
// Parsing is total: every input yields a predicate.
func ParseCourseQuery(query string) models.CoursePredicate {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return models.CoursePredicate{MatchAll: true}
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) >= 2 && coursePrefixShape.MatchString(tokens[0]) && courseNumberShape.MatchString(tokens[1]) {
		return models.CoursePredicate{Prefix: tokens[0], Number: tokens[1]}
	}

	return models.CoursePredicate{Term: trimmed}
}
