package models

import "time"

// Course is a catalog entry identified by its (prefix, number) pair,
// e.g. prefix "CSCI", number "1301".
type Course struct {
	ID          string    `db:"id" json:"id"`
	Prefix      string    `db:"prefix" json:"prefix"`
	Number      string    `db:"number" json:"number"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CoursePredicate is the structured form of a free-text course search.
// Exactly one of the three shapes is populated: MatchAll, the conjunctive
// Prefix+Number pair, or the disjunctive Term. The query layer treats all
// fragments as case-insensitive substring matches.
type CoursePredicate struct {
	MatchAll bool   `json:"match_all"`
	Prefix   string `json:"prefix,omitempty"`
	Number   string `json:"number,omitempty"`
	Term     string `json:"term,omitempty"`
}

// Conjunctive reports whether the predicate requires both prefix and
// number to match.
func (p CoursePredicate) Conjunctive() bool {
	return p.Prefix != "" && p.Number != ""
}

// CourseFilter provides filters for listing catalog courses.
type CourseFilter struct {
	Predicate CoursePredicate
	Page      int
	PageSize  int
}
