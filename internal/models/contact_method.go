package models

import "time"

// ContactMethod is a labeled way to reach a user, e.g. platform
// "discord" with an identifier. At most one method per user may be
// preferred at a time.
type ContactMethod struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Platform    string    `db:"platform" json:"platform"`
	Identifier  string    `db:"identifier" json:"identifier"`
	IsPreferred bool      `db:"is_preferred" json:"is_preferred"`
	Visible     bool      `db:"visible" json:"visible"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ContactWriteOp identifies a step in a contact write plan.
type ContactWriteOp string

const (
	// ContactWriteClearPreferred unsets is_preferred on an existing method.
	ContactWriteClearPreferred ContactWriteOp = "CLEAR_PREFERRED"
	// ContactWriteUpdate applies field changes to an existing method.
	ContactWriteUpdate ContactWriteOp = "UPDATE"
	// ContactWriteCreate inserts a new method.
	ContactWriteCreate ContactWriteOp = "CREATE"
)

// ContactWrite is one step of an ordered write plan. Plans that touch
// the preferred flag span several methods and must be applied inside a
// single transaction so readers never observe two preferred methods.
type ContactWrite struct {
	Op       ContactWriteOp
	MethodID string
	Method   *ContactMethod
}
