package service

import "github.com/coursematch/tutor-api/internal/models"

// PlanPreferredContactWrites returns the ordered writes needed to create
// or update a contact method while keeping at most one preferred method
// per user.
//
// target carries the desired field values; an empty target.ID means a
// create. preferred is the requested is_preferred value, nil when the
// request does not touch the flag (the target keeps whatever
// IsPreferred it already carries).
//
// When the target is to become preferred, the plan first clears every
// other currently-preferred method, then writes the target. An explicit
// preferred=false produces a single write with no cascade. The caller
// must apply the whole plan inside one transaction: a crash or
// interleaving between the clear and the set must never leave two
// preferred methods visible to readers.
func PlanPreferredContactWrites(userID string, existing []models.ContactMethod, target models.ContactMethod, preferred *bool) []models.ContactWrite {
	target.UserID = userID

	var writes []models.ContactWrite

	if preferred != nil {
		target.IsPreferred = *preferred
	}
	if target.IsPreferred {
		for _, m := range existing {
			if m.IsPreferred && m.ID != target.ID {
				writes = append(writes, models.ContactWrite{Op: models.ContactWriteClearPreferred, MethodID: m.ID})
			}
		}
	}

	if target.ID == "" {
		writes = append(writes, models.ContactWrite{Op: models.ContactWriteCreate, Method: &target})
	} else {
		writes = append(writes, models.ContactWrite{Op: models.ContactWriteUpdate, MethodID: target.ID, Method: &target})
	}

	return writes
}
