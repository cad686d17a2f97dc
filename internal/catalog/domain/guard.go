package domain

import "fmt"

// AssertOwner rejects with ErrForbidden unless the acting user authored the
// store. Pure check, no I/O; must run before any mutation, never on reads.
func AssertOwner(store Store, actingUserID string) error {
	if actingUserID == "" || store.AuthorID != actingUserID {
		return fmt.Errorf("%w: store %q is not owned by the acting user", ErrForbidden, store.Slug)
	}
	return nil
}
