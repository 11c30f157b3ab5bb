package ticket

import "github.com/ganot/helpdesk-mcp/internal/errs"

// ValidateID rejects non-positive ticket and entity identifiers before
// any network call is made.
func ValidateID(field string, id int64) error {
	if id <= 0 {
		return errs.Validation(field, "must be a positive integer, got %d", id)
	}
	return nil
}

// ValidateIDs validates a batch of identifiers.
func ValidateIDs(field string, ids []int64) error {
	if len(ids) == 0 {
		return errs.Validation(field, "must not be empty")
	}
	for _, id := range ids {
		if err := ValidateID(field, id); err != nil {
			return err
		}
	}
	return nil
}
