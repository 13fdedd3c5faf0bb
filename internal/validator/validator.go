package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"svw.info/ordl/internal/domain"
)

// ErrMalformedSubmission marks an order that cannot be scored.
var ErrMalformedSubmission = errors.New("malformed submission")

var structs = validator.New(validator.WithRequiredStructEnabled())

// Struct checks go-playground validation tags on v.
func Struct(v any) error { return structs.Struct(v) }

// Submission checks that order is a permutation of the puzzle's event ids.
func Submission(order []string, events []domain.Event) error {
	if len(order) != len(events) {
		return fmt.Errorf("%w: expected %d ids, got %d", ErrMalformedSubmission, len(events), len(order))
	}
	known := make(map[string]bool, len(events))
	for _, e := range events {
		known[e.ID] = false
	}
	for _, id := range order {
		used, ok := known[id]
		if !ok {
			return fmt.Errorf("%w: unknown id %q", ErrMalformedSubmission, id)
		}
		if used {
			return fmt.Errorf("%w: duplicate id %q", ErrMalformedSubmission, id)
		}
		known[id] = true
	}
	return nil
}
