package review

import (
	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

const maxDueLimit = 200

// SubmitReviewInput holds the parameters for recording one review.
type SubmitReviewInput struct {
	UnitID     uuid.UUID
	Remembered bool
}

// Validate checks all fields and collects all errors.
func (i *SubmitReviewInput) Validate() error {
	if i.UnitID == uuid.Nil {
		return domain.NewValidationError("unit_id", "required")
	}
	return nil
}

// DueItemsInput holds the parameters for listing due items. A zero Limit
// selects the configured default.
type DueItemsInput struct {
	Limit int
}

func (i *DueItemsInput) Validate() error {
	if i.Limit < 0 || i.Limit > maxDueLimit {
		return domain.NewValidationError("limit", "must be between 0 and 200")
	}
	return nil
}

// RecentProgressInput selects the number of most recent daily records.
type RecentProgressInput struct {
	Days int
}

func (i *RecentProgressInput) Validate() error {
	var errs []domain.FieldError
	if i.Days < 1 || i.Days > 365 {
		errs = append(errs, domain.FieldError{Field: "days", Message: "must be between 1 and 365"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
