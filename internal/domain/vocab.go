package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome is the result fed to the review scheduler.
type ReviewOutcome string

const (
	ReviewNone ReviewOutcome = "none"
	ReviewPass ReviewOutcome = "pass"
	ReviewFail ReviewOutcome = "fail"
)

func (o ReviewOutcome) String() string { return string(o) }

func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewNone, ReviewPass, ReviewFail:
		return true
	}
	return false
}

// UserVocab is one learning unit in a user's vocabulary.
type UserVocab struct {
	UserID         uuid.UUID
	UnitID         uuid.UUID
	LastReviewedAt *time.Time
	NextReviewAt   *time.Time
	Progress       int
	RecentMastery  *int
	CreatedAt      time.Time
}

// IsDue reports whether the item should be reviewed at now.
func (v *UserVocab) IsDue(now time.Time) bool {
	return v.NextReviewAt == nil || !v.NextReviewAt.After(now)
}

// DueItem is a due vocabulary item with the label of its unit.
type DueItem struct {
	Vocab UserVocab
	Label string
}

// VocabSummary aggregates a user's vocabulary.
type VocabSummary struct {
	Total             int
	AveragePercentage float64
	DueCount          int
}

// ProgressRecord is a daily snapshot of a user's vocabulary.
type ProgressRecord struct {
	UserID          uuid.UUID
	Date            time.Time
	VocabCount      int
	AverageProgress int
}
