package models

import "time"

// StepIntro is the narrative step every investigation starts from. It doubles as the defensive
// fallback when a decision option has no entry in the transition table.
const StepIntro = "intro"

// StartingTimeBudget is the time budget for a fresh investigation, 48 hours in seconds.
const StartingTimeBudget int64 = 172800

// UserProgress is the per-player investigation state. There is exactly one record per user id.
type UserProgress struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"userId"`
	CurrentStep      string           `json:"currentStep"`
	UnlockedEvidence []int64          `json:"unlockedEvidence"`
	Decisions        map[int64]string `json:"decisions"`
	TimeRemaining    int64            `json:"timeRemaining"`
	LastUpdated      time.Time        `json:"lastUpdated"`
}

// NewUserProgress returns the progress record a user starts with before any decision or
// registration side effect touches it.
func NewUserProgress(userID int64) UserProgress {
	return UserProgress{
		ID:               0,
		UserID:           userID,
		CurrentStep:      StepIntro,
		UnlockedEvidence: []int64{},
		Decisions:        map[int64]string{},
		TimeRemaining:    StartingTimeBudget,
		LastUpdated:      time.Time{},
	}
}
