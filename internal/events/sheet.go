// Package events defines the payloads exchanged with upstream sheet collectors.
package events

import "time"

// EventTypeSheetSubmitted labels a workout sheet submission event.
const EventTypeSheetSubmitted = "sheet.submitted"

// SubmittedExercise is one entry of a submitted sheet.
type SubmittedExercise struct {
	Name     string  `json:"name"`
	District string  `json:"district,omitempty"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

// SheetSubmitted is emitted when an upstream collector accepts a workout sheet.
type SheetSubmitted struct {
	SheetID     string              `json:"sheet_id"`
	PersonName  string              `json:"person_name"`
	Exercises   []SubmittedExercise `json:"exercises"`
	SubmittedAt time.Time           `json:"submitted_at"`
	Source      string              `json:"source,omitempty"`
}
