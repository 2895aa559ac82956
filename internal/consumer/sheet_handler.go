package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/catalog"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/domain"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/events"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/store"
)

// SheetHandler merges submitted sheet events into the person store.
type SheetHandler struct {
	store   *store.MergeStore
	catalog *catalog.Catalog
}

// NewSheetHandler constructs a handler backed by the provided store and catalog.
func NewSheetHandler(s *store.MergeStore, c *catalog.Catalog) Handler {
	return &SheetHandler{store: s, catalog: c}
}

// Handle projects sheet.submitted events into the merge store. Events of any
// other type are ignored.
func (h *SheetHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.EventTypeSheetSubmitted {
		return nil
	}

	var evt events.SheetSubmitted
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if evt.PersonName == "" {
		return domain.NewInputError("person_name", "must not be empty")
	}

	submittedAt := evt.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = msg.Timestamp
	}
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}
	ts := domain.FormatTimestamp(submittedAt)

	person := domain.Person{Name: evt.PersonName}
	for _, entry := range evt.Exercises {
		district := entry.District
		if district == "" && h.catalog != nil {
			if d, err := h.catalog.DistrictOf(entry.Name); err == nil {
				district = d
			} else if !errors.Is(err, catalog.ErrExerciseNotFound) {
				return err
			}
		}
		person.Exercises = append(person.Exercises, domain.Exercise{
			Name:     entry.Name,
			District: district,
			Volumes:  []domain.Volume{{Weight: entry.Weight, Reps: entry.Reps, TS: ts}},
		})
	}

	return h.store.Save(ctx, person)
}
