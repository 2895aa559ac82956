package api

import (
	"fmt"
	"strings"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/domain"
)

// SheetEntry is one row of a submitted sheet form.
type SheetEntry struct {
	Name     string  `json:"name"`
	District string  `json:"district,omitempty"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

// CreateSheetRequest is the JSON shape of a sheet submission.
type CreateSheetRequest struct {
	Name      string       `json:"name"`
	Surname   string       `json:"surname"`
	Exercises []SheetEntry `json:"exercises"`
}

// Validate checks required fields before the request enters the domain.
func (r CreateSheetRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Exercises) == 0 {
		return fmt.Errorf("at least one exercise is required")
	}
	for i, entry := range r.Exercises {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("exercises[%d].name is required", i)
		}
		if entry.Weight < 0 {
			return fmt.Errorf("exercises[%d].weight must be non-negative", i)
		}
		if entry.Reps < 0 {
			return fmt.Errorf("exercises[%d].reps must be non-negative", i)
		}
	}
	return nil
}

// PersonName joins the form's name and surname into the storage identity.
func (r CreateSheetRequest) PersonName() string {
	surname := strings.TrimSpace(r.Surname)
	name := strings.TrimSpace(r.Name)
	if surname == "" {
		return name
	}
	return name + " " + surname
}

// CreateSheetResponse confirms a stored submission.
type CreateSheetResponse struct {
	SheetID   string `json:"sheet_id"`
	PersonKey string `json:"person_key"`
	Merged    int    `json:"exercise_count"`
}

// PersonResponse is the JSON view of a stored person record.
type PersonResponse struct {
	Name      string         `json:"name"`
	Exercises []ExerciseView `json:"exercises"`
}

// ExerciseView is the JSON view of one exercise with its history.
type ExerciseView struct {
	Name     string       `json:"name"`
	District string       `json:"district,omitempty"`
	Volumes  []VolumeView `json:"volumes"`
}

// VolumeView is the JSON view of one recorded set.
type VolumeView struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	TS     string  `json:"ts"`
}

func toPersonView(person domain.Person) PersonResponse {
	resp := PersonResponse{Name: person.Name, Exercises: make([]ExerciseView, 0, len(person.Exercises))}
	for _, e := range person.Exercises {
		view := ExerciseView{Name: e.Name, District: e.District, Volumes: make([]VolumeView, 0, len(e.Volumes))}
		for _, v := range e.Volumes {
			view.Volumes = append(view.Volumes, VolumeView{Weight: v.Weight, Reps: v.Reps, TS: v.TS})
		}
		resp.Exercises = append(resp.Exercises, view)
	}
	return resp
}

// CatalogEntryRequest names one district↔exercise assignment.
type CatalogEntryRequest struct {
	District string `json:"district"`
	Exercise string `json:"exercise"`
}

// Validate checks both names are present.
func (r CatalogEntryRequest) Validate() error {
	if strings.TrimSpace(r.District) == "" {
		return fmt.Errorf("district is required")
	}
	if strings.TrimSpace(r.Exercise) == "" {
		return fmt.Errorf("exercise is required")
	}
	return nil
}
