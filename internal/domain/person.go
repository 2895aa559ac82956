// Package domain defines the entities of the workout sheet pipeline.
package domain

import (
	"fmt"
	"time"
)

// Volume is one performed set. Immutable once created; the merge path only
// ever appends volumes, never edits them.
type Volume struct {
	Weight float64 `yaml:"weight" json:"weight"`
	Reps   int     `yaml:"reps" json:"reps"`
	TS     string  `yaml:"ts" json:"ts"`
}

// volumeTSLayout is RFC 3339 with fixed-width fractional seconds in UTC, so
// lexicographic order on TS matches chronological order.
const volumeTSLayout = "2006-01-02T15:04:05.000000000Z"

// NewVolume records a set performed now.
func NewVolume(weight float64, reps int) Volume {
	return Volume{
		Weight: weight,
		Reps:   reps,
		TS:     FormatTimestamp(time.Now()),
	}
}

// FormatTimestamp renders t as a sortable volume timestamp.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(volumeTSLayout)
}

// Validate checks the volume against the data-model invariants.
func (v Volume) Validate() error {
	if v.Weight < 0 {
		return &ValidationError{Field: "weight", Constraint: fmt.Sprintf("must be non-negative, got %v", v.Weight)}
	}
	if v.Reps < 0 {
		return &ValidationError{Field: "reps", Constraint: fmt.Sprintf("must be non-negative, got %d", v.Reps)}
	}
	return nil
}

// Exercise is a named movement with its accumulated history of volumes and an
// optional district classification.
type Exercise struct {
	Name     string   `yaml:"name" json:"name"`
	District string   `yaml:"district,omitempty" json:"district,omitempty"`
	Volumes  []Volume `yaml:"volumes" json:"volumes"`
}

// Validate checks the exercise and its volumes.
func (e Exercise) Validate() error {
	if e.Name == "" {
		return &ValidationError{Field: "exercise.name", Constraint: "must not be empty"}
	}
	for i, v := range e.Volumes {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("exercise %q volume %d: %w", e.Name, i, err)
		}
	}
	return nil
}

// Person aggregates the exercises tracked under one identity. Name is the
// storage identity: saves for the same normalized name merge instead of
// overwriting each other.
type Person struct {
	Name      string     `yaml:"name" json:"name"`
	Exercises []Exercise `yaml:"exercises" json:"exercises"`
}

// Validate checks the person record against the data-model invariants.
func (p Person) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Constraint: "must not be empty"}
	}
	for _, e := range p.Exercises {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FindExercise returns a pointer to the exercise whose name matches under the
// supplied key function, or nil when absent.
func (p *Person) FindExercise(name string, key func(string) string) *Exercise {
	want := key(name)
	for i := range p.Exercises {
		if key(p.Exercises[i].Name) == want {
			return &p.Exercises[i]
		}
	}
	return nil
}
