// Package catalog maintains the bidirectional district↔exercise table used to
// classify workout entries.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/normalize"
)

var (
	// ErrDistrictNotFound is returned when a district has no catalog entry.
	ErrDistrictNotFound = errors.New("district not found")
	// ErrExerciseNotFound is returned when an exercise has no catalog entry.
	ErrExerciseNotFound = errors.New("exercise not found")
)

// configFile mirrors the on-disk catalog configuration. The inverse map is
// optional; when absent it is rebuilt from the forward map.
type configFile struct {
	DistrictToExercises map[string][]string `yaml:"district_to_exercises"`
	ExercisesToDistrict map[string]string   `yaml:"exercises_to_district"`
}

// Catalog holds two mappings kept as inverses of each other: district to its
// exercises in insertion order, and exercise to its single district. All names
// are stored normalized. Reads may run concurrently; mutations update both
// maps under one exclusive lock so no reader observes them out of sync.
type Catalog struct {
	mu                  sync.RWMutex
	districtToExercises map[string][]string
	exerciseToDistrict  map[string]string
}

// LoadFile constructs a Catalog from a YAML configuration file. A missing or
// malformed file is a construction error; the system cannot run without a
// catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse constructs a Catalog from raw YAML configuration data.
func Parse(data []byte) (*Catalog, error) {
	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse catalog config: %w", err)
	}

	c := &Catalog{
		districtToExercises: make(map[string][]string, len(cf.DistrictToExercises)),
		exerciseToDistrict:  make(map[string]string, len(cf.ExercisesToDistrict)),
	}
	for district, exercises := range cf.DistrictToExercises {
		d := normalize.String(district)
		for _, exercise := range exercises {
			c.districtToExercises[d] = append(c.districtToExercises[d], normalize.String(exercise))
		}
		if c.districtToExercises[d] == nil {
			c.districtToExercises[d] = []string{}
		}
	}
	for exercise, district := range cf.ExercisesToDistrict {
		c.exerciseToDistrict[normalize.String(exercise)] = normalize.String(district)
	}
	if len(c.exerciseToDistrict) == 0 {
		for district, exercises := range c.districtToExercises {
			for _, exercise := range exercises {
				c.exerciseToDistrict[exercise] = district
			}
		}
	}
	return c, nil
}

// ExercisesOf returns the district's exercises in insertion order.
func (c *Catalog) ExercisesOf(district string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	exercises, ok := c.districtToExercises[normalize.String(district)]
	if !ok {
		return nil, fmt.Errorf("district %q: %w", district, ErrDistrictNotFound)
	}
	out := make([]string, len(exercises))
	copy(out, exercises)
	return out, nil
}

// DistrictOf returns the district the exercise belongs to.
func (c *Catalog) DistrictOf(exercise string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	district, ok := c.exerciseToDistrict[normalize.String(exercise)]
	if !ok {
		return "", fmt.Errorf("exercise %q: %w", exercise, ErrExerciseNotFound)
	}
	return district, nil
}

// AddExercise appends the exercise to the district's list and points the
// exercise's district mapping at it, overwriting any prior assignment.
// Duplicates within one district accumulate; callers that care must check
// first. Both maps change under the same lock.
func (c *Catalog) AddExercise(district, exercise string) error {
	d := normalize.String(district)
	e := normalize.String(exercise)
	if d == "" {
		return fmt.Errorf("district name must not be empty")
	}
	if e == "" {
		return fmt.Errorf("exercise name must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.exerciseToDistrict[e]; ok && prev != d {
		c.districtToExercises[prev] = removeName(c.districtToExercises[prev], e)
	}
	c.districtToExercises[d] = append(c.districtToExercises[d], e)
	c.exerciseToDistrict[e] = d
	return nil
}

// RemoveExercise removes the exercise from the named district's list if
// present and drops the exercise's district mapping unconditionally.
func (c *Catalog) RemoveExercise(district, exercise string) error {
	d := normalize.String(district)
	e := normalize.String(exercise)

	c.mu.Lock()
	defer c.mu.Unlock()

	exercises, ok := c.districtToExercises[d]
	if !ok {
		return fmt.Errorf("district %q: %w", district, ErrDistrictNotFound)
	}
	c.districtToExercises[d] = removeName(exercises, e)
	delete(c.exerciseToDistrict, e)
	return nil
}

// Districts returns every known district name.
func (c *Catalog) Districts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.districtToExercises))
	for d := range c.districtToExercises {
		out = append(out, d)
	}
	return out
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
