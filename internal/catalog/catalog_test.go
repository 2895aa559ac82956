package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
district_to_exercises:
  legs: [squat]
  chest: [panca piana, croci]
exercises_to_district:
  squat: legs
  panca piana: chest
  croci: chest
`

func TestParseLookups(t *testing.T) {
	c, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	district, err := c.DistrictOf("Squat ")
	require.NoError(t, err)
	require.Equal(t, "legs", district)

	exercises, err := c.ExercisesOf("CHEST")
	require.NoError(t, err)
	require.Equal(t, []string{"panca piana", "croci"}, exercises)

	_, err = c.ExercisesOf("arms")
	require.ErrorIs(t, err, ErrDistrictNotFound)

	_, err = c.DistrictOf("deadlift")
	require.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestParseDerivesInverseMap(t *testing.T) {
	c, err := Parse([]byte("district_to_exercises:\n  legs: [squat, affondi]\n"))
	require.NoError(t, err)

	district, err := c.DistrictOf("affondi")
	require.NoError(t, err)
	require.Equal(t, "legs", district)
}

func TestParseRejectsMalformedConfig(t *testing.T) {
	_, err := Parse([]byte("district_to_exercises: [not, a, map]"))
	require.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.yaml")
	require.Error(t, err)
}

func TestAddExerciseKeepsMapsInverse(t *testing.T) {
	c, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	require.NoError(t, c.AddExercise("Legs", "Stacco da Terra"))

	district, err := c.DistrictOf("stacco DA terra")
	require.NoError(t, err)
	require.Equal(t, "legs", district)

	exercises, err := c.ExercisesOf("legs")
	require.NoError(t, err)
	require.Equal(t, []string{"squat", "stacco da terra"}, exercises)

	requireInverse(t, c)
}

func TestAddExerciseReassignsDistrict(t *testing.T) {
	c, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	require.NoError(t, c.AddExercise("legs", "croci"))

	district, err := c.DistrictOf("croci")
	require.NoError(t, err)
	require.Equal(t, "legs", district)

	chest, err := c.ExercisesOf("chest")
	require.NoError(t, err)
	require.NotContains(t, chest, "croci")

	requireInverse(t, c)
}

func TestAddExerciseToleratesDuplicates(t *testing.T) {
	c, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	require.NoError(t, c.AddExercise("legs", "squat"))

	exercises, err := c.ExercisesOf("legs")
	require.NoError(t, err)
	require.Equal(t, []string{"squat", "squat"}, exercises)
}

func TestRemoveExercise(t *testing.T) {
	c, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	require.NoError(t, c.RemoveExercise("chest", "Panca Piana"))

	exercises, err := c.ExercisesOf("chest")
	require.NoError(t, err)
	require.Equal(t, []string{"croci"}, exercises)

	_, err = c.DistrictOf("panca piana")
	require.ErrorIs(t, err, ErrExerciseNotFound)

	require.ErrorIs(t, c.RemoveExercise("arms", "curl"), ErrDistrictNotFound)
	requireInverse(t, c)
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	c, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = c.DistrictOf("squat")
				_, _ = c.ExercisesOf("legs")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.AddExercise("legs", "affondi")
				_ = c.RemoveExercise("legs", "affondi")
			}
		}()
	}
	wg.Wait()

	requireInverse(t, c)
}

// requireInverse asserts the catalog's two maps are consistent with each other.
func requireInverse(t *testing.T, c *Catalog) {
	t.Helper()
	c.mu.RLock()
	defer c.mu.RUnlock()
	for district, exercises := range c.districtToExercises {
		for _, exercise := range exercises {
			require.Equal(t, district, c.exerciseToDistrict[exercise],
				"exercise %q listed under %q but mapped elsewhere", exercise, district)
		}
	}
	for exercise, district := range c.exerciseToDistrict {
		require.Contains(t, c.districtToExercises[district], exercise)
	}
}
