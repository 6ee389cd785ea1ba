package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/employee"
	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/schedule"
)

func emp(id, last, first string) employee.Employee {
	return employee.Employee{ID: id, LastName: last, FirstName: first, IsActive: true}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "smith john", NormalizeName("  SMITH,  John "))
	assert.Equal(t, "dela cruz", NormalizeName("Dela  Cruz"))
}

func TestNameIndex_Match_PatternVariants(t *testing.T) {
	t.Parallel()
	idx := BuildNameIndex([]employee.Employee{emp("e1", "Robinios", "Jessa")})

	for _, raw := range []string{"robinios", "robinios jessa", "jessa robinios", "robinios je", "robinios j", "ROBINIOS, Jessa"} {
		got, ok, note := idx.Match(raw, nil, nil)
		require.True(t, ok, raw)
		assert.Equal(t, "e1", got.ID, raw)
		assert.Empty(t, note, raw)
	}
}

func TestNameIndex_Match_CompoundFirstName(t *testing.T) {
	t.Parallel()
	idx := BuildNameIndex([]employee.Employee{emp("e1", "Reyes", "Juan Carlo")})

	for _, raw := range []string{"reyes juan", "reyes carlo", "reyes ju", "reyes juan carlo"} {
		_, ok, _ := idx.Match(raw, nil, nil)
		assert.True(t, ok, raw)
	}
}

func TestNameIndex_Match_MiddleNameVariants(t *testing.T) {
	t.Parallel()
	middle := "Santos"
	e := emp("e1", "Lopez", "Maria")
	e.MiddleName = &middle
	idx := BuildNameIndex([]employee.Employee{e})

	for _, raw := range []string{"lopez maria santos", "lopez maria s"} {
		_, ok, _ := idx.Match(raw, nil, nil)
		assert.True(t, ok, raw)
	}
}

func TestNameIndex_Match_SingleInitial_AlphabeticalRule(t *testing.T) {
	t.Parallel()
	idx := BuildNameIndex([]employee.Employee{
		emp("e-john", "Smith", "John"),
		emp("e-jane", "Smith", "Jane"),
	})

	// Both Smiths share the "smith j" pattern; "ja" sorts before "jo" so
	// the bare initial belongs to Jane.
	got, ok, note := idx.Match("smith j", nil, nil)
	require.True(t, ok)
	assert.Equal(t, "e-jane", got.ID)
	assert.Empty(t, note)
}

func TestNameIndex_Match_ShiftBucketDisambiguation(t *testing.T) {
	t.Parallel()
	idx := BuildNameIndex([]employee.Employee{
		emp("e-anna", "Garcia", "Anna"),
		emp("e-ben", "Garcia", "Ben"),
	})
	schedules := map[string]schedule.Schedule{
		"e-anna": dayShift(),   // 08:00 start, morning bucket
		"e-ben":  nightShift(), // 22:00 start, evening bucket
	}

	earliest := at(2, 7, 45)
	got, ok, note := idx.Match("garcia", &earliest, schedules)
	require.True(t, ok)
	assert.Equal(t, "e-anna", got.ID)
	assert.Empty(t, note)

	evening := at(2, 21, 50)
	got, ok, _ = idx.Match("garcia", &evening, schedules)
	require.True(t, ok)
	assert.Equal(t, "e-ben", got.ID)
}

func TestNameIndex_Match_CollisionFallback_FlagsForReview(t *testing.T) {
	t.Parallel()
	idx := BuildNameIndex([]employee.Employee{
		emp("e-ben", "Garcia", "Ben"),
		emp("e-anna", "Garcia", "Anna"),
	})

	got, ok, note := idx.Match("garcia", nil, nil)
	require.True(t, ok)
	// Index order is (last, first): Anna precedes Ben regardless of the
	// order the directory listed them in.
	assert.Equal(t, "e-anna", got.ID)
	assert.NotEmpty(t, note)
}

func TestNameIndex_Match_Unmatched(t *testing.T) {
	t.Parallel()
	idx := BuildNameIndex([]employee.Employee{emp("e1", "Rosel", "Maria")})

	_, ok, _ := idx.Match("completely unknown", nil, nil)
	assert.False(t, ok)
}
