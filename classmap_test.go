package dsconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultClassMap(t *testing.T) {
	t.Parallel()

	m := DefaultClassMap()

	mapped := map[int]int{1: 0, 2: 0, 4: 2, 5: 3, 6: 3, 9: 3}
	for sourceID, want := range mapped {
		got, ok := m.Target(sourceID)
		assert.True(t, ok, "source class %d should be mapped", sourceID)
		assert.Equal(t, want, got, "source class %d", sourceID)
	}

	for _, sourceID := range []int{0, 3, 7, 8, 10} {
		_, ok := m.Target(sourceID)
		assert.False(t, ok, "source class %d should be dropped", sourceID)
	}

	assert.Equal(t, []int{0, 2, 3}, m.TargetIDs())
	assert.Equal(t, 4, m.Count())
	assert.Equal(t, "person", m.Name(0))
	assert.Equal(t, "car", m.Name(2))
	assert.Equal(t, "truck", m.Name(3))
	assert.Empty(t, m.Name(1))
}

func TestNewClassMapCopiesInputs(t *testing.T) {
	t.Parallel()

	targets := map[int]int{7: 5}
	names := map[int]string{5: "tricycle"}
	m := NewClassMap(targets, names, 6)

	targets[7] = 99
	names[5] = "mutated"

	got, ok := m.Target(7)
	assert.True(t, ok)
	assert.Equal(t, 5, got)
	assert.Equal(t, "tricycle", m.Name(5))
}

func TestFullClassMap(t *testing.T) {
	t.Parallel()

	m := FullClassMap()
	assert.Equal(t, 13, m.Count())
	assert.Len(t, m.TargetIDs(), 13)
	assert.Equal(t, "person", m.Name(0))
	assert.Equal(t, "turkey", m.Name(12))

	// The full taxonomy has no source mappings.
	_, ok := m.Target(1)
	assert.False(t, ok)
}
