package hypergraph

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build creates a hypergraph from nets of vertex ids.
func build(t *testing.T, nets ...[]int) *Hypergraph {
	t.Helper()
	h := New(len(nets))
	for i, net := range nets {
		for _, v := range net {
			require.NoError(t, h.AddPin(i, v))
		}
	}
	return h
}

func TestAddPin(t *testing.T) {
	t.Run("CreatesVertices", func(t *testing.T) {
		h := build(t, []int{0, 1}, []int{1, 2})
		assert.Equal(t, 3, h.Len())
		assert.Equal(t, 3, h.Weight())
		assert.Equal(t, []int{0, 1}, h.Incident(1))
		assert.Equal(t, []int{1, 2}, h.Net(1))
		require.NoError(t, h.Validate())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		h := New(2)
		err := h.AddPin(2, 0)
		assert.True(t, errors.Is(err, ErrNetOutOfRange))
		assert.True(t, h.IsEmpty())

		err = h.AddPin(-1, 0)
		assert.ErrorIs(t, err, ErrNetOutOfRange)
	})

	t.Run("DuplicatePins", func(t *testing.T) {
		h := build(t, []int{0, 0, 1})
		assert.Equal(t, []int{0, 0}, h.Incident(0))
		assert.Equal(t, 2, h.Len())
		require.NoError(t, h.Validate())
	})

	t.Run("DefaultWeight", func(t *testing.T) {
		h := New(1, WithDefaultWeight(3))
		require.NoError(t, h.AddPin(0, 0))
		require.NoError(t, h.AddPin(0, 1))
		assert.Equal(t, 6, h.Weight())
	})
}

func TestNeighbors(t *testing.T) {
	h := build(t, []int{0, 1}, []int{0, 2}, []int{3})

	got := slices.Collect(h.Neighbors(0))
	assert.Equal(t, []int{0, 1, 0, 2}, got)

	// restartable
	assert.Equal(t, got, slices.Collect(h.Neighbors(0)))
	assert.Equal(t, []int{3}, slices.Collect(h.Neighbors(3)))
	assert.Empty(t, slices.Collect(h.Neighbors(42)))
}

func TestVerticesAscending(t *testing.T) {
	h := build(t, []int{5, 2, 9}, []int{0})
	var ids []int
	for v := range h.Vertices() {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []int{0, 2, 5, 9}, ids)
	assert.False(t, h.Dense())

	h.SetWeight(1, 4)
	w, ok := h.VertexWeight(1)
	assert.True(t, ok)
	assert.Equal(t, 4, w)
}

func TestSetNetWeights(t *testing.T) {
	h := New(2)
	assert.Error(t, h.SetNetWeights([]int{1}))
	require.NoError(t, h.SetNetWeights([]int{3, 4}))
	assert.Equal(t, 4, h.NetWeight(1))
	require.NoError(t, h.SetNetWeights(nil))
	assert.Equal(t, 1, h.NetWeight(1))
}

func TestValidateDetectsMismatch(t *testing.T) {
	h := build(t, []int{0, 1})
	h.nets[0] = append(h.nets[0], 7)
	assert.ErrorIs(t, h.Validate(), ErrInconsistentPins)
}
