package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapLookup builds a parentLookup over an in-memory adjacency list.
// A zero parent value means root; absent keys do not exist.
func mapLookup(parents map[uint64]uint64) parentLookup {
	return func(id uint64) (*uint64, bool, error) {
		p, ok := parents[id]
		if !ok {
			return nil, false, nil
		}
		if p == 0 {
			return nil, true, nil
		}
		return &p, true, nil
	}
}

func TestWouldCycle(t *testing.T) {
	// 1 is a root; 2 is inside 1; 3 is inside 2; 4 is another root.
	forest := map[uint64]uint64{1: 0, 2: 1, 3: 2, 4: 0}

	tests := []struct {
		name      string
		container uint64
		parent    uint64
		want      bool
	}{
		{"self parent", 1, 1, true},
		{"box into its direct child", 1, 2, true},
		{"box into a deeper descendant", 1, 3, true},
		{"child up to grandparent", 3, 1, false},
		{"into an unrelated root", 2, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wouldCycle(tt.container, tt.parent, mapLookup(forest))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWouldCycleTwoBoxSwap(t *testing.T) {
	// C2 already sits inside C1. Asking to put C1 inside C2 must be
	// rejected, or the pair would orbit each other forever.
	forest := map[uint64]uint64{1: 0, 2: 1}

	cyc, err := wouldCycle(1, 2, mapLookup(forest))
	require.NoError(t, err)
	assert.True(t, cyc)

	// The reverse direction is the existing state and stays legal.
	cyc, err = wouldCycle(2, 1, mapLookup(forest))
	require.NoError(t, err)
	assert.False(t, cyc)
}

func TestWouldCycleCorruptTreeTerminates(t *testing.T) {
	// A stored 4<->5 loop must not hang the walk; it reports a cycle.
	forest := map[uint64]uint64{4: 5, 5: 4}
	cyc, err := wouldCycle(9, 4, mapLookup(forest))
	require.NoError(t, err)
	assert.True(t, cyc)
}

func TestWouldCyclePropagatesLookupError(t *testing.T) {
	boom := errors.New("connection lost")
	_, err := wouldCycle(1, 2, func(uint64) (*uint64, bool, error) {
		return nil, false, boom
	})
	assert.ErrorIs(t, err, boom)
}
