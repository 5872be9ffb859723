package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_Clamping(t *testing.T) {
	tests := []struct {
		name        string
		tuples      int
		partitions  int
		maxCapacity int
		want        int
	}{
		{"formula below max", 1 << 20, 16, 1 << 30, (1 << 20) / 16 * 2},
		{"formula above max", 1 << 20, 16, 1000, 1000},
		{"exact max", 64, 4, 32, 32},
		{"remainder floored", 17, 4, 100, 8},
		{"one record per partition", 4, 4, 100, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Plan(tt.tuples, tt.partitions, DefaultMultiplier, tt.maxCapacity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.PerPartitionCapacity)
			assert.Equal(t, tt.partitions, plan.PartitionCount)
		})
	}
}

func TestPlan_DefaultMultiplier(t *testing.T) {
	plan, err := Plan(100, 10, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 20, plan.PerPartitionCapacity)

	plan, err = Plan(100, 10, 3, 1000)
	require.NoError(t, err)
	assert.Equal(t, 30, plan.PerPartitionCapacity)
}

func TestPlan_SizingErrors(t *testing.T) {
	_, err := Plan(3, 4, DefaultMultiplier, 100)
	assert.ErrorIs(t, err, ErrSizing)

	_, err = Plan(100, 0, DefaultMultiplier, 100)
	assert.ErrorIs(t, err, ErrSizing)

	_, err = Plan(100, 4, DefaultMultiplier, 0)
	assert.ErrorIs(t, err, ErrSizing)
}

func TestPartitionCount(t *testing.T) {
	for hb := 0; hb <= 18; hb++ {
		count, err := PartitionCount(hb)
		require.NoError(t, err)
		assert.Equal(t, 1<<hb, count)

		back, err := HashBits(count)
		require.NoError(t, err)
		assert.Equal(t, hb, back)
	}

	_, err := PartitionCount(-1)
	assert.ErrorIs(t, err, ErrSizing)
	_, err = PartitionCount(MaxHashBits + 1)
	assert.ErrorIs(t, err, ErrSizing)
	_, err = HashBits(12)
	assert.ErrorIs(t, err, ErrSizing)
}

func TestSegments_DisjointAndComplete(t *testing.T) {
	for _, n := range []int{0, 1, 7, 16, 100, 1001} {
		for _, w := range []int{1, 2, 3, 4, 8, 16} {
			segments, err := Segments(n, w)
			require.NoError(t, err)
			require.Len(t, segments, w)

			covered := make([]int, n)
			next := 0
			for _, s := range segments {
				assert.Equal(t, next, s.Start, "n=%d w=%d", n, w)
				assert.LessOrEqual(t, s.Start, s.End)
				for i := s.Start; i < s.End; i++ {
					covered[i]++
				}
				next = s.End
			}
			assert.Equal(t, n, next)
			for i, c := range covered {
				assert.Equal(t, 1, c, "index %d covered %d times", i, c)
			}
		}
	}
}

func TestSegments_LastAbsorbsRemainder(t *testing.T) {
	segments, err := Segments(10, 3)
	require.NoError(t, err)

	assert.Equal(t, []Segment{{0, 3}, {3, 6}, {6, 10}}, segments)
	assert.Equal(t, 4, segments[2].Len())
}

func TestSegments_InvalidWorkers(t *testing.T) {
	_, err := Segments(10, 0)
	assert.ErrorIs(t, err, ErrSizing)
}
