package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPUList(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"0", []int{0}},
		{"0-3", []int{0, 1, 2, 3}},
		{"0-1,4,6-7\n", []int{0, 1, 4, 6, 7}},
		{"", nil},
	}

	for _, tt := range tests {
		got, err := parseCPUList(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"a", "3-1", "1-x"} {
		_, err := parseCPUList(bad)
		assert.Error(t, err, bad)
	}
}

func TestNew(t *testing.T) {
	p, err := New(NoneKind)
	require.NoError(t, err)
	assert.NoError(t, p.Bind(5))

	p, err = New("")
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)

	_, err = New("socket")
	assert.ErrorIs(t, err, ErrInvalidKind)

	core, err := New(CoreKind)
	require.NoError(t, err)
	assert.NotNil(t, core)
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"none", "core", "numa"} {
		k, err := ParseKind(s)
		assert.NoError(t, err)
		assert.Equal(t, Kind(s), k)
	}

	k, err := ParseKind("")
	assert.NoError(t, err)
	assert.Equal(t, NoneKind, k)

	_, err = ParseKind("socket")
	assert.ErrorIs(t, err, ErrInvalidKind)
}
