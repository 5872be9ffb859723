//go:build linux

package placement

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestNUMA_FromRoot(t *testing.T) {
	root := t.TempDir()
	for node, cpus := range map[string]string{"node0": "0-1\n", "node1": "2-3\n", "node10": "4\n"} {
		dir := filepath.Join(root, node)
		require.NoError(t, os.Mkdir(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cpulist"), []byte(cpus), 0o644))
	}

	n, err := newNUMAFromRoot(root)
	require.NoError(t, err)

	assert.Equal(t, 3, n.Nodes())
	assert.Equal(t, [][]int{{0, 1}, {2, 3}, {4}}, n.nodes)
}

func TestNUMA_NoNodes(t *testing.T) {
	_, err := newNUMAFromRoot(t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestCore_BindInsideLockedThread(t *testing.T) {
	type outcome struct {
		err  error
		want int
		got  unix.CPUSet
	}
	results := make(chan outcome)

	// Горутина не отпускает поток: после выхода поток с изменённой маской завершается.
	go func() {
		defer close(results)
		runtime.LockOSThread()

		c := NewCore()
		for w := range 2 * len(c.cpus) {
			o := outcome{want: c.cpus[w%len(c.cpus)]}
			if o.err = c.Bind(w); o.err == nil {
				o.err = unix.SchedGetaffinity(0, &o.got)
			}
			results <- o
		}
	}()

	n := 0
	for o := range results {
		require.NoError(t, o.err)
		assert.Equal(t, 1, o.got.Count())
		assert.True(t, o.got.IsSet(o.want), "cpu %d", o.want)
		n++
	}
	assert.Positive(t, n)
}
