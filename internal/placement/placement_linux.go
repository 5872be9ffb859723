//go:build linux

package placement

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	nodeRoot = "/sys/devices/system/node"
	// maxCPUs совпадает с CPU_SETSIZE.
	maxCPUs = 1024
)

// Core привязывает воркер к одному из доступных процессу ядер,
// перебирая их по кругу по workerID.
type Core struct {
	cpus []int
}

// NewCore запоминает ядра из маски текущего потока.
// Если маску прочитать нельзя, берутся ядра [0, NumCPU).
func NewCore() *Core {
	return &Core{cpus: allowedCPUs()}
}

// Bind меняет маску вызывающего потока. Поток должен быть уже закреплён
// за горутиной через runtime.LockOSThread, как это делают воркеры executor.
func (c *Core) Bind(workerID int) error {
	cpu := c.cpus[workerID%len(c.cpus)]

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("bind worker %d to cpu %d: %w", workerID, cpu, err)
	}
	return nil
}

func allowedCPUs() []int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		cpus := make([]int, 0, set.Count())
		for cpu := 0; cpu < maxCPUs && len(cpus) < set.Count(); cpu++ {
			if set.IsSet(cpu) {
				cpus = append(cpus, cpu)
			}
		}
		if len(cpus) > 0 {
			return cpus
		}
	}

	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus
}

// NUMA привязывает воркер ко всем ядрам узла workerID % nodes.
type NUMA struct {
	nodes [][]int
}

// NewNUMA читает топологию узлов из sysfs.
func NewNUMA() (*NUMA, error) {
	return newNUMAFromRoot(nodeRoot)
}

func newNUMAFromRoot(root string) (*NUMA, error) {
	dirs, err := filepath.Glob(filepath.Join(root, "node[0-9]*"))
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("%w: no numa nodes under %s", ErrUnsupported, root)
	}

	sort.Slice(dirs, func(i, j int) bool {
		return nodeID(dirs[i]) < nodeID(dirs[j])
	})

	n := &NUMA{}
	for _, dir := range dirs {
		b, err := os.ReadFile(filepath.Join(dir, "cpulist"))
		if err != nil {
			return nil, err
		}
		cpus, err := parseCPUList(string(b))
		if err != nil {
			return nil, err
		}
		if len(cpus) > 0 {
			n.nodes = append(n.nodes, cpus)
		}
	}
	if len(n.nodes) == 0 {
		return nil, fmt.Errorf("%w: numa nodes have no cpus", ErrUnsupported)
	}

	return n, nil
}

func (n *NUMA) Nodes() int {
	return len(n.nodes)
}

// Bind, как и Core.Bind, ожидает уже закреплённый поток.
func (n *NUMA) Bind(workerID int) error {
	node := workerID % len(n.nodes)

	var set unix.CPUSet
	set.Zero()
	for _, cpu := range n.nodes[node] {
		set.Set(cpu)
	}

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("bind worker %d to numa node %d: %w", workerID, node, err)
	}
	return nil
}

func nodeID(dir string) int {
	id, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(dir), "node"))
	if err != nil {
		return -1
	}
	return id
}
