//go:build !linux

package placement

type Core struct{}

func NewCore() *Core {
	return &Core{}
}

func (c *Core) Bind(int) error {
	return ErrUnsupported
}

type NUMA struct{}

func NewNUMA() (*NUMA, error) {
	return nil, ErrUnsupported
}

func (n *NUMA) Nodes() int {
	return 0
}

func (n *NUMA) Bind(int) error {
	return ErrUnsupported
}
