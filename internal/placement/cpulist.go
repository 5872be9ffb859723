package placement

import (
	"fmt"
	"strconv"
	"strings"
)

// parseCPUList разбирает формат sysfs вида "0-3,8,10-11".
func parseCPUList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var cpus []int
	for _, part := range strings.Split(s, ",") {
		lo, hi, isRange := strings.Cut(part, "-")

		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid cpu list %q: %w", s, err)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("invalid cpu list %q: %w", s, err)
			}
		}
		if end < start {
			return nil, fmt.Errorf("invalid cpu range %q", part)
		}

		for cpu := start; cpu <= end; cpu++ {
			cpus = append(cpus, cpu)
		}
	}

	return cpus, nil
}
