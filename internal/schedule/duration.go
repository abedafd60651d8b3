package schedule

import (
	"math"
	"strconv"
	"strings"
)

// ParseDuration reads an H:M:S or H:M:S.fraction string as whole seconds.
// The fraction is truncated, missing minute and second segments count as 0,
// and hours may exceed 24. Blank, malformed, negative, or out-of-range input
// yields 0.
func ParseDuration(raw string) int64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0
	}
	parts := strings.Split(value, ":")
	last := len(parts) - 1
	if dot := strings.IndexByte(parts[last], '.'); dot >= 0 {
		parts[last] = parts[last][:dot]
	}
	units := []int64{3600, 60, 1}
	var total int64
	for i, unit := range units {
		if i >= len(parts) {
			break
		}
		n, err := strconv.ParseInt(strings.TrimSpace(parts[i]), 10, 64)
		if err != nil || n < 0 || n > (math.MaxInt64-total)/unit {
			return 0
		}
		total += n * unit
	}
	return total
}
