package rules

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// intSettings reads positive integer settings into the targets. Values
// decoded from JSON arrive as float64 and from TOML as int64, both are
// accepted when integral. Unknown keys are an error.
func intSettings(settings map[string]any, targets map[string]*int) error {
	var unknown []string
	for key, raw := range settings {
		dst, ok := targets[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		n, err := toInt(raw)
		if err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
		if n <= 0 {
			return fmt.Errorf("setting %s: must be positive, got %d", key, n)
		}
		*dst = n
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown settings: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}
