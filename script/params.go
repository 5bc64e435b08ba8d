package script

import (
	"errors"
	"fmt"
	"math"
)

var ErrParam = errors.New("script: invalid param")

// Params holds the parameters of a leaf node as decoded from YAML.
type Params map[string]any

// Float returns the number stored under key, or def when absent.
// Integers are accepted.
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}

	switch v := v.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrParam, key, v)
	}
}

// Int returns the integer stored under key, or def when absent.
// Floats without a fractional part are accepted as long as they fit in an int.
func (p Params) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}

	switch v := v.(type) {
	case int:
		return v, nil
	case float64:
		// -math.MinInt is exact as a float64, math.MaxInt rounds past the range
		if v == math.Trunc(v) && v >= math.MinInt && v < -math.MinInt {
			return int(v), nil
		}
	}

	return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrParam, key, v)
}

// String returns the string stored under key, or def when absent.
func (p Params) String(key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrParam, key, v)
	}

	return s, nil
}
