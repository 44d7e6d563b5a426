package lib

import (
	"fmt"
	"strconv"

	"github.com/zin-lang/zin/value"
)

func arity(fn string, args []value.Value, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return fmt.Errorf("%s() takes %d arguments, got %d", fn, lo, len(args))
		}
		return fmt.Errorf("%s() takes %d to %d arguments, got %d", fn, lo, hi, len(args))
	}
	return nil
}

// number reads a numeric argument. Texts holding a number are accepted,
// the same coercion the evaluator applies to operands.
func number(fn string, v value.Value) (float64, error) {
	switch n := v.(type) {
	case value.IntValue:
		return float64(n), nil
	case value.FloatValue:
		return float64(n), nil
	case value.StrValue:
		if f, err := strconv.ParseFloat(string(n), 64); err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%s() expects a number, got %s", fn, value.TypeName(v))
}

func text(fn string, v value.Value) (string, error) {
	switch s := v.(type) {
	case value.StrValue:
		return string(s), nil
	case value.NullValue:
		return "", fmt.Errorf("%s() expects text, got null", fn)
	}
	return value.Format(v), nil
}
