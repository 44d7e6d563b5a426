package interp

import (
	"fmt"
	"strconv"

	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/value"
)

// coerceDigits turns digit-only text into an integer. It is the only implicit
// conversion between types.
func coerceDigits(v value.Value) value.Value {
	s, ok := v.(value.StrValue)
	if !ok || !ast.IsDigits(string(s)) {
		return v
	}
	n, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return v
	}
	return value.IntValue(n)
}

func binaryOp(op string, l, r value.Value) (value.Value, error) {
	l, r = coerceDigits(l), coerceDigits(r)
	switch op {
	case "+", "-", "*", "/":
		return arith(op, l, r)
	case "==":
		return value.BoolValue(value.Equal(l, r)), nil
	case "!=":
		return value.BoolValue(!value.Equal(l, r)), nil
	case "<", ">", "<=", ">=":
		c, err := compare(l, r)
		if err != nil {
			return nil, err
		}
		switch op {
		case "<":
			return value.BoolValue(c < 0), nil
		case ">":
			return value.BoolValue(c > 0), nil
		case "<=":
			return value.BoolValue(c <= 0), nil
		default:
			return value.BoolValue(c >= 0), nil
		}
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}

// arith applies + - * /. Two integers stay integral and divide with floor
// semantics; any decimal operand makes the result decimal. Two texts
// concatenate under +.
func arith(op string, l, r value.Value) (value.Value, error) {
	if ls, ok := l.(value.StrValue); ok && op == "+" {
		if rs, ok := r.(value.StrValue); ok {
			return ls + rs, nil
		}
	}
	li, lInt := l.(value.IntValue)
	ri, rInt := r.(value.IntValue)
	if lInt && rInt {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "/":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return floorDiv(li, ri), nil
		}
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, fmt.Errorf("unsupported operand types for %s: %s and %s", op, value.TypeName(l), value.TypeName(r))
	}
	switch op {
	case "+":
		return value.FloatValue(lf + rf), nil
	case "-":
		return value.FloatValue(lf - rf), nil
	case "*":
		return value.FloatValue(lf * rf), nil
	case "/":
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return value.FloatValue(lf / rf), nil
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}

func floorDiv(a, b value.IntValue) value.IntValue {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// compare orders two numbers or two texts.
func compare(l, r value.Value) (int, error) {
	if ls, ok := l.(value.StrValue); ok {
		rs, ok := r.(value.StrValue)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s and %s", value.TypeName(l), value.TypeName(r))
		}
		switch {
		case ls < rs:
			return -1, nil
		case ls > rs:
			return 1, nil
		}
		return 0, nil
	}
	li, lInt := l.(value.IntValue)
	ri, rInt := r.(value.IntValue)
	if lInt && rInt {
		switch {
		case li < ri:
			return -1, nil
		case li > ri:
			return 1, nil
		}
		return 0, nil
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return 0, fmt.Errorf("cannot compare %s and %s", value.TypeName(l), value.TypeName(r))
	}
	switch {
	case lf < rf:
		return -1, nil
	case lf > rf:
		return 1, nil
	}
	return 0, nil
}

func toFloat(v value.Value) (float64, bool) {
	switch n := v.(type) {
	case value.IntValue:
		return float64(n), true
	case value.FloatValue:
		return float64(n), true
	}
	return 0, false
}

func isZero(v value.Value) bool {
	f, _ := toFloat(v)
	return f == 0
}

func isNegative(v value.Value) bool {
	f, _ := toFloat(v)
	return f < 0
}
