package lib

import (
	"fmt"
	"math"

	"github.com/zin-lang/zin/value"
)

// MathModule returns zin_math. Angles are in degrees.
func MathModule() *Module {
	return &Module{
		ModuleName: "zin_math",
		Funcs: map[string]value.Func{
			"raiz_quadrada": raizQuadrada,
			"cosseno":       unaryFloat("cosseno", func(x float64) float64 { return math.Cos(x * math.Pi / 180) }),
			"seno":          unaryFloat("seno", func(x float64) float64 { return math.Sin(x * math.Pi / 180) }),
			"porcentagem":   porcentagem,
			"potencia":      potencia,
			"absoluto":      absoluto,
			"arredondar":    arredondar,
		},
		Consts: map[string]value.Value{
			"pi": value.FloatValue(math.Pi),
			"e":  value.FloatValue(math.E),
		},
	}
}

func unaryFloat(name string, f func(float64) float64) value.Func {
	return func(args []value.Value) (value.Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		x, err := number(name, args[0])
		if err != nil {
			return nil, err
		}
		return value.FloatValue(f(x)), nil
	}
}

func raizQuadrada(args []value.Value) (value.Value, error) {
	if err := arity("raiz_quadrada", args, 1, 1); err != nil {
		return nil, err
	}
	x, err := number("raiz_quadrada", args[0])
	if err != nil {
		return nil, err
	}
	if x < 0 {
		return nil, fmt.Errorf("raiz_quadrada() of negative number %s", value.Format(args[0]))
	}
	return value.FloatValue(math.Sqrt(x)), nil
}

func porcentagem(args []value.Value) (value.Value, error) {
	if err := arity("porcentagem", args, 2, 2); err != nil {
		return nil, err
	}
	parte, err := number("porcentagem", args[0])
	if err != nil {
		return nil, err
	}
	total, err := number("porcentagem", args[1])
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("porcentagem() of a zero total")
	}
	return value.FloatValue(parte / total * 100), nil
}

func potencia(args []value.Value) (value.Value, error) {
	if err := arity("potencia", args, 2, 2); err != nil {
		return nil, err
	}
	base, err := number("potencia", args[0])
	if err != nil {
		return nil, err
	}
	exp, err := number("potencia", args[1])
	if err != nil {
		return nil, err
	}
	return value.FloatValue(math.Pow(base, exp)), nil
}

func absoluto(args []value.Value) (value.Value, error) {
	if err := arity("absoluto", args, 1, 1); err != nil {
		return nil, err
	}
	if i, ok := args[0].(value.IntValue); ok {
		if i < 0 {
			return -i, nil
		}
		return i, nil
	}
	x, err := number("absoluto", args[0])
	if err != nil {
		return nil, err
	}
	return value.FloatValue(math.Abs(x)), nil
}

// arredondar rounds half to even. With one argument it yields an integer,
// with a digit count it yields a decimal.
func arredondar(args []value.Value) (value.Value, error) {
	if err := arity("arredondar", args, 1, 2); err != nil {
		return nil, err
	}
	x, err := number("arredondar", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		r := math.RoundToEven(x)
		// MaxInt64 converts to 2^63, the first float past the int64 range.
		if math.IsNaN(r) || r >= math.MaxInt64 || r < math.MinInt64 {
			return nil, fmt.Errorf("arredondar() result %g is out of integer range", r)
		}
		return value.IntValue(r), nil
	}
	d, err := number("arredondar", args[1])
	if err != nil {
		return nil, err
	}
	scale := math.Pow(10, math.Trunc(d))
	return value.FloatValue(math.RoundToEven(x*scale) / scale), nil
}
