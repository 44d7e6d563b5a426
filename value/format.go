package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format renders a value the way escreva prints it.
func Format(v Value) string {
	switch val := v.(type) {
	case IntValue:
		return strconv.FormatInt(int64(val), 10)
	case FloatValue:
		return formatFloat(float64(val))
	case StrValue:
		return string(val)
	case BoolValue:
		if val {
			return "true"
		}
		return "false"
	case NullValue:
		return "null"
	case ListValue, *TableValue, ModuleValue:
		return Repr(v)
	case nil:
		return "null"
	}
	return fmt.Sprintf("<%T>", v)
}

// Repr renders a value as it appears nested inside a list or table: texts
// are quoted.
func Repr(v Value) string {
	switch val := v.(type) {
	case StrValue:
		return "'" + string(val) + "'"
	case ListValue:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = Repr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *TableValue:
		fields := make([]string, len(val.Fields))
		for i, f := range val.Fields {
			fields[i] = "'" + f + "'"
		}
		rows := make([]string, len(val.Rows))
		for i, r := range val.Rows {
			rows[i] = Repr(ListValue(r))
		}
		return fmt.Sprintf("{'campos': [%s], 'dados': [%s]}", strings.Join(fields, ", "), strings.Join(rows, ", "))
	case ModuleValue:
		return "<modulo " + val.Capability.Name() + ">"
	}
	return Format(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
