package interp

import (
	"regexp"
	"strings"

	"github.com/zin-lang/zin/value"
)

// placeholder matches {name}, {name[index]} and {name[index].field}.
var placeholder = regexp.MustCompile(`\{([\p{L}_][\p{L}\p{N}_]*)(?:\[\s*([^\[\]{}]+?)\s*\](?:\.([\p{L}_][\p{L}\p{N}_]*))?)?\}`)

// interpolate resolves placeholders in text against the current context.
// Resolution restarts on the produced text until a pass changes nothing or
// the pass limit is hit. Placeholders naming unbound variables are left as
// written; a bad index or field is an error.
func (in *Interpreter) interpolate(text string) (string, error) {
	for pass := 0; pass < maxInterpolationPasses; pass++ {
		if !strings.Contains(text, "{") {
			return text, nil
		}
		changed := false
		var ferr error
		out := placeholder.ReplaceAllStringFunc(text, func(m string) string {
			if ferr != nil {
				return m
			}
			sub := placeholder.FindStringSubmatch(m)
			v, ok, err := in.resolvePlaceholder(sub[1], sub[2], sub[3])
			if err != nil {
				ferr = err
				return m
			}
			if !ok {
				return m
			}
			s := value.Format(v)
			if s != m {
				changed = true
			}
			return s
		})
		if ferr != nil {
			return "", ferr
		}
		text = out
		if !changed {
			break
		}
	}
	return text, nil
}

func (in *Interpreter) resolvePlaceholder(name, index, field string) (value.Value, bool, error) {
	if index == "" {
		v, ok := in.frame.Lookup(name)
		return v, ok, nil
	}
	if !in.frame.Has(name) {
		return nil, false, nil
	}
	var idx value.Value = value.StrValue(index)
	if v, ok := in.frame.Lookup(index); ok {
		idx = v
	}
	var (
		v   value.Value
		err error
	)
	if field == "" {
		v, err = in.element(name, idx)
	} else {
		v, err = in.field(name, idx, field)
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
