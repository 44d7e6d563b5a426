package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/shamaton/msgpack/v2"
	"gopkg.in/yaml.v3"
)

// Format names a tree serialization.
type Format string

const (
	JSON    Format = "json"
	Msgpack Format = "msgpack"
	CBOR    Format = "cbor"
	YAML    Format = "yaml"
)

// Ext is the file extension used for cache files of this format.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat maps a user supplied name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case JSON, "":
		return JSON, nil
	case Msgpack, "mp":
		return Msgpack, nil
	case CBOR:
		return CBOR, nil
	case YAML, "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown tree format %q", name)
}

// Encode serializes the program tree.
func Encode(p *Program, f Format) ([]byte, error) {
	doc := ToDoc(p)
	switch f {
	case JSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "    ")
		enc.SetEscapeHTML(false)
		out := jsonFloats(doc).(map[string]any)
		orderModulesJSON(out, p)
		if err := enc.Encode(out); err != nil {
			return nil, fmt.Errorf("encoding json tree: %w", err)
		}
		return buf.Bytes(), nil
	case Msgpack:
		data, err := msgpack.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding msgpack tree: %w", err)
		}
		return data, nil
	case CBOR:
		encMode, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return nil, fmt.Errorf("creating cbor encoder: %w", err)
		}
		data, err := encMode.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding cbor tree: %w", err)
		}
		return data, nil
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding yaml tree: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml tree: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown tree format %q", f)
}

// Decode rebuilds a program tree. YAML is a dump format and cannot be
// decoded.
func Decode(data []byte, f Format) (*Program, error) {
	var doc any
	var order []string
	switch f {
	case JSON:
		if err := ValidateDocument(data); err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding json tree: %w", err)
		}
		var err error
		if order, err = jsonModuleOrder(data); err != nil {
			return nil, fmt.Errorf("decoding json tree: %w", err)
		}
	case Msgpack:
		if err := msgpack.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding msgpack tree: %w", err)
		}
	case CBOR:
		decMode, err := cbor.DecOptions{
			DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		}.DecMode()
		if err != nil {
			return nil, fmt.Errorf("creating cbor decoder: %w", err)
		}
		if err := decMode.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding cbor tree: %w", err)
		}
	default:
		return nil, fmt.Errorf("tree format %q cannot be decoded", f)
	}
	return fromDoc(doc, order)
}

// orderedObject is a JSON object written with its keys in a fixed order.
type orderedObject struct {
	keys []string
	vals map[string]any
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(o.vals[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// orderModulesJSON writes the modulos object in declaration order.
func orderModulesJSON(doc map[string]any, p *Program) {
	prog, _ := doc["programa"].(map[string]any)
	impl, _ := prog["implementacao"].(map[string]any)
	mods, ok := impl["modulos"].(map[string]any)
	if !ok {
		return
	}
	obj := orderedObject{vals: mods}
	for _, m := range p.Modules {
		obj.keys = append(obj.keys, m.Name)
	}
	impl["modulos"] = obj
}

// jsonModuleOrder returns the keys of programa.implementacao.modulos in the
// order they appear in data. Trees written by older tools have no
// ordem_modulos list and rely on it.
func jsonModuleOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var order []string
	var walk func(path []string) error
	walk = func(path []string) error {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		delim, ok := tok.(json.Delim)
		if !ok {
			return nil
		}
		sub := path[:len(path):len(path)]
		switch delim {
		case '{':
			inModules := len(path) == 3 && path[0] == "programa" && path[1] == "implementacao" && path[2] == "modulos"
			for dec.More() {
				tok, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := tok.(string)
				if !ok {
					return fmt.Errorf("object key %v is not a string", tok)
				}
				if inModules {
					order = append(order, key)
				}
				if err := walk(append(sub, key)); err != nil {
					return err
				}
			}
		case '[':
			for dec.More() {
				if err := walk(append(sub, "[]")); err != nil {
					return err
				}
			}
		}
		_, err = dec.Token()
		return err
	}
	if err := walk(nil); err != nil {
		return nil, err
	}
	return order, nil
}

// jsonFloats replaces floats with numbers that always carry a decimal point,
// so 7.0 does not read back as the integer 7.
func jsonFloats(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = jsonFloats(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = jsonFloats(val)
		}
		return out
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil
		}
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return json.Number(s)
	}
	return v
}
