package ast

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "schema://zin/tree.json"

// treeSchema checks the outer shape of a JSON tree document. Statement and
// expression nodes are checked by FromDoc, which reports the failing path.
const treeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["programa"],
  "properties": {
    "programa": {
      "type": "object",
      "required": ["nome", "implementacao"],
      "properties": {
        "nome": {"type": "string"},
        "importes": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["importe"],
            "properties": {"importe": {"type": "string"}}
          }
        },
        "variaveis": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["nome", "tipo"],
            "properties": {
              "nome": {"type": "string"},
              "tipo": {"type": "string"},
              "valores": {"type": ["array", "object"]}
            }
          }
        },
        "implementacao": {
          "type": "object",
          "properties": {
            "principal": {"type": "array", "items": {"type": "object"}},
            "execucoes_apos_principal": {"type": "array", "items": {"type": "object"}},
            "ordem_modulos": {"type": "array", "items": {"type": "string"}},
            "modulos": {
              "type": "object",
              "additionalProperties": {
                "type": "array",
                "items": {
                  "type": "object",
                  "required": ["nome", "parametros", "corpo"],
                  "properties": {
                    "nome": {"type": "string"},
                    "parametros": {"type": "array", "items": {"type": "string"}},
                    "corpo": {"type": "array", "items": {"type": "object"}}
                  }
                }
              }
            }
          }
        },
        "execucao": {
          "type": "object",
          "properties": {
            "modulos": {"type": "array", "items": {"type": "string"}}
          }
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(treeSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ValidateDocument checks a JSON tree document against the tree schema.
func ValidateDocument(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling tree schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding json tree: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("tree document does not match schema: %w", err)
	}
	return nil
}
