package schema

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrSchemaViolation is matched by every *Violation via errors.Is.
var ErrSchemaViolation = errors.New("schema violation")

// Kind is the value type a front-matter field must have.
type Kind string

const (
	String     Kind = "string"
	Boolean    Kind = "boolean"
	Number     Kind = "number"
	StringList Kind = "array<string>"
)

// Field describes one recognized front-matter key.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// Required declares a mandatory field.
func Required(name string, kind Kind) Field { return Field{Name: name, Kind: kind, Required: true} }

// Optional declares a field that may be absent or null.
func Optional(name string, kind Kind) Field { return Field{Name: name, Kind: kind} }

// Schema is the declared front-matter shape for one content type.
type Schema struct {
	Name   string
	Fields []Field
}

// New builds a schema. Field names must be unique.
func New(name string, fields ...Field) Schema {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("schema %s: duplicate field %q", name, f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	return Schema{Name: name, Fields: slices.Clone(fields)}
}

// Field returns the descriptor for name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Violation identifies the offending field of a rejected document and the type it should have had.
type Violation struct {
	Schema   string
	Field    string
	Expected string
	Got      string
	Err      error
}

func (v *Violation) Error() string {
	msg := fmt.Sprintf("%s: field %q: expected %s, got %s", v.Schema, v.Field, v.Expected, v.Got)
	if v.Err != nil {
		msg += ": " + v.Err.Error()
	}
	return msg
}

// Is makes every Violation match ErrSchemaViolation.
func (v *Violation) Is(target error) bool { return target == ErrSchemaViolation }

func (v *Violation) Unwrap() error { return v.Err }

// Validate checks fm against the schema in field declaration order and returns the
// first violation. Keys the schema does not declare are ignored here; use Unknown to list them.
func (s Schema) Validate(fm map[string]any) error {
	for _, f := range s.Fields {
		raw, present := fm[f.Name]
		if !present || raw == nil {
			if f.Required {
				got := "nothing"
				if present {
					got = "null"
				}
				return &Violation{Schema: s.Name, Field: f.Name, Expected: string(f.Kind), Got: got}
			}
			continue
		}
		if !matches(f.Kind, raw) {
			return &Violation{Schema: s.Name, Field: f.Name, Expected: string(f.Kind), Got: describe(raw)}
		}
	}
	return nil
}

// Unknown lists the keys of fm that the schema does not declare, sorted.
func (s Schema) Unknown(fm map[string]any) []string {
	var out []string
	for k := range fm {
		if _, ok := s.Field(k); !ok {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Admit returns a copy of fm restricted to declared, non-null fields.
func (s Schema) Admit(fm map[string]any) map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if v, ok := fm[f.Name]; ok && v != nil {
			out[f.Name] = v
		}
	}
	return out
}

// Decode validates fm and decodes the admitted fields into a T using its yaml tags.
func Decode[T any](s Schema, fm map[string]any) (T, error) {
	var out T
	if err := s.Validate(fm); err != nil {
		return out, err
	}

	var node yaml.Node
	if err := node.Encode(s.Admit(fm)); err != nil {
		return out, &Violation{Schema: s.Name, Field: "*", Expected: "encodable front-matter", Got: "unencodable value", Err: err}
	}
	if err := node.Decode(&out); err != nil {
		return out, &Violation{Schema: s.Name, Field: "*", Expected: "decodable front-matter", Got: "mismatched value", Err: err}
	}
	return out, nil
}

func matches(kind Kind, v any) bool {
	switch kind {
	case String:
		_, ok := v.(string)
		return ok
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Number:
		switch n := v.(type) {
		case int, int64, uint64:
			return true
		case float64:
			return !math.IsNaN(n) && !math.IsInf(n, 0)
		}
		return false
	case StringList:
		switch list := v.(type) {
		case []string:
			return true
		case []any:
			for _, item := range list {
				if _, ok := item.(string); !ok {
					return false
				}
			}
			return true
		}
		return false
	default:
		return false
	}
}

func describe(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	case []any, []string:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
