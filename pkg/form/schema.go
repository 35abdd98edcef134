package form

import (
	"errors"
	"fmt"

	"github.com/shandysiswandi/gocle/pkg/strcase"
)

// ErrInvalidSchema indicates the schema declaration itself is broken.
var ErrInvalidSchema = errors.New("form: invalid schema")

// Kind is the type a field value must have.
type Kind int

const (
	// KindString accepts JSON strings.
	KindString Kind = iota + 1
	// KindInt accepts integral JSON numbers, resolved as int64.
	KindInt
	// KindFloat accepts any JSON number, resolved as float64.
	KindFloat
	// KindBool accepts JSON booleans.
	KindBool
	// KindObject accepts JSON objects described by nested fields.
	KindObject
	// KindArray accepts JSON arrays whose items are described by an element field.
	KindArray
	// KindAny accepts any JSON value.
	KindAny
)

// String returns the JSON schema type name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindBool:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// UnknownPolicy decides what happens to input keys the schema does not declare.
type UnknownPolicy int

const (
	// IgnoreUnknown drops undeclared keys from the result.
	IgnoreUnknown UnknownPolicy = iota
	// RejectUnknown reports every undeclared key as a violation.
	RejectUnknown
)

// Field describes one named value of a schema.
type Field struct {
	name        string
	kind        Kind
	required    bool
	rules       string
	description string
	def         any
	hasDefault  bool
	fields      []*Field
	elem        *Field
}

func newField(name string, kind Kind) *Field {
	return &Field{name: name, kind: kind}
}

// String declares a string field.
func String(name string) *Field { return newField(name, KindString) }

// Int declares an integer field.
func Int(name string) *Field { return newField(name, KindInt) }

// Float declares a number field.
func Float(name string) *Field { return newField(name, KindFloat) }

// Bool declares a boolean field.
func Bool(name string) *Field { return newField(name, KindBool) }

// Any declares a field accepting any value.
func Any(name string) *Field { return newField(name, KindAny) }

// Object declares a nested object field.
func Object(name string, fields ...*Field) *Field {
	f := newField(name, KindObject)
	f.fields = fields
	return f
}

// Array declares an array field whose items are described by elem. The name
// of elem is ignored.
func Array(name string, elem *Field) *Field {
	f := newField(name, KindArray)
	f.elem = elem
	return f
}

// Required marks the field as mandatory.
func (f *Field) Required() *Field {
	f.required = true
	return f
}

// Rules attaches validator rules (go-playground/validator tag syntax) checked
// once the value has the right kind.
func (f *Field) Rules(rules string) *Field {
	f.rules = rules
	return f
}

// Default sets the value used when the field is absent.
func (f *Field) Default(v any) *Field {
	f.def = v
	f.hasDefault = true
	return f
}

// Describe sets a human readable description echoed in the JSON schema.
func (f *Field) Describe(description string) *Field {
	f.description = description
	return f
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Kind returns the field kind.
func (f *Field) Kind() Kind { return f.kind }

// wireName is the lowerCamel spelling of the name. Input may use either.
func (f *Field) wireName() string { return strcase.ToLowerCamel(f.name) }

// IsRequired reports whether the field is mandatory.
func (f *Field) IsRequired() bool { return f.required }

// Schema is an ordered declaration of the fields a form accepts.
type Schema struct {
	name    string
	fields  []*Field
	unknown UnknownPolicy
}

// NewSchema declares a schema. Undeclared input keys are ignored unless
// Strict is used.
func NewSchema(name string, fields ...*Field) *Schema {
	return &Schema{name: name, fields: fields, unknown: IgnoreUnknown}
}

// Strict returns a copy of the schema that rejects undeclared keys.
func (s *Schema) Strict() *Schema {
	return &Schema{name: s.name, fields: s.fields, unknown: RejectUnknown}
}

// Lenient returns a copy of the schema that ignores undeclared keys.
func (s *Schema) Lenient() *Schema {
	return &Schema{name: s.name, fields: s.fields, unknown: IgnoreUnknown}
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns the declared fields in order.
func (s *Schema) Fields() []*Field { return append([]*Field{}, s.fields...) }

// Unknown returns the unknown key policy.
func (s *Schema) Unknown() UnknownPolicy { return s.unknown }

// Validate checks the declaration itself: a name, non-empty field names that
// stay unique once camel cased, known kinds, array elements and defaults
// matching their kind.
func (s *Schema) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: schema is nil", ErrInvalidSchema)
	}
	if s.name == "" {
		return fmt.Errorf("%w: schema name is empty", ErrInvalidSchema)
	}
	if s.unknown != IgnoreUnknown && s.unknown != RejectUnknown {
		return fmt.Errorf("%w: unknown field policy %d", ErrInvalidSchema, s.unknown)
	}

	return validateFields(s.fields, "")
}

func validateFields(fields []*Field, prefix string) error {
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f == nil {
			return fmt.Errorf("%w: field #%d of %q is nil", ErrInvalidSchema, i, prefix)
		}
		if f.name == "" {
			return fmt.Errorf("%w: field #%d of %q has no name", ErrInvalidSchema, i, prefix)
		}
		// "page_size" and "pageSize" name the same input key
		if _, ok := seen[f.wireName()]; ok {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, joinPath(prefix, f.name))
		}
		seen[f.wireName()] = struct{}{}

		if err := validateField(f, joinPath(prefix, f.name)); err != nil {
			return err
		}
	}

	return nil
}

func validateField(f *Field, path string) error {
	switch f.kind {
	case KindString, KindInt, KindFloat, KindBool, KindAny:
	case KindObject:
		if err := validateFields(f.fields, path); err != nil {
			return err
		}
	case KindArray:
		if f.elem == nil {
			return fmt.Errorf("%w: array field %q has no element", ErrInvalidSchema, path)
		}
		if err := validateField(f.elem, path+".[]"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: field %q has unknown kind %d", ErrInvalidSchema, path, f.kind)
	}

	if f.hasDefault && f.def != nil {
		if _, ok := convert(f.kind, f.def, false); !ok {
			return fmt.Errorf("%w: default of %q is not a valid %s", ErrInvalidSchema, path, f.kind)
		}
	}

	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
