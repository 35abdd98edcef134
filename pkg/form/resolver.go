package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/go-viper/mapstructure/v2"

	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/response"
	"github.com/shandysiswandi/gocle/pkg/validator"
)

const (
	// MessageInvalidJSON is the validation error message for unreadable bodies.
	MessageInvalidJSON = "Form could not be validated due to given json not existing or being valid"
	// DetailInvalidJSON is the single detail reported for unreadable bodies.
	DetailInvalidJSON = "Request body either did not exist or was not valid JSON."

	detailRequired     = "is a required field"
	detailNotPermitted = "is not a permitted field"
)

// ErrSchemaMismatch indicates a validated form could not be decoded into the
// requested Go type, i.e. the schema and the type disagree.
var ErrSchemaMismatch = errors.New("form: schema does not match target type")

// ErrNilValidator is returned when a Resolver is built without a validator.
var ErrNilValidator = errors.New("form: validator is nil")

// Resolver validates raw input against schemas. It holds no per-request state
// and is safe for concurrent use.
type Resolver struct {
	validator validator.Validator
}

// NewResolver creates a resolver that checks field rules with v.
func NewResolver(v validator.Validator) (*Resolver, error) {
	if v == nil {
		return nil, ErrNilValidator
	}

	return &Resolver{validator: v}, nil
}

// New creates a resolver backed by the default validator.
func New() (*Resolver, error) {
	v, err := validator.NewV10Validator()
	if err != nil {
		return nil, err
	}

	return NewResolver(v)
}

// Check validates the schema declaration, including that every rule is
// understood by the validator.
func (r *Resolver) Check(s *Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}

	return r.checkRules(s.fields, "")
}

func (r *Resolver) checkRules(fields []*Field, prefix string) error {
	for _, f := range fields {
		path := joinPath(prefix, f.name)
		if err := r.checkFieldRules(f, path); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) checkFieldRules(f *Field, path string) error {
	if f.rules != "" {
		if err := r.validator.CheckRules(sample(f.kind), f.rules); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrInvalidSchema, path, err)
		}
	}

	switch f.kind {
	case KindObject:
		return r.checkRules(f.fields, path)
	case KindArray:
		return r.checkFieldRules(f.elem, path+".[]")
	}

	return nil
}

// sample returns a zero value of the kind's canonical Go type.
func sample(kind Kind) any {
	switch kind {
	case KindString:
		return ""
	case KindInt:
		return int64(0)
	case KindFloat:
		return float64(0)
	case KindBool:
		return false
	case KindObject:
		return map[string]any{}
	case KindArray:
		return []any{}
	default:
		return ""
	}
}

// Resolve validates a JSON request body against s and decodes the result into
// T. raw may be []byte, string, json.RawMessage, io.Reader, map[string]any or
// nil. Invalid input yields a *goerror.ValidationError listing every
// violation; an invalid schema yields an error wrapping ErrInvalidSchema.
func Resolve[T any](r *Resolver, raw any, s *Schema) (T, error) {
	var zero T

	values, err := r.ResolveMap(raw, s)
	if err != nil {
		return zero, err
	}

	return decode[T](values)
}

// ResolveMap is Resolve without the final decode step. The returned map holds
// declared fields only, with defaults applied.
func (r *Resolver) ResolveMap(raw any, s *Schema) (map[string]any, error) {
	if err := r.Check(s); err != nil {
		return nil, err
	}

	obj, ok := parseBody(raw)
	if !ok {
		verr := goerror.NewValidation([]response.ErrorDetail{{Message: DetailInvalidJSON}}, s.JSONSchema())
		verr.Message = MessageInvalidJSON
		return nil, verr
	}

	return r.resolveObject(obj, s, false, goerror.SourceRequestBody)
}

func (r *Resolver) resolveObject(obj map[string]any, s *Schema, coerce bool, source string) (map[string]any, error) {
	w := walker{resolver: r, coerce: coerce, unknown: s.unknown}

	out, err := w.object(s.fields, obj, "")
	if err != nil {
		return nil, err
	}

	if len(w.details) > 0 {
		verr := goerror.NewValidation(w.details, s.JSONSchema())
		verr.Source = source
		return nil, verr
	}

	return out, nil
}

// parseBody turns raw input into a JSON object. Go values, maps included, are
// encoded first so they decode exactly like a request body.
func parseBody(raw any) (map[string]any, bool) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return nil, false
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	case string:
		data = []byte(v)
	case io.Reader:
		b, err := io.ReadAll(v)
		if err != nil {
			return nil, false
		}
		data = b
	default:
		// maps and structs may hold typed Go containers ([]string,
		// map[string]string); a JSON round trip leaves only []any and
		// map[string]any for the walker
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		data = b
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}

	return obj, true
}

// walker collects violations while building the cleaned output.
type walker struct {
	resolver *Resolver
	coerce   bool
	unknown  UnknownPolicy
	details  []response.ErrorDetail
}

func (w *walker) fail(path, msg string) {
	w.details = append(w.details, response.ErrorDetail{Location: path, Message: msg})
}

func (w *walker) object(fields []*Field, obj map[string]any, prefix string) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		path := joinPath(prefix, f.name)

		v, present := lookupField(obj, f)
		if !present || v == nil {
			switch {
			case f.hasDefault:
				out[f.name] = normalize(f.def)
			case f.required:
				w.fail(path, detailRequired)
			}
			continue
		}

		value, ok, err := w.value(f, v, path)
		if err != nil {
			return nil, err
		}
		if ok {
			out[f.name] = value
		}
	}

	if w.unknown == RejectUnknown {
		var extra []string
		for key := range obj {
			if !slices.ContainsFunc(fields, func(f *Field) bool { return f.name == key || f.wireName() == key }) {
				extra = append(extra, key)
			}
		}
		slices.Sort(extra)
		for _, key := range extra {
			w.fail(joinPath(prefix, key), detailNotPermitted)
		}
	}

	return out, nil
}

// lookupField finds f under its declared name, then under its wire name.
func lookupField(obj map[string]any, f *Field) (any, bool) {
	if v, ok := obj[f.name]; ok {
		return v, true
	}
	v, ok := obj[f.wireName()]
	return v, ok
}

// value checks a present value. It reports at most one detail for the field
// itself; nested fields report their own.
func (w *walker) value(f *Field, v any, path string) (any, bool, error) {
	converted, ok := convert(f.kind, v, w.coerce)
	if !ok {
		w.fail(path, mismatchMessage(f.kind))
		return nil, false, nil
	}

	before := len(w.details)
	switch f.kind {
	case KindObject:
		nested, err := w.object(f.fields, converted.(map[string]any), path)
		if err != nil {
			return nil, false, err
		}
		converted = nested
	case KindArray:
		items := converted.([]any)
		out := make([]any, 0, len(items))
		for i, item := range items {
			itemPath := fmt.Sprintf("%s.%d", path, i)
			if item == nil {
				w.fail(itemPath, detailRequired)
				continue
			}
			iv, iok, err := w.value(f.elem, item, itemPath)
			if err != nil {
				return nil, false, err
			}
			if iok {
				out = append(out, iv)
			}
		}
		converted = out
	}
	if len(w.details) > before {
		return nil, false, nil
	}

	msg, err := w.resolver.validator.Var(converted, f.rules)
	if err != nil {
		return nil, false, fmt.Errorf("%w: field %q: %w", ErrInvalidSchema, path, err)
	}
	if msg != "" {
		w.fail(path, msg)
		return nil, false, nil
	}

	return converted, true, nil
}

// decode copies the cleaned map into T using json tags.
func decode[T any](values map[string]any) (T, error) {
	var out T
	if m, ok := any(values).(T); ok {
		return m, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		ZeroFields: true,
		Result:     &out,
		TagName:    "json",
	})
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}

	if err := dec.Decode(values); err != nil {
		return out, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}

	return out, nil
}
