package form

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shandysiswandi/gocle/pkg/goerror"
)

// ResolveQuery validates query parameters against s and decodes the result
// into T. values may be url.Values, map[string][]string or map[string]string.
// Strings are coerced to the declared kinds; array fields accept repeated keys
// or a comma separated value. Empty values of non-string fields count as
// absent.
func ResolveQuery[T any](r *Resolver, values any, s *Schema) (T, error) {
	var zero T

	out, err := r.ResolveQueryMap(values, s)
	if err != nil {
		return zero, err
	}

	return decode[T](out)
}

// ResolveQueryMap is ResolveQuery without the final decode step.
func (r *Resolver) ResolveQueryMap(values any, s *Schema) (map[string]any, error) {
	if err := r.Check(s); err != nil {
		return nil, err
	}

	var multi map[string][]string
	switch v := values.(type) {
	case nil:
		multi = map[string][]string{}
	case url.Values:
		multi = v
	case map[string][]string:
		multi = v
	case map[string]string:
		multi = make(map[string][]string, len(v))
		for key, value := range v {
			multi[key] = []string{value}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported query values %T", ErrSchemaMismatch, values)
	}

	return r.resolveObject(queryObject(multi, s.fields), s, true, goerror.SourceQueryParameters)
}

// queryObject shapes raw query strings like a decoded JSON object so the same
// walker can validate both.
func queryObject(multi map[string][]string, fields []*Field) map[string]any {
	declared := make(map[string]*Field, len(fields))
	for _, f := range fields {
		declared[f.name] = f
		declared[f.wireName()] = f
	}

	obj := make(map[string]any, len(multi))
	for key, vals := range multi {
		f, ok := declared[key]
		if !ok {
			obj[key] = strings.Join(vals, ",")
			continue
		}

		if f.kind == KindArray {
			items := make([]any, 0, len(vals))
			for _, v := range vals {
				for _, part := range strings.Split(v, ",") {
					if part = strings.TrimSpace(part); part != "" {
						items = append(items, part)
					}
				}
			}
			if len(items) > 0 {
				obj[key] = items
			}
			continue
		}

		if len(vals) == 0 {
			continue
		}
		if vals[0] == "" && f.kind != KindString {
			continue
		}
		obj[key] = vals[0]
	}

	return obj
}
