package form

// JSONSchema renders the schema as a JSON schema document. Every call builds a
// fresh map so callers may keep or modify the result. Fields are listed under
// their wire names, the lowerCamel form of the declared name, which is also
// the spelling envelopes use for every key.
func (s *Schema) JSONSchema() map[string]any {
	out := objectSchema(s.fields)
	out["title"] = s.name
	if s.unknown == RejectUnknown {
		out["additionalProperties"] = false
	}

	return out
}

func objectSchema(fields []*Field) map[string]any {
	properties := make(map[string]any, len(fields))
	required := make([]any, 0, len(fields))
	for _, f := range fields {
		if f == nil {
			continue
		}
		properties[f.wireName()] = f.jsonSchema()
		if f.required {
			required = append(required, f.wireName())
		}
	}

	out := map[string]any{
		"type":       KindObject.String(),
		"properties": properties,
	}
	if len(required) > 0 {
		out["required"] = required
	}

	return out
}

func (f *Field) jsonSchema() map[string]any {
	var out map[string]any
	switch f.kind {
	case KindObject:
		out = objectSchema(f.fields)
	case KindArray:
		out = map[string]any{"type": KindArray.String()}
		if f.elem != nil {
			out["items"] = f.elem.jsonSchema()
		}
	case KindAny:
		out = map[string]any{}
	default:
		out = map[string]any{"type": f.kind.String()}
	}

	if f.name != "" {
		out["title"] = f.wireName()
	}
	if f.description != "" {
		out["description"] = f.description
	}
	if f.hasDefault {
		out["default"] = normalize(f.def)
	}
	if f.rules != "" {
		out["rules"] = f.rules
	}

	return out
}
