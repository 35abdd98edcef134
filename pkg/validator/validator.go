package validator

// Validator validates structs and single values.
type Validator interface {
	// Validate validates a struct using its `validate` tags. Violations are
	// returned as a *goerror.ValidationError, one detail per field.
	Validate(data any) error

	// Var validates a single value against rules. It returns the translated
	// message of the first failing rule, or an empty string when valid.
	Var(value any, rules string) (string, error)

	// CheckRules reports whether rules can be applied to values shaped like
	// sample. It is used to fail fast on invalid schema declarations.
	CheckRules(sample any, rules string) error
}
