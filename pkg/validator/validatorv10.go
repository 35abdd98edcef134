package validator

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/response"
	"github.com/shandysiswandi/gocle/pkg/strcase"
)

var (
	// arn:partition:service:region:account-id:resource
	reARN = regexp.MustCompile(`^arn:[a-z0-9-]+:[a-z0-9-]+:[a-z0-9-]*:[0-9]*:.+$`)
	// letters of any script, spaces, apostrophes and hyphens
	reAlphaSpace = regexp.MustCompile(`^[\p{L} '-]+$`)
)

var (
	// ErrTranslatorNotFound indicates the requested translator is unavailable.
	ErrTranslatorNotFound = errors.New("translator not found")

	// ErrInvalidRules indicates a rule declaration the validator cannot apply.
	ErrInvalidRules = errors.New("validator: invalid rules")
)

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire name rather than the Go field name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return strcase.ToLowerSnake(fld.Name)
		default:
			return name
		}
	})

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := v10CustomValidation(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a *goerror.ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	details := make([]response.ErrorDetail, 0, len(validateErrs))
	seen := make(map[string]struct{}, len(validateErrs))
	for _, fe := range validateErrs {
		location := namespaceToLocation(fe.Namespace())
		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}

		details = append(details, response.ErrorDetail{
			Location: location,
			Message:  fe.Translate(v.translator),
		})
	}

	return goerror.NewValidation(details, nil)
}

// Var validates a single value against rules.
func (v *V10Validator) Var(value any, rules string) (string, error) {
	if strings.TrimSpace(rules) == "" {
		return "", nil
	}

	err := v.validate.Var(value, rules)
	if err == nil {
		return "", nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) || len(validateErrs) == 0 {
		return "", err
	}

	// single values have no field name, the translation starts with a blank
	return strings.TrimSpace(validateErrs[0].Translate(v.translator)), nil
}

// CheckRules applies rules to sample and reports panics raised by the
// validator for unknown tags, bad parameters or unsupported kinds.
func (v *V10Validator) CheckRules(sample any, rules string) (err error) {
	if strings.TrimSpace(rules) == "" {
		return nil
	}

	defer func() {
		if rvr := recover(); rvr != nil {
			err = fmt.Errorf("%w %q: %v", ErrInvalidRules, rules, rvr)
		}
	}()

	if verr := v.validate.Var(sample, rules); verr != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(verr, &validateErrs) {
			return fmt.Errorf("%w %q: %w", ErrInvalidRules, rules, verr)
		}
	}

	return nil
}

// namespaceToLocation drops the struct name from a namespace, so
// "PublishInput.attributes[x].DataType" becomes "attributes[x].data_type".
func namespaceToLocation(ns string) string {
	if _, rest, found := strings.Cut(ns, "."); found {
		ns = rest
	}
	return strcase.ToLowerSnake(ns)
}

func v10CustomValidation(validate *validator.Validate, enTrans ut.Translator) error {
	if err := validate.RegisterValidation("arn", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return reARN.MatchString(s)
	}); err != nil {
		return err
	}

	if err := validate.RegisterTranslation("arn", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("arn", "{0} must be a valid amazon resource name", false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(fe.Tag(), fe.Field()) //nolint:errcheck // key registered above
			return t
		},
	); err != nil {
		return err
	}

	if err := validate.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && reAlphaSpace.MatchString(s)
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation("alphaspace", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("alphaspace", "{0} can contain only letters and spaces", false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("warning: error translating", "FieldError", fe, "error", err)
				return fe.Error()
			}

			return t
		},
	)
}
