package validator

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

// ErrTranslatorNotFound indicates the English translator could not be built.
var ErrTranslatorNotFound = errors.New("translator not found")

// FieldErrors maps snake_case field names to translated messages.
type FieldErrors map[string]string

// Error joins the messages in field order so logs stay stable.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation error"
	}

	parts := make([]string, 0, len(fe))
	for _, k := range slices.Sorted(maps.Keys(fe)) {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// Fields returns the field to message map.
func (fe FieldErrors) Fields() map[string]string {
	return fe
}

type rule struct {
	tag  string
	text string
	fn   func(string) bool
}

var rules = []rule{
	{
		tag:  "role",
		text: "{0} must be ADMIN or USER",
		fn: func(s string) bool {
			s = strings.ToUpper(strings.TrimSpace(s))
			return s == "ADMIN" || s == "USER"
		},
	},
	{
		// stricter than numeric: no sign and no decimal point
		tag:  "digits",
		text: "{0} must contain only digits",
		fn: func(s string) bool {
			return s != "" && strings.Trim(s, "0123456789") == ""
		},
	},
}

// V10Validator implements Validator on go-playground/validator v10.
type V10Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewV10Validator builds a validator with English messages and the
// role and digits rules.
func NewV10Validator() (*V10Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	trans, ok := ut.New(english, english).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	for _, r := range rules {
		if err := register(v, trans, r); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: v, trans: trans}, nil
}

// Validate returns FieldErrors when data breaks its tags.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[lo.SnakeCase(fe.Field())] = fe.Translate(v.trans)
	}
	return out
}

func register(v *validator.Validate, trans ut.Translator, r rule) error {
	check := r.fn
	err := v.RegisterValidation(r.tag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && check(s)
	})
	if err != nil {
		return err
	}

	return v.RegisterTranslation(r.tag, trans,
		func(t ut.Translator) error {
			return t.Add(r.tag, r.text, false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("failed to translate validation message", "tag", fe.Tag(), "error", err)
				return fe.Error()
			}
			return msg
		},
	)
}
