package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// rule is a validation tag notesync adds on top of the validator built-ins.
type rule struct {
	tag     string
	check   validator.Func
	message string
}

var rules = []rule{
	{tag: "httpurl", check: isHTTPURL, message: "{0} must be an http or https URL"},
}

// newValidator reports fields by their configuration key, e.g. "api.base_url".
func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(configKey)

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator(locale.Locale())
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("config.newValidator > %w", err)
	}

	for _, r := range rules {
		if err := registerRule(validate, trans, r); err != nil {
			return nil, nil, fmt.Errorf("config.newValidator > %s > %w", r.tag, err)
		}
	}
	return validate, trans, nil
}

func registerRule(validate *validator.Validate, trans ut.Translator, r rule) error {
	if err := validate.RegisterValidation(r.tag, r.check); err != nil {
		return err
	}
	return validate.RegisterTranslation(r.tag, trans,
		func(t ut.Translator) error {
			return t.Add(r.tag, r.message, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(r.tag, keyOf(fe))
			return msg
		},
	)
}

func configKey(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// keyOf drops the root struct name from the field namespace.
func keyOf(fe validator.FieldError) string {
	_, key, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return key
}

func isHTTPURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
