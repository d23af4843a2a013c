package server

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// newValidator returns a validator whose errors use JSON field names and
// English messages.
func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate, translator
}

// checkPayload validates payload and flattens any field errors into one
// message, e.g. "courses[0].name must be a maximum of 100 characters in length".
func (h *handler) checkPayload(payload interface{}) error {
	err := h.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fe.Translate(h.translator)
		// Namespace includes the struct name as its first element.
		if ns := fe.Namespace(); strings.Contains(ns, ".") {
			field := ns[strings.Index(ns, ".")+1:]
			msg = strings.Replace(msg, fe.Field(), field, 1)
		}
		messages = append(messages, msg)
	}
	return errors.New(strings.Join(messages, "; "))
}
