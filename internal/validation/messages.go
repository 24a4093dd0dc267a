package validation

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

const (
	KeyInvalidValue = "invalid_value"
	KeyInvalidData  = "invalid_data"
	KeyCityNotFound = "city_not_found"
)

// ruleMessages holds one message per validation tag, per locale.
var ruleMessages = map[string]map[string]string{
	"pt_BR": {
		"required":  "Campo requerido",
		"notblank":  "Campo requerido",
		"notpast":   "A data do evento não pode ser passada",
		"plaintext": "Não pode conter marcação HTML",
	},
	"en": {
		"required":  "Required field",
		"notblank":  "Required field",
		"notpast":   "Event date cannot be in the past",
		"plaintext": "Must not contain HTML markup",
	},
}

var plainMessages = map[string]map[string]string{
	"pt_BR": {
		KeyInvalidValue: "Valor inválido",
		KeyInvalidData:  "Dados inválidos",
		KeyCityNotFound: "Cidade não encontrada",
	},
	"en": {
		KeyInvalidValue: "Invalid value",
		KeyInvalidData:  "Invalid data",
		KeyCityNotFound: "City not found",
	},
}

func (v *Validator) registerTranslations() error {
	for _, locale := range v.locales {
		trans, found := v.uni.GetTranslator(locale)
		if !found {
			return fmt.Errorf("translator %s not found", locale)
		}

		for tag, msg := range ruleMessages[locale] {
			err := v.validate.RegisterTranslation(tag, trans,
				func(t ut.Translator) error {
					return t.Add(tag, msg, true)
				},
				func(t ut.Translator, fe validator.FieldError) string {
					s, err := t.T(fe.Tag(), fe.Field())
					if err != nil {
						return msg
					}
					return s
				},
			)
			if err != nil {
				return fmt.Errorf("register %s translation for %s: %w", locale, tag, err)
			}
		}

		for key, msg := range plainMessages[locale] {
			if err := trans.Add(key, msg, true); err != nil {
				return fmt.Errorf("add %s message %s: %w", locale, key, err)
			}
		}
	}
	return nil
}

func translate(trans ut.Translator, key string) string {
	s, err := trans.T(key)
	if err != nil {
		return key
	}
	return s
}
