// Package validation runs the declarative field rules attached to request
// structs and renders violations in the caller's language.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/geocoder89/cityevents/internal/sanitize"
	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

// Violation is one rejected field. Violations keep struct field order.
type Violation struct {
	FieldName string `json:"fieldName"`
	Message   string `json:"message"`
}

// Normalizer is implemented by requests that clean their input before validation.
type Normalizer interface {
	Normalize()
}

type Validator struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
	matcher  language.Matcher
	locales  []string
	now      func() time.Time
}

type Option func(*Validator)

// WithClock overrides the clock used by the notpast rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

type supportedLocale struct {
	key   string
	tag   language.Tag
	trans locales.Translator
}

func supportedLocales() []supportedLocale {
	return []supportedLocale{
		{key: "pt_BR", tag: language.BrazilianPortuguese, trans: pt_BR.New()},
		{key: "en", tag: language.English, trans: en.New()},
	}
}

var timeType = reflect.TypeOf(time.Time{})

// New builds a validator whose messages default to defaultLocale ("pt_BR" or "en").
func New(defaultLocale string, opts ...Option) (*Validator, error) {
	all := supportedLocales()

	// the default locale goes first so the matcher falls back to it
	ordered := make([]supportedLocale, 0, len(all))
	for _, l := range all {
		if l.key == defaultLocale {
			ordered = append(ordered, l)
		}
	}
	if len(ordered) == 0 {
		return nil, fmt.Errorf("unsupported locale %q", defaultLocale)
	}
	for _, l := range all {
		if l.key != defaultLocale {
			ordered = append(ordered, l)
		}
	}

	tags := make([]language.Tag, 0, len(ordered))
	keys := make([]string, 0, len(ordered))
	trans := make([]locales.Translator, 0, len(ordered))
	for _, l := range ordered {
		tags = append(tags, l.tag)
		keys = append(keys, l.key)
		trans = append(trans, l.trans)
	}

	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		uni:      ut.New(trans[0], trans...),
		matcher:  language.NewMatcher(tags),
		locales:  keys,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.validate.RegisterTagNameFunc(jsonFieldName)

	if err := v.validate.RegisterValidation("notblank", notBlank); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}
	if err := v.validate.RegisterValidation("plaintext", plainText); err != nil {
		return nil, fmt.Errorf("register plaintext: %w", err)
	}
	if err := v.validate.RegisterValidation("notpast", v.notPast); err != nil {
		return nil, fmt.Errorf("register notpast: %w", err)
	}

	if err := v.registerTranslations(); err != nil {
		return nil, err
	}

	return v, nil
}

// Validate returns the violations for s, or nil when s is valid. Requests
// implementing Normalizer are normalized first.
func (v *Validator) Validate(s any, acceptLanguage string) []Violation {
	if n, ok := s.(Normalizer); ok {
		n.Normalize()
	}

	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	trans := v.translator(acceptLanguage)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Message: err.Error()}}
	}

	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fe.Translate(trans)
		if _, ok := ruleMessages[trans.Locale()][fe.Tag()]; !ok {
			msg = translate(trans, KeyInvalidValue)
		}
		out = append(out, Violation{FieldName: fieldPath(fe), Message: msg})
	}
	return out
}

// Message renders a message key in the negotiated locale.
func (v *Validator) Message(acceptLanguage, key string) string {
	return translate(v.translator(acceptLanguage), key)
}

// Locale picks the best supported locale for an Accept-Language header.
func (v *Validator) Locale(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return v.locales[0]
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return v.locales[0]
	}

	_, idx, confidence := v.matcher.Match(tags...)
	if confidence == language.No {
		return v.locales[0]
	}
	return v.locales[idx]
}

func (v *Validator) translator(acceptLanguage string) ut.Translator {
	trans, _ := v.uni.GetTranslator(v.Locale(acceptLanguage))
	return trans
}

func (v *Validator) notPast(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.Type().ConvertibleTo(timeType) {
		return false
	}

	t := field.Convert(timeType).Interface().(time.Time)
	if t.IsZero() {
		// absence is the job of "required"
		return true
	}

	return !dayOf(t).Before(dayOf(v.now()))
}

// notBlank fails on empty, whitespace-only and markup-only strings.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return sanitize.Text(field.String()) != ""
}

// plainText fails when stripping HTML would change the value, so text is
// rejected instead of silently losing characters.
func plainText(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return sanitize.IsPlain(field.String())
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func jsonFieldName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return sf.Name
	default:
		return name
	}
}

// fieldPath drops the root struct name from the namespace: "CreateEventRequest.cityId" -> "cityId".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
