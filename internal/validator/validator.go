package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// trans is the singleton English translator for validation errors.
	trans ut.Translator

	// models validates entities by their `validate` tags, independent of binding.
	models *govalidator.Validate

	setupOnce sync.Once
)

// Setup registers English translations on Gin's binding engine and on the
// model validator. Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")

		models = govalidator.New()
		configure(models)

		if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
			configure(v)
		}
	})
}

func configure(v *govalidator.Validate) {
	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(v, trans)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., malformed body).
	fields["detail"] = err.Error()
	return fields
}

// Bind decodes the request body (form or JSON, by Content-Type) into dst.
// Returns nil on success or a field error map when the body is malformed.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBind(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BlankFormFields returns the field errors for names that were posted as
// form values with nothing in them. Gin binds an empty numeric value as 0,
// which would otherwise be indistinguishable from a submitted zero.
// Non-form bodies never report blanks.
func BlankFormFields(c *gin.Context, names ...string) map[string]string {
	var fields map[string]string
	for _, name := range names {
		if v, ok := c.GetPostForm(name); ok && strings.TrimSpace(v) == "" {
			if fields == nil {
				fields = make(map[string]string)
			}
			fields[name] = name + " must be a number"
		}
	}
	return fields
}

// Struct validates v against its `validate` tags.
// Returns nil when valid, otherwise field name → message.
func Struct(v interface{}) map[string]string {
	Setup()
	if err := models.Struct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
