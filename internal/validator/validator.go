package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator wraps the struct validator together with its English translator
type Validator struct {
	structValidator *validator.Validate
	translator      ut.Translator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(structValidator, translator)

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		translator:      translator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err, v.translator); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("assignment_type", validateAssignmentType)
	validate.RegisterValidation("skill_difficulty", validateSkillDifficulty)

	// Nullable patch fields validate as their inner value, absent or null as empty
	validate.RegisterCustomTypeFunc(nullableInt, models.Nullable[int]{})

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateAssignmentType(fl validator.FieldLevel) bool {
	return models.AssignmentType(fieldString(fl)).IsValid()
}

func validateSkillDifficulty(fl validator.FieldLevel) bool {
	return models.SkillDifficulty(fieldString(fl)).IsValid()
}

func nullableInt(field reflect.Value) interface{} {
	if n, ok := field.Interface().(models.Nullable[int]); ok {
		return n.Value
	}
	return nil
}

// fieldString dereferences pointer fields so tags work on optional values.
func fieldString(fl validator.FieldLevel) string {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return ""
		}
		field = field.Elem()
	}
	return field.String()
}
