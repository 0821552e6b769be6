package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/literasia/reading-service/internal/errors"
	"github.com/literasia/reading-service/internal/models"
)

// Validator wraps go-playground struct validation with the domain's custom
// tags. Services share one instance; it is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks struct tags and converts failures into the shared
// ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Custom validation functions

func ValidateGenre(fl validator.FieldLevel) bool {
	return models.Genre(fl.Field().String()).IsValid()
}

func ValidateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.QuestionMultipleChoice, models.QuestionEssay:
		return true
	}
	return false
}

func ValidateQuestionCategory(fl validator.FieldLevel) bool {
	switch models.QuestionCategory(fl.Field().String()) {
	case models.CategoryLiteral, models.CategoryInferential, models.CategoryHOTS:
		return true
	}
	return false
}

func ValidateHOTSCategory(fl validator.FieldLevel) bool {
	switch models.HOTSCategory(fl.Field().String()) {
	case models.HOTSAnalysis, models.HOTSEvaluation, models.HOTSCreation:
		return true
	}
	return false
}

func ValidateHOTSType(fl validator.FieldLevel) bool {
	switch models.HOTSType(fl.Field().String()) {
	case models.HOTSCaseStudy, models.HOTSCreativeWriting, models.HOTSCriticalAnalysis, models.HOTSProblemSolving:
		return true
	}
	return false
}

func ValidateDifficultyLevel(fl validator.FieldLevel) bool {
	switch models.DifficultyLevel(fl.Field().String()) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}

func ValidateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
		return true
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("genre", ValidateGenre)
	validate.RegisterValidation("question_type", ValidateQuestionType)
	validate.RegisterValidation("question_category", ValidateQuestionCategory)
	validate.RegisterValidation("hots_category", ValidateHOTSCategory)
	validate.RegisterValidation("hots_type", ValidateHOTSType)
	validate.RegisterValidation("difficulty_level", ValidateDifficultyLevel)
	validate.RegisterValidation("user_role", ValidateUserRole)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
