package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("rating", validateRating)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationErrors flattens validator errors into a field -> tag map for
// API error details.
func ValidationErrors(err error) map[string]string {
	details := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return details
}

func validateRating(fl validator.FieldLevel) bool {
	rating := fl.Field().Int()
	return rating >= MinReviewRating && rating <= MaxReviewRating
}
