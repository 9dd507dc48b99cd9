package utils

import (
	"medreport-service/internal/app/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("modality", validateModality)
	validate.RegisterValidation("image_features", validateImageFeatures)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateImageFeatures(fl validator.FieldLevel) bool {
	features, ok := fl.Field().Interface().(map[string]float64)
	return ok && len(models.MissingFeatures(features)) == 0
}

func validateModality(fl validator.FieldLevel) bool {
	_, err := models.ParseModality(fl.Field().String())
	return err == nil
}
