package middleware

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yaadplay/storefront/internal/models"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()

	commonTags := []string{
		"json",
		"param",
		"query",
		"header",
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range commonTags {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})

	// rental_plan accepts an empty value or the id of a known rental plan
	validate.RegisterValidation("rental_plan", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if id == "" {
			return true
		}
		_, ok := models.FindRentalPlan(id)
		return ok
	})

	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if id == "" {
			return true
		}
		for _, category := range models.Categories {
			if category.ID == id {
				return true
			}
		}
		return false
	})

	return &Validator{
		validate: validate,
	}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
