// Package validator registers the CityCare binding tags on gin's validator.
package validator

import (
	"citycare-backend/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init must run before any handler binds a request.
func Init() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("issuetype", validIssueType); err != nil {
		return err
	}
	return v.RegisterValidation("issuestatus", validIssueStatus)
}

func validIssueType(fl validator.FieldLevel) bool {
	_, ok := models.ParseIssueType(fl.Field().String())
	return ok
}

func validIssueStatus(fl validator.FieldLevel) bool {
	_, ok := models.ParseIssueStatus(fl.Field().String())
	return ok
}
