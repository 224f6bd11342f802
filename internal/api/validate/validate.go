// Package validate wraps go-playground/validator for request DTOs.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Iranian mobile format: 09 followed by nine digits.
	_ = v.RegisterValidation("phone_ir", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 11 || !strings.HasPrefix(s, "09") {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}

// Struct validates v's struct tags and returns per-field messages on failure.
func Struct(s interface{}) (map[string]string, error) {
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = message(fe)
	}
	return fields, fmt.Errorf("validation failed")
}

// DecodeJSON decodes the body into dst and validates it.
func DecodeJSON(r *http.Request, dst interface{}) (map[string]string, error) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return nil, fmt.Errorf("invalid JSON body")
	}
	return Struct(dst)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "phone_ir":
		return "must be a valid phone number (09xxxxxxxxx)"
	case "len":
		return fmt.Sprintf("must be %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
