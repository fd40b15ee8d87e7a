package validations

import (
	"errors"
	"fmt"
	"math"
	"realtimesales/database"
	"realtimesales/domain"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// structError validates request against its tags and turns the first
// violation into a 400 fiber error
func structError(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusBadRequest, describe(fieldErrors[0]))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func ValidateOrderRequest(request *domain.OrderRequest) error {
	if request == nil {
		return fiber.NewError(fiber.StatusBadRequest, "order is required")
	}
	if math.IsNaN(request.Price) || math.IsInf(request.Price, 0) {
		return fiber.NewError(fiber.StatusBadRequest, "price must be a number")
	}
	return structError(request)
}

func ValidateSignUpRequest(request *domain.SignUpRequest) error {
	if request == nil {
		return fiber.NewError(fiber.StatusBadRequest, "sign-up request is required")
	}
	return structError(request)
}

func ValidateSalesMetricRequest(request *domain.SalesMetricRequest) error {
	if request.From != nil {
		// From timestamp must be a positive and not in the future
		if *request.From <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "from must be a positive integer")
		}
		if *request.From > time.Now().UTC().Unix() {
			return fiber.NewError(fiber.StatusBadRequest, "from cannot be in the future")
		}
	}
	if request.To != nil {
		if *request.To <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "to must be a positive integer")
		}
	}
	if request.From != nil && request.To != nil {
		if *request.From > *request.To {
			return fiber.NewError(fiber.StatusBadRequest, "from cannot be greater than to")
		}
	}

	if request.GroupBy != nil {
		if strings.TrimSpace(*request.GroupBy) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "group_by cannot be empty if provided")
		}
		if _, ok := database.SalesGroupings[*request.GroupBy]; !ok {
			return fiber.NewError(fiber.StatusBadRequest, "group_by must be one of hour, day, week, month, product")
		}
	}

	if request.ProductName != nil {
		if strings.TrimSpace(*request.ProductName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "product_name cannot be empty if provided")
		}
	}

	return nil
}
