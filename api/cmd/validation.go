package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/ezalahmad/account-service/app/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("username_format", validateUsernameFormat)
}

// validateUsernameFormat checks if username contains only alphanumeric characters and underscores
func validateUsernameFormat(fl validator.FieldLevel) bool {
	username := fl.Field().String()

	if len(username) == 0 {
		return false
	}

	for _, char := range username {
		if !unicode.IsLetter(char) && !unicode.IsNumber(char) && char != '_' {
			return false
		}
	}

	return true
}

// validateRequest validates a request DTO and returns formatted error
func validateRequest(req interface{}) *appErrors.AppError {
	if err := validate.Struct(req); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors formats validator errors into user-friendly messages
func formatValidationErrors(err error) *appErrors.AppError {
	var messages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			messages = append(messages, formatFieldError(fieldError))
		}
	} else {
		return appErrors.NewInvalidInput(err.Error())
	}

	return appErrors.NewInvalidInput(strings.Join(messages, "; "))
}

// formatFieldError formats a single field validation error
func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "username_format":
		return fmt.Sprintf("%s can only contain letters, numbers, and underscores", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// sanitizeInput trims whitespace, strips control characters, and caps the
// length in runes. preserveSpecialChars keeps everything printable intact
// (passwords must not be altered beyond trimming).
func sanitizeInput(input string, maxLength int, preserveSpecialChars bool) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if !preserveSpecialChars {
		var builder strings.Builder
		for _, r := range input {
			if unicode.IsPrint(r) {
				builder.WriteRune(r)
			}
		}
		input = builder.String()
	}

	if maxLength > 0 && utf8.RuneCountInString(input) > maxLength {
		runes := []rune(input)
		input = string(runes[:maxLength])
	}

	return input
}

// sanitizeEmail sanitizes email input (trims and normalizes)
func sanitizeEmail(email string, maxLength int) string {
	email = sanitizeInput(email, maxLength, false)
	// Email addresses are case-insensitive
	return strings.ToLower(email)
}

// sanitizeUsername sanitizes username input (trims, removes invalid characters)
func sanitizeUsername(username string, maxLength int) string {
	username = sanitizeInput(username, maxLength, false)

	var builder strings.Builder
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			builder.WriteRune(r)
		}
	}
	username = builder.String()

	if maxLength > 0 && utf8.RuneCountInString(username) > maxLength {
		runes := []rune(username)
		username = string(runes[:maxLength])
	}

	return username
}
