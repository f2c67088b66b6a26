package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/fruitpie/internal/client/client"
	"github.com/go-playground/validator/v10"
)

// ErrVerificationFailed means the token endpoint issued a token but the
// follow-up user fetch did not produce a user. The token has been discarded.
var ErrVerificationFailed = errors.New("token issued but user could not be fetched")

// Messages shown to the user.
const (
	MsgUnexpected         = "An unexpected error occurred."
	MsgVerificationFailed = "Login successful, but failed to fetch user details."
	MsgLoginFailed        = "Login failed."
	MsgRegisterFailed     = "Registration failed."
	MsgRegistered         = "Registration successful! Please login."
)

// ValidationError lists input problems found before anything is sent.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// UserMessage maps an operation error to the text shown on the form.
// Server details are passed through verbatim; fallback is used when the
// server rejected the request without one.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	if errors.Is(err, ErrVerificationFailed) {
		return MsgVerificationFailed
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fallback
	}
	return MsgUnexpected
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	problems := make([]string, 0, len(ve))
	for _, fe := range ve {
		problems = append(problems, fieldProblem(fe))
	}
	return &ValidationError{Problems: problems}
}

func fieldProblem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}
