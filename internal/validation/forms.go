// Package validation holds form rules for registration and uploads.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// RegisterForm mirrors the registration form fields.
type RegisterForm struct {
	Username string `validate:"required,notblank,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// UploadForm mirrors the upload form fields. The image is checked separately.
type UploadForm struct {
	Caption string `validate:"required,notblank"`
}

// fieldMessages maps StructField.tag to the message shown to the user.
var fieldMessages = map[string]string{
	"Username.required": "Username is required.",
	"Username.notblank": "Username is required.",
	"Username.min":      "Username must be between 3 and 50 characters.",
	"Username.max":      "Username must be between 3 and 50 characters.",
	"Email.required":    "Email is required.",
	"Email.email":       "Please enter a valid email address.",
	"Password.required": "Password is required.",
	"Password.min":      "Password must be at least 6 characters.",
	"Caption.required":  "Caption is required.",
	"Caption.notblank":  "Caption is required.",
}

// Struct validates a form and returns the first failing rule as a user-facing error.
func Struct(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	first := verrs[0]
	if msg, ok := fieldMessages[first.StructField()+"."+first.Tag()]; ok {
		return errors.New(msg)
	}
	return fmt.Errorf("%s is invalid", first.StructField())
}

// NormalizeEmail trims and lower-cases an address before checks and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// InstitutionalEmail reports whether the normalized email ends with domain ("@umassd.edu").
func InstitutionalEmail(email, domain string) bool {
	if domain == "" {
		return false
	}
	return strings.HasSuffix(NormalizeEmail(email), strings.ToLower(domain))
}

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// AllowedImageExtension reports whether filename carries a jpg or png extension.
func AllowedImageExtension(filename string) bool {
	_, ok := allowedImageExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}
