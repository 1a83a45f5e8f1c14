package auth

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/go-playground/validator/v10"
)

const minimumAge = 18

var birthDateLayouts = []string{"02/01/2006", "2/1/2006"}

// ValidationError is the first rejected field of a registration or profile edit.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string { return e.Message }

var messages = map[string]string{
	"email":      "Email inválido",
	"rut":        "RUT inválido (formato: 12345678-9)",
	"address":    "La dirección no puede estar vacía",
	"birth_date": "Debes ser mayor de 18 años",
	"password":   "La contraseña debe tener al menos 6 caracteres",
}

// RegisterRequest is the registration form. Field order is validation order.
type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"      validate:"required,email"`
	RUT       string `json:"rut"        validate:"rut"`
	Address   string `json:"address"    validate:"required"`
	BirthDate string `json:"birth_date" validate:"adult"`
	Password  string `json:"password"   validate:"min=6"`
}

type profileForm struct {
	RUT       string `json:"rut"        validate:"rut"`
	Address   string `json:"address"    validate:"required"`
	BirthDate string `json:"birth_date" validate:"adult"`
}

// Validator runs the registration and profile rules against an injectable clock.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
	v := &Validator{validate: validator.New(), now: now}
	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	v.validate.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return ValidRUT(fl.Field().String())
	})
	v.validate.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		return IsAdult(fl.Field().String(), v.now())
	})
	return v
}

// ValidateRegistration returns the first failing rule, in form order.
func (v *Validator) ValidateRegistration(req *RegisterRequest) error {
	return v.first(v.validate.Struct(req))
}

func (v *Validator) ValidateProfile(p *user.ProfileUpdate) error {
	return v.first(v.validate.Struct(&profileForm{RUT: p.RUT, Address: p.Address, BirthDate: p.BirthDate}))
}

func (v *Validator) first(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	field := fieldErrs[0].Field()
	return &ValidationError{Field: field, Message: messages[field]}
}

// IsAdult reports whether someone born on birthDate (dd/MM/yyyy or d/M/yyyy)
// has turned 18 by now. Unparseable dates are not adult.
func IsAdult(birthDate string, now time.Time) bool {
	birth, ok := parseBirthDate(birthDate)
	if !ok {
		return false
	}
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years >= minimumAge
}

func parseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
