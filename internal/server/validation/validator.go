// Package validation checks write payloads before they reach storage.
//
// Every entry point returns nil or a *common.ValidationError keyed by JSON
// field name. Inputs are never modified.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/server/models"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator reporting JSON tag names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}

	return &Validator{v: v}
}

// maxBytes bounds the UTF-8 byte length of a string, which is what bcrypt
// limits, rather than its character count.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// User checks a registration payload.
func (v *Validator) User(u models.NewUser) error {
	return v.validate(u, nil)
}

// Credentials checks the shape of a login attempt.
func (v *Validator) Credentials(email, password string) error {
	return v.validate(models.Credentials{Email: email, Password: password}, nil)
}

func (v *Validator) Board(b models.NewBoard) error {
	return v.validate(b, nil)
}

func (v *Validator) BoardUpdate(b models.BoardUpdate) error {
	return v.validate(b, nil)
}

func (v *Validator) Plant(p models.NewPlant) error {
	return v.validate(p, boundsOf(p.MinTemp, p.MaxTemp, p.MinPH, p.MaxPH, p.MinHum, p.MaxHum, p.MinLux, p.MaxLux))
}

// PlantUpdate checks an update payload. Bound ordering is only checked for
// pairs set together in the same payload.
func (v *Validator) PlantUpdate(p models.PlantUpdate) error {
	return v.validate(p, boundsOf(p.MinTemp, p.MaxTemp, p.MinPH, p.MaxPH, p.MinHum, p.MaxHum, p.MinLux, p.MaxLux))
}

func (v *Validator) Reading(r models.NewReading) error {
	return v.validate(r, nil)
}

type bound struct {
	min, max *float64
	minKey   string
	maxKey   string
}

func boundsOf(minTemp, maxTemp, minPH, maxPH, minHum, maxHum, minLux, maxLux *float64) []bound {
	return []bound{
		{min: minTemp, max: maxTemp, minKey: "mintemp", maxKey: "maxtemp"},
		{min: minPH, max: maxPH, minKey: "minph", maxKey: "maxph"},
		{min: minHum, max: maxHum, minKey: "minhum", maxKey: "maxhum"},
		{min: minLux, max: maxLux, minKey: "minlux", maxKey: "maxlux"},
	}
}

func (v *Validator) validate(s any, bounds []bound) error {
	fields := make(map[string]string)

	if err := v.v.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, e := range verrs {
			fields[e.Field()] = friendlyMessage(e)
		}
	}

	for _, b := range bounds {
		if b.min == nil || b.max == nil {
			continue
		}
		if _, taken := fields[b.minKey]; taken {
			continue
		}
		if *b.min > *b.max {
			fields[b.minKey] = "must not exceed " + b.maxKey
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return common.NewValidationError(fields)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "maxbytes":
		return fmt.Sprintf("must not exceed %s bytes", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "is invalid"
	}
}
