package shared

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var (
	personNamePattern = regexp.MustCompile(`^[a-zA-Z ]{3,26}$`)
	cnicPattern       = regexp.MustCompile(`^[0-9]{5}-[0-9]{7}-[0-9]$`)
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9_.-]*[a-zA-Z0-9]+@(([a-zA-Z0-9-]){3,30}\.)+([a-zA-Z0-9]{2,5})$`)
	repeatedSymbols   = regexp.MustCompile(`[-_.]{2}`)
	phonePattern      = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

const passwordSymbols = "$&+,:;=?@#|'<>.^*()_%!-"

// Validator validates request payloads with the struct tags used across the API.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the custom tags used by request payloads.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("strictemail", func(fl validator.FieldLevel) bool {
		return IsStrictEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cnic", func(fl validator.FieldLevel) bool {
		return cnicPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return IsCountryName(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates s and converts failures into a ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return NewValidationError(fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "strictemail", "email":
		return "must be a valid email address"
	case "personname":
		return "must be 3 to 26 letters or spaces"
	case "cnic":
		return "must look like 12345-1234567-1"
	case "country":
		return "must be a valid country name"
	case "phone":
		return "must be a valid phone number"
	case "password":
		return "must be at least 8 characters with upper and lower case letters, a number and a symbol"
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// IsStrictEmail applies the account email rules: the address shape plus no
// consecutive '-', '_' or '.' characters.
func IsStrictEmail(s string) bool {
	return emailPattern.MatchString(s) && !repeatedSymbols.MatchString(s)
}

// IsStrongPassword requires at least 8 characters drawn from letters, digits
// and passwordSymbols, with one of each class present.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

var (
	countriesOnce sync.Once
	countries     map[string]struct{}
)

// IsCountryName reports whether s is the English name of an ISO 3166 country,
// compared case-insensitively.
func IsCountryName(s string) bool {
	countriesOnce.Do(loadCountries)
	_, ok := countries[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func loadCountries() {
	countries = make(map[string]struct{}, 256)
	namer := display.English.Regions()
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			region, err := language.ParseRegion(string([]rune{a, b}))
			if err != nil || !region.IsCountry() {
				continue
			}
			if name := namer.Name(region); name != "" {
				countries[strings.ToLower(name)] = struct{}{}
			}
		}
	}
}
