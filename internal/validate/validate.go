// Package validate holds the field rules applied to records before they are
// written, built on ozzo-validation: text presence, email and phone formats,
// and cross-field checks.
package validate

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe  = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	nonDigit = regexp.MustCompile(`\D`)
)

var (
	ErrEmail       = validation.NewError("validation_email", "Invalid email")
	ErrPhoneDigits = validation.NewError("validation_phone_digits", "Phone number must be 10 digits")
	ErrPhoneFormat = validation.NewError("validation_phone_format", "Phone number must be in a 123-456-7890 format")
	ErrBlank       = validation.NewError("validation_blank", "cannot be blank")
)

// Email accepts an empty value or an email address.
var Email = validation.Match(emailRe).ErrorObject(ErrEmail)

// NotBlank rejects values made only of whitespace. Combine it with
// validation.Required to reject empty values too.
var NotBlank = validation.NewStringRuleWithError(func(s string) bool {
	return strings.TrimSpace(s) != ""
}, ErrBlank)

// Phone accepts an empty value or a 123-456-7890 phone number. Input without
// any digit counts as empty.
var Phone = validation.By(func(value any) error {
	v, isNil := validation.Indirect(value)
	s, _ := v.(string)
	if isNil || Digits(s) == "" {
		return nil
	}
	if len(Digits(s)) != 10 {
		return ErrPhoneDigits
	}
	if !phoneRe.MatchString(s) {
		return ErrPhoneFormat
	}
	return nil
})

// Check fails with msg when ok is false. It carries checks that compare
// several fields.
func Check(ok bool, msg string) validation.Rule {
	return validation.By(func(any) error {
		if ok {
			return nil
		}
		return validation.NewError("validation_check", msg)
	})
}

// Digits strips every non-digit character from s.
func Digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// FormatPhone formats partial input as it is typed: "123", "123-456",
// "123-456-7", and caps complete numbers at ten digits.
func FormatPhone(s string) string {
	d := Digits(s)
	switch n := len(d); {
	case n == 0:
		return ""
	case n <= 3:
		return d
	case n <= 6:
		return d[:3] + "-" + d[3:]
	case n >= 10:
		return d[:3] + "-" + d[3:6] + "-" + d[6:10]
	default:
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	}
}

// FormatPhonePtr formats *s in place when it is set.
func FormatPhonePtr(s *string) {
	if s != nil {
		*s = FormatPhone(*s)
	}
}
