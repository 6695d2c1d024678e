package domain

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// emailRe is the address pattern the sign-in, sign-up and contact forms have
// always accepted.
var emailRe = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("site_email", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// fieldMessages maps "field.tag" to the message shown under the form input.
var fieldMessages = map[string]string{
	"name.required":            "Name is required",
	"fullName.required":        "Full name is required",
	"email.required":           "Email is required",
	"email.site_email":         "Invalid email address",
	"organizationId.required":  "Organization ID is required",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 8 characters",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "The passwords do not match",
	"message.required":         "Message is required",
	"message.min":              "Message must be at least 10 characters",
}

// FieldErrors maps a form field name to the first problem found with it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := slices.Sorted(maps.Keys(fe))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// ContactMessage is the "Send Us a Message" form.
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,site_email"`
	Message string `json:"message" validate:"required,min=10"`
}

// SignInForm is the sign-in tab. Accounts do not exist yet, so a valid form is
// only acknowledged.
type SignInForm struct {
	Email      string `json:"email" validate:"required,site_email"`
	Password   string `json:"password" validate:"required,min=8"`
	RememberMe bool   `json:"rememberMe"`
}

// SignUpForm is the sign-up tab. A valid form is recorded as a lead.
type SignUpForm struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,site_email"`
	OrganizationID  string `json:"organizationId" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Validate checks a contact message.
func (m *ContactMessage) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	return validateForm(m)
}

// Validate checks a sign-in form.
func (f *SignInForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return validateForm(f)
}

// Validate checks a sign-up form.
func (f *SignUpForm) Validate() error {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.OrganizationID = strings.TrimSpace(f.OrganizationID)
	return validateForm(f)
}

func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		out[fe.Field()] = msg
	}
	return out
}

// LeadKind identifies which form produced a lead.
type LeadKind string

const (
	LeadContact LeadKind = "contact"
	LeadSignUp  LeadKind = "signup"
)

// Lead is a prospect captured by the site. Passwords never enter a lead.
type Lead struct {
	ID           string    `json:"id"`
	Kind         LeadKind  `json:"kind"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization,omitempty"`
	Message      string    `json:"message,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// NewContactLead builds a lead from a validated contact message.
func NewContactLead(m ContactMessage) Lead {
	return Lead{
		ID:          uuid.NewString(),
		Kind:        LeadContact,
		Name:        m.Name,
		Email:       m.Email,
		Message:     m.Message,
		SubmittedAt: Now(),
	}
}

// NewSignUpLead builds a lead from a validated sign-up form.
func NewSignUpLead(f SignUpForm) Lead {
	return Lead{
		ID:           uuid.NewString(),
		Kind:         LeadSignUp,
		Name:         f.FullName,
		Email:        f.Email,
		Organization: f.OrganizationID,
		SubmittedAt:  Now(),
	}
}
