package api

import (
	"errors"  // Unwrapping validator errors
	"reflect" // Field tag lookup
	"strconv" // ID parsing
	"strings" // Tag parsing

	"github.com/go-playground/validator/v10" // Struct validation
)

// AccountForm is the student sign-up and staff creation form
type AccountForm struct {
	FirstName       string `form:"first_name" validate:"required,max=150" label:"First Name"`
	LastName        string `form:"last_name" validate:"required,max=150" label:"Last Name"`
	UserID          string `form:"user_id" validate:"required,number" label:"ID number"`
	Email           string `form:"email" validate:"required,email,max=150" label:"Email"`
	Role            string `form:"role" validate:"omitempty,oneof=Admin IT" label:"Role"`
	Password        string `form:"password" validate:"required,min=8,max=72" label:"Password"` // bcrypt input limit
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password" label:"Confirm Password"`
}

// RoomSearchForm filters the room search; empty fields are ignored
type RoomSearchForm struct {
	RoomType     string `form:"room_type" label:"Room type"`
	Dormitory    string `form:"dormitory" validate:"omitempty,number" label:"Building"`
	Level        string `form:"level" validate:"omitempty,number" label:"Floor"`
	Availability string `form:"availability" validate:"omitempty,oneof=now" label:"Availability"`
}

// ApplicationSearchForm filters the staff application search
type ApplicationSearchForm struct {
	StudentID string `form:"student_id" validate:"omitempty,number" label:"Student ID"`
	RoomID    string `form:"room_id" validate:"omitempty,number" label:"Room"`
	Status    string `form:"status" label:"Status"`
	Name      string `form:"name" label:"Name"`
	Email     string `form:"email" label:"Email"`
}

// EmailTemplateForm creates or replaces the template for a status
type EmailTemplateForm struct {
	Status  string `form:"status" validate:"required" label:"Status"`
	Subject string `form:"subject" validate:"required,max=200" label:"Subject"`
	Body    string `form:"body" validate:"required" label:"Body"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	})
	return v
}

// validateForm returns one message per invalid field, keyed by form name
func validateForm(form any) map[string]string {
	errs := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(validate.Struct(form), &verrs) {
		return errs
	}
	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, fe := range verrs {
		label := fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			label = sf.Tag.Get("label")
		}
		errs[fe.Field()] = message(label, fe)
	}
	return errs
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "number":
		return label + " must be a whole number."
	case "email":
		return "Enter a valid email address."
	case "min":
		return label + " must be at least " + fe.Param() + " characters."
	case "max":
		return label + " must be at most " + fe.Param() + " characters."
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return label + " must be one of: " + fe.Param() + "."
	}
	return label + " is invalid."
}

// parseID converts a validated digit string. Overflow is recorded against the
// field; empty or already invalid fields report false.
func parseID(errs map[string]string, field, label, s string, bitSize int) (int64, bool) {
	if _, bad := errs[field]; bad || s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, bitSize)
	if err != nil {
		errs[field] = label + " is out of range."
		return 0, false
	}
	return v, true
}
