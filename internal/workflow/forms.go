package workflow

import (
	"errors"  // Unwrapping validator errors
	"reflect" // Field tag lookup
	"strconv" // Student ID parsing
	"strings" // Tag parsing

	"dorm_booking/internal/domain" // Importing domain models

	"github.com/go-playground/validator/v10" // Struct validation
)

// Messages shown for failed validations, keyed by form field
var fieldMessages = map[string]string{
	"student_id":          "Student ID is required.",
	"first_name":          "First Name is required.",
	"last_name":           "Last Name is required.",
	"email":               "Email is required.",
	"telephone":           "Telephone number is required.",
	"gender":              "Gender is required.",
	"education_level":     "Level of Education is required.",
	"program_type":        "Program Type is required.",
	"reason_for_applying": "Reason for applying is required.",
	"agreement":           "You must accept the agreement.",
}

// Labels used in length messages, keyed by form field
var fieldLabels = map[string]string{
	"first_name":      "First Name",
	"last_name":       "Last Name",
	"middle_name":     "Middle Name",
	"email":           "Email",
	"telephone":       "Telephone number",
	"gender":          "Gender",
	"education_level": "Level of Education",
	"program_type":    "Program Type",
}

const (
	msgInvalidEmail     = "Enter a valid email address."
	msgInvalidStudentID = "Student ID must be a number."
	msgForeignStudentID = "You cannot book a room using a student ID different from the one you used to log in"
	MsgAlreadyApplied   = "You've already booked the selected room"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form name so messages line up with the inputs
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ApplicationForm is the booking form submitted by a student
type ApplicationForm struct {
	StudentID              string `form:"student_id" validate:"required,number"`
	FirstName              string `form:"first_name" validate:"required,max=100"`
	LastName               string `form:"last_name" validate:"required,max=100"`
	MiddleName             string `form:"middle_name" validate:"max=100"`
	Email                  string `form:"email" validate:"required,contains=@,max=150"`
	Telephone              string `form:"telephone" validate:"required,max=15"`
	Gender                 string `form:"gender" validate:"required,max=10"`
	EducationLevel         string `form:"education_level" validate:"required,max=50"`
	ProgramType            string `form:"program_type" validate:"required,max=50"`
	ReasonForApplying      string `form:"reason_for_applying" validate:"required"`
	CoCurricularActivities string `form:"co_curricular_activities"`
	Agreement              string `form:"agreement" validate:"required"`
}

// FormFromApplication pre-fills the form with a stored application
func FormFromApplication(app domain.Application) ApplicationForm {
	f := ApplicationForm{
		StudentID:              strconv.FormatInt(app.StudentID, 10),
		FirstName:              app.FirstName,
		LastName:               app.LastName,
		MiddleName:             app.MiddleName,
		Email:                  app.Email,
		Telephone:              app.Telephone,
		Gender:                 app.Gender,
		EducationLevel:         app.EducationLevel,
		ProgramType:            app.ProgramType,
		ReasonForApplying:      app.ReasonForApplying,
		CoCurricularActivities: app.CoCurricularActivities,
	}
	if app.Agreement {
		f.Agreement = "on"
	}
	return f
}

// Validate checks every field and that the form is filed under the caller's own student ID.
// All problems are reported together.
func (f ApplicationForm) Validate(callerID int64) ValidationErrors {
	errs := ValidationErrors{}
	collect(errs, validate.Struct(f))

	if _, bad := errs["student_id"]; !bad {
		id, err := strconv.ParseInt(f.StudentID, 10, 64)
		if err != nil {
			errs["student_id"] = msgInvalidStudentID
		} else if id != callerID {
			errs["student_id"] = msgForeignStudentID
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// apply copies the mutable form fields onto app
func (f ApplicationForm) apply(app *domain.Application) {
	app.FirstName = f.FirstName
	app.LastName = f.LastName
	app.MiddleName = f.MiddleName
	app.Email = f.Email
	app.Telephone = f.Telephone
	app.Gender = f.Gender
	app.EducationLevel = f.EducationLevel
	app.ProgramType = f.ProgramType
	app.ReasonForApplying = f.ReasonForApplying
	app.CoCurricularActivities = f.CoCurricularActivities
	app.Agreement = f.Agreement != ""
}

// collect turns validator output into per-field messages
func collect(errs ValidationErrors, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		field := fe.Field()
		switch {
		case field == "email" && fe.Tag() == "contains":
			errs[field] = msgInvalidEmail
		case field == "student_id" && fe.Tag() == "number":
			errs[field] = msgInvalidStudentID
		case fe.Tag() == "max":
			errs[field] = fieldLabels[field] + " must be at most " + fe.Param() + " characters."
		default:
			if msg, ok := fieldMessages[field]; ok {
				errs[field] = msg
			} else {
				errs[field] = field + " is invalid."
			}
		}
	}
}
