package utils

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Hung484/todo-app-frontend-1234/dto"
	"github.com/Hung484/todo-app-frontend-1234/model"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput matches every InputError.
var ErrInvalidInput = errors.New("invalid input")

// Problem is one rejected field with a message fit for display.
type Problem struct {
	Field   string
	Message string
}

// InputError is returned when a request fails local validation. Nothing has
// been sent to the API when it is returned.
type InputError struct {
	Problems []Problem
}

func NewInputError(field, message string) *InputError {
	return &InputError{Problems: []Problem{{Field: field, Message: message}}}
}

func (e *InputError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Message returns the first problem, which is what a form shows.
func (e *InputError) Message() string {
	if len(e.Problems) == 0 {
		return "Invalid input"
	}
	return e.Problems[0].Message
}

const tagReminderBeforeDue = "reminderbeforedue"

var (
	Validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator builds the shared validator with the custom rules. It is
// safe to call more than once.
func InitValidator() {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		RegisterCustomValidators(v)
		Validate = v
	})
}

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("notblank", ValidateNotBlank)
	v.RegisterStructValidation(validateCreateTask, dto.CreateTaskRequest{})
	v.RegisterStructValidation(validateUpdateTask, dto.UpdateTaskRequest{})
}

func ValidateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimFunc(fl.Field().String(), unicode.IsSpace) != ""
}

// ValidateStruct runs the shared validator and converts failures into an
// InputError.
func ValidateStruct(s interface{}) error {
	InitValidator()
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}
	inputErr := &InputError{}
	for _, fe := range verrs {
		inputErr.Problems = append(inputErr.Problems, Problem{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}
	return inputErr
}

func validateCreateTask(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.CreateTaskRequest)
	if req.DueDate != nil && req.ReminderTime != nil && !req.ReminderTime.Before(*req.DueDate) {
		sl.ReportError(req.ReminderTime, "ReminderTime", "ReminderTime", tagReminderBeforeDue, "")
	}
}

func validateUpdateTask(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.UpdateTaskRequest)

	if req.Title.Present() {
		title, ok := req.Title.Get()
		if !ok || strings.TrimSpace(title) == "" {
			sl.ReportError(req.Title, "Title", "Title", "notblank", "")
		}
	}
	if req.Status.Present() {
		status, ok := req.Status.Get()
		if !ok || !status.Valid() {
			sl.ReportError(req.Status, "Status", "Status", "oneof", "pending in_progress completed cancelled")
		}
	}
	if req.Priority.Present() {
		priority, ok := req.Priority.Get()
		if !ok || !priority.Valid() {
			sl.ReportError(req.Priority, "Priority", "Priority", "oneof", "1 2 3")
		}
	}
	if reminderType, ok := req.ReminderType.Get(); ok && !reminderType.Valid() {
		sl.ReportError(req.ReminderType, "ReminderType", "ReminderType", "oneof", "push email")
	}

	due, dueSet := req.DueDate.Get()
	reminder, reminderSet := req.ReminderTime.Get()
	if dueSet && reminderSet && !reminder.Before(due) {
		sl.ReportError(req.ReminderTime, "ReminderTime", "ReminderTime", tagReminderBeforeDue, "")
	}
}

// ValidateSchedule checks the due date and reminder time current would have
// once req is applied. Fields req leaves out keep their stored values.
func ValidateSchedule(current *model.Task, req dto.UpdateTaskRequest) error {
	due := current.DueDate
	if req.DueDate.Present() {
		due = nil
		if v, ok := req.DueDate.Get(); ok {
			due = &v
		}
	}

	var reminder *time.Time
	if current.Reminder != nil {
		reminder = &current.Reminder.ReminderTime
	}
	if req.ReminderTime.Present() {
		reminder = nil
		if v, ok := req.ReminderTime.Get(); ok {
			reminder = &v
		}
	}

	if due != nil && reminder != nil && !reminder.Before(*due) {
		return NewInputError("ReminderTime", "Reminder time must be before the due date")
	}
	return nil
}

var fieldLabels = map[string]string{
	"Username":        "Username",
	"Email":           "Email",
	"Password":        "Password",
	"ConfirmPassword": "Confirm password",
	"Title":           "Title",
	"ListID":          "List",
	"Priority":        "Priority",
	"Status":          "Status",
	"ReminderType":    "Reminder type",
	"ReminderTime":    "Reminder time",
}

func describe(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "email":
		return "Enter a valid email"
	case "eqfield":
		return "Passwords must match"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case tagReminderBeforeDue:
		return "Reminder time must be before the due date"
	}
	return label + " is invalid"
}
