package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Form structs mirror the HTML forms one to one. The validator tags are the
// first validation line; the service layer re-checks its own invariants, so
// nothing depends on the handler being the only caller.

type registerForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Name     string `validate:"required"`
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type postForm struct {
	Title    string `validate:"required,max=250"`
	Subtitle string `validate:"required,max=250"`
	ImgURL   string `validate:"required,url,max=250"`
	Body     string `validate:"required"`
}

type commentForm struct {
	Text string `validate:"required"`
}

// formFieldName maps a service-layer field name (snake_case, as stored) to
// the template's form key (the struct field name).
func formFieldName(field string) string {
	switch field {
	case "title":
		return "Title"
	case "subtitle":
		return "Subtitle"
	case "img_url":
		return "ImgURL"
	case "body":
		return "Body"
	case "text":
		return "Text"
	case "email":
		return "Email"
	case "password":
		return "Password"
	case "name":
		return "Name"
	default:
		return field
	}
}

// formErrors converts a validator error into per-field messages keyed by
// struct field name, for re-rendering the form inline.
func formErrors(err error) map[string]string {
	out := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out[""] = "Invalid input."
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
