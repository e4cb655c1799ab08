package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type PostRequest struct {
	Title       string `form:"title" validate:"required,max=256"`
	Text        string `form:"text" validate:"required"`
	PubDate     time.Time
	IsPublished bool
	CategoryID  int64  `form:"category" validate:"required,gt=0"`
	LocationID  *int64 `form:"location" validate:"omitempty,gt=0"`
}

type CommentRequest struct {
	Text string `form:"text" validate:"required"`
}

type RegisterRequest struct {
	Username  string `form:"username" validate:"required,max=150,username,unreserved"`
	Email     string `form:"email" validate:"omitempty,email"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Password  string `form:"password" validate:"required,min=8,max=128"`
}

type ProfileRequest struct {
	Username  string `form:"username" validate:"required,max=150,username,unreserved"`
	Email     string `form:"email" validate:"omitempty,email"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
}

type CategoryRequest struct {
	Title       string `form:"title" validate:"required,max=256"`
	Description string `form:"description" validate:"required"`
	Slug        string `form:"slug" validate:"required,max=64,slug"`
	IsPublished bool
}

type LocationRequest struct {
	Name        string `form:"name" validate:"required,max=256"`
	IsPublished bool
}

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	// reservedUsernames collide with static routes under /profile/.
	reservedUsernames = map[string]struct{}{"edit": {}}

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("unreserved", func(fl validator.FieldLevel) bool {
		_, taken := reservedUsernames[strings.ToLower(fl.Field().String())]
		return !taken
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// validateRequest runs struct validation and converts failures into a
// ValidationError keyed by form field name.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, ok := out.Fields[fe.Field()]; ok {
			continue
		}
		out.Fields[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "gt":
		return "Select a valid choice."
	case "username":
		return "Enter a valid username. It may contain only letters, numbers, and @/./+/-/_ characters."
	case "unreserved":
		return "This username is reserved."
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	default:
		return "Enter a valid value."
	}
}

func normalizePostRequest(req PostRequest) PostRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.Text = strings.TrimSpace(req.Text)
	if req.LocationID != nil && *req.LocationID == 0 {
		req.LocationID = nil
	}
	return req
}
