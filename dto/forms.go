package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PostForm 은 /edit/:sno 폼 입력이다.
type PostForm struct {
	Title    string `form:"title" validate:"required,max=80"`
	SubTitle string `form:"tline" validate:"omitempty,max=120"`
	Slug     string `form:"slug" validate:"required,max=64"`
	Content  string `form:"content" validate:"required"`
	ImgFile  string `form:"img_file" validate:"omitempty,max=255"`
}

func (f *PostForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.SubTitle = strings.TrimSpace(f.SubTitle)
	f.Slug = strings.TrimSpace(f.Slug)
	f.ImgFile = strings.TrimSpace(f.ImgFile)
}

func (f PostForm) Validate() error { return validate.Struct(f) }

// ContactForm 은 /contact POST 입력이다.
type ContactForm struct {
	Name    string `form:"name" validate:"required,max=80"`
	Email   string `form:"email" validate:"required,email,max=120"`
	Phone   string `form:"phone" validate:"required,max=20"`
	Message string `form:"message" validate:"required,max=2000"`
}

func (f *ContactForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
}

func (f ContactForm) Validate() error { return validate.Struct(f) }

// LoginForm 은 /dashboard POST 입력이다.
type LoginForm struct {
	Username string `form:"uname" validate:"required"`
	Password string `form:"pass" validate:"required"`
}

func (f LoginForm) Validate() error { return validate.Struct(f) }

// ValidationMessages turns validator errors into short messages for templates.
// Non-validation errors come back as a single message.
func ValidationMessages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", field))
		case "email":
			out = append(out, fmt.Sprintf("%s must be a valid email address", field))
		case "max":
			out = append(out, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s is invalid", field))
		}
	}
	return out
}
