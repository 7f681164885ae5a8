package types

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

// QueryParams is the body of an ask request. Board, Class and Subject are
// optional retrieval filters.
type QueryParams struct {
	Prompt  string `json:"prompt" validate:"required"`
	Board   string `json:"board,omitempty"`
	Class   string `json:"class,omitempty"`
	Subject string `json:"subject,omitempty"`
	TopK    int    `json:"top_k,omitempty" validate:"omitempty,min=1,max=20"`
}

// SuggestParams is the body of a practice-question suggestion request.
type SuggestParams struct {
	Topic   string `json:"topic" validate:"required"`
	Count   int    `json:"count,omitempty" validate:"omitempty,min=1,max=10"`
	Board   string `json:"board,omitempty"`
	Class   string `json:"class,omitempty"`
	Subject string `json:"subject,omitempty"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *QueryParams) Validate() map[string]string {
	return validateStruct(params)
}

func (params *SuggestParams) Validate() map[string]string {
	return validateStruct(params)
}

func validateStruct(v any) map[string]string {
	validate := validator.New()
	if err := validate.Struct(v); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: http.StatusUnprocessableEntity,
		Errors: errors,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

type AnswerResponse struct {
	Answer     string    `json:"answer"`
	Sources    []Source  `json:"sources"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

type Source struct {
	DocID   string `json:"doc_id"`
	Title   string `json:"title"`
	Board   string `json:"board"`
	Subject string `json:"subject"`
	Class   string `json:"class"`
	Chapter string `json:"chapter"`
	Index   int    `json:"index"`
}

type SuggestResponse struct {
	Topic     string    `json:"topic"`
	Questions []string  `json:"questions"`
	Timestamp time.Time `json:"timestamp"`
}
