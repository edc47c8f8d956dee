package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrSelfFollowNotAllowed = errors.New("self follow not allowed")
	ErrUnknownReference     = errors.New("unknown reference")
	ErrForbidden            = errors.New("forbidden")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)

// RuleError связывает нарушенное правило (одну из ошибок выше)
// с сообщением, которое можно показать клиенту.
type RuleError struct {
	Err     error
	Message string
}

func NewRuleError(err error, message string) *RuleError {
	return &RuleError{Err: err, Message: message}
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Message)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// ViolationKind — машиночитаемый вид нарушения правил рецепта.
type ViolationKind string

const (
	EmptyIngredientList ViolationKind = "EmptyIngredientList"
	UnknownIngredient   ViolationKind = "UnknownIngredient"
	DuplicateIngredient ViolationKind = "DuplicateIngredient"
	InvalidAmount       ViolationKind = "InvalidAmount"
	EmptyTagList        ViolationKind = "EmptyTagList"
	UnknownTag          ViolationKind = "UnknownTag"
	DuplicateTag        ViolationKind = "DuplicateTag"
	InvalidCookingTime  ViolationKind = "InvalidCookingTime"
	InvalidImage        ViolationKind = "InvalidImage"
	InvalidField        ViolationKind = "InvalidField"
)

// Violation — одно нарушенное правило.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Field   string        `json:"field"`
	Message string        `json:"message"`
}

// ValidationFailure перечисляет все нарушения, найденные в одном запросе.
type ValidationFailure struct {
	Violations []Violation
}

func (f *ValidationFailure) Add(kind ViolationKind, field, message string) {
	f.Violations = append(f.Violations, Violation{Kind: kind, Field: field, Message: message})
}

// Has сообщает, есть ли среди нарушений нарушение данного вида.
func (f *ValidationFailure) Has(kind ViolationKind) bool {
	for _, v := range f.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// Err возвращает nil, если нарушений нет.
func (f *ValidationFailure) Err() error {
	if f == nil || len(f.Violations) == 0 {
		return nil
	}
	return f
}

func (f *ValidationFailure) Error() string {
	parts := make([]string, 0, len(f.Violations))
	for _, v := range f.Violations {
		parts = append(parts, fmt.Sprintf("%s(%s)", v.Kind, v.Field))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
