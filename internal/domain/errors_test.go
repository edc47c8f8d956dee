package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationFailureErr(t *testing.T) {
	var f ValidationFailure
	if err := f.Err(); err != nil {
		t.Fatalf("Err() on empty failure = %v, want nil", err)
	}

	f.Add(EmptyTagList, "tags", "Нужно выбрать хотя бы один тег!")
	f.Add(InvalidCookingTime, "cooking_time", "Время приготовления должно быть не меньше минуты!")

	err := fmt.Errorf("create recipe: %w", f.Err())
	var got *ValidationFailure
	if !errors.As(err, &got) {
		t.Fatalf("errors.As() did not find *ValidationFailure in %v", err)
	}
	if !got.Has(EmptyTagList) || !got.Has(InvalidCookingTime) || got.Has(UnknownTag) {
		t.Errorf("Has() reports wrong kinds: %+v", got.Violations)
	}
	if want := "validation failed: EmptyTagList(tags), InvalidCookingTime(cooking_time)"; got.Error() != want {
		t.Errorf("Error() = %q, want %q", got.Error(), want)
	}
}

func TestRuleErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("favorite: %w", NewRuleError(ErrAlreadyExists, "Рецепт уже добавлен в избранное!"))

	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("errors.Is(%v, ErrAlreadyExists) = false", err)
	}
	var rule *RuleError
	if !errors.As(err, &rule) || rule.Message != "Рецепт уже добавлен в избранное!" {
		t.Errorf("errors.As() = %+v", rule)
	}
}
