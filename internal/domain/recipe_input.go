package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Верхние границы совпадают с PositiveSmallIntegerField исходной схемы.
const (
	MaxCookingTime = 32767
	MaxAmount      = 32767
)

// InputInt — целое число из тела запроса. Принимает JSON-число или строку
// с числом ("5", " 5 ", "5.0"). Значение, которое не приводится к целому,
// не ломает разбор всего запроса: Valid остаётся false, и валидатор
// сообщает о нём вместе с остальными нарушениями.
type InputInt struct {
	Value int64
	Valid bool
}

// Int возвращает корректное InputInt со значением v.
func Int(v int64) InputInt {
	return InputInt{Value: v, Valid: true}
}

var trailingZeroFraction = regexp.MustCompile(`\.0*$`)

func (n *InputInt) UnmarshalJSON(data []byte) error {
	*n = InputInt{}
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	raw = trailingZeroFraction.ReplaceAllString(raw, "")
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	*n = Int(v)
	return nil
}

// InRange сообщает, что значение корректно и лежит в [lo, hi].
func (n InputInt) InRange(lo, hi int64) bool {
	return n.Valid && n.Value >= lo && n.Value <= hi
}

// RecipeIngredientInput — ингредиент в теле запроса на создание/изменение рецепта.
type RecipeIngredientInput struct {
	ID     int64    `json:"id"`
	Amount InputInt `json:"amount"`
}

// RecipeInput — тело запроса на создание или изменение рецепта.
// Image передаётся как data URI с base64 (data:image/png;base64,....).
type RecipeInput struct {
	Name        string                  `json:"name" validate:"required,max=200"`
	Text        string                  `json:"text" validate:"required"`
	CookingTime InputInt                `json:"cooking_time"`
	Image       string                  `json:"image"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
	Tags        []int64                 `json:"tags"`
}

// IngredientAmount — проверенная пара (ингредиент, количество).
type IngredientAmount struct {
	IngredientID int64
	Amount       int
}

// DecodedImage — изображение рецепта после декодирования base64.
type DecodedImage struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

// ValidatedRecipe — нормализованный рецепт, готовый к сохранению.
// Image равен nil, если при изменении рецепта картинка не передавалась.
type ValidatedRecipe struct {
	Name        string
	Text        string
	CookingTime int
	Image       *DecodedImage
	Ingredients []IngredientAmount
	TagIDs      []int64
}
