package domain

import "regexp"

var (
	tagColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	tagSlugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Tag представляет модель тега,
// соответствует таблице tags в бд
type Tag struct {
	ID    int64  `json:"id" db:"id" gorm:"primaryKey"`
	Name  string `json:"name" db:"name" gorm:"size:200;not null;uniqueIndex"`
	Color string `json:"color" db:"color" gorm:"size:7;not null;uniqueIndex"`
	Slug  string `json:"slug" db:"slug" gorm:"size:200;not null;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}

// ValidTagColor сообщает, является ли строка HEX-цветом вида #RGB или #RRGGBB.
func ValidTagColor(color string) bool {
	return tagColorPattern.MatchString(color)
}

// ValidTagSlug сообщает, годится ли строка в качестве слага.
func ValidTagSlug(slug string) bool {
	return tagSlugPattern.MatchString(slug)
}

// Ingredient представляет ингредиент из справочника,
// соответствует таблице ingredients в бд.
// Пара (name, measurement_unit) уникальна только на уровне загрузчика.
type Ingredient struct {
	ID              int64  `json:"id" db:"id" gorm:"primaryKey"`
	Name            string `json:"name" db:"name" gorm:"size:200;not null;index"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit" gorm:"size:200;not null"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
