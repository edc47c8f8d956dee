package domain

import (
	"fmt"
	"iter"
	"strings"
)

const (
	ShoppingListHeader   = "Shopping list:"
	ShoppingListFilename = "Shopping list.txt"
)

// ShoppingListItem — одна строка списка покупок:
// суммарное количество ингредиента с данным названием и единицей измерения.
type ShoppingListItem struct {
	Name            string `json:"name" db:"name"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount" db:"total_amount"`
}

func (i ShoppingListItem) String() string {
	return fmt.Sprintf("%s (%s) - %d", i.Name, i.MeasurementUnit, i.TotalAmount)
}

// ShoppingList — результат агрегации корзины. Значение неизменяемо,
// его можно обходить сколько угодно раз.
type ShoppingList struct {
	items []ShoppingListItem
}

func NewShoppingList(items []ShoppingListItem) ShoppingList {
	copied := make([]ShoppingListItem, len(items))
	copy(copied, items)
	return ShoppingList{items: copied}
}

// All возвращает итератор по строкам списка.
func (l ShoppingList) All() iter.Seq[ShoppingListItem] {
	return func(yield func(ShoppingListItem) bool) {
		for _, item := range l.items {
			if !yield(item) {
				return
			}
		}
	}
}

func (l ShoppingList) Len() int {
	return len(l.items)
}

// Render формирует текстовый файл: заголовок и по строке на ингредиент.
func (l ShoppingList) Render() string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	for item := range l.All() {
		b.WriteString("\n")
		b.WriteString(item.String())
	}
	return b.String()
}
