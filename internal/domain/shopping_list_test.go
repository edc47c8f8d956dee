package domain

import "testing"

func TestShoppingListRender(t *testing.T) {
	tests := []struct {
		name  string
		items []ShoppingListItem
		want  string
	}{
		{
			name: "empty cart",
			want: "Shopping list:",
		},
		{
			name:  "single item",
			items: []ShoppingListItem{{Name: "Flour", MeasurementUnit: "g", TotalAmount: 500}},
			want:  "Shopping list:\nFlour (g) - 500",
		},
		{
			name: "several items",
			items: []ShoppingListItem{
				{Name: "Sugar", MeasurementUnit: "g", TotalAmount: 125},
				{Name: "Sugar", MeasurementUnit: "kg", TotalAmount: 1},
			},
			want: "Shopping list:\nSugar (g) - 125\nSugar (kg) - 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewShoppingList(tt.items).Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShoppingListCanBeIteratedTwice(t *testing.T) {
	items := []ShoppingListItem{
		{Name: "Egg", MeasurementUnit: "pcs", TotalAmount: 3},
		{Name: "Milk", MeasurementUnit: "ml", TotalAmount: 250},
	}
	list := NewShoppingList(items)
	items[0].TotalAmount = 100

	count := func() (n int, sum int64) {
		for item := range list.All() {
			n++
			sum += item.TotalAmount
		}
		return n, sum
	}

	n1, sum1 := count()
	n2, sum2 := count()
	if n1 != 2 || n2 != 2 || sum1 != 253 || sum2 != 253 {
		t.Errorf("iterations = (%d, %d) and (%d, %d), want (2, 253) twice", n1, sum1, n2, sum2)
	}
	if list.Len() != 2 {
		t.Errorf("Len() = %d, want 2", list.Len())
	}
}

func TestShoppingListStopsEarly(t *testing.T) {
	list := NewShoppingList([]ShoppingListItem{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	seen := 0
	for range list.All() {
		seen++
		break
	}
	if seen != 1 {
		t.Errorf("seen = %d, want 1", seen)
	}
}
