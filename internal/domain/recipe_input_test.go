package domain

import (
	"encoding/json"
	"testing"
)

func TestInputIntUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want InputInt
	}{
		{`5`, Int(5)},
		{`-3`, Int(-3)},
		{`"12"`, Int(12)},
		{`" 7 "`, Int(7)},
		{`2.0`, Int(2)},
		{`"4.00"`, Int(4)},
		{`3000000000`, Int(3_000_000_000)},
		{`1.5`, InputInt{}},
		{`"abc"`, InputInt{}},
		{`""`, InputInt{}},
		{`1e3`, InputInt{}},
		{`true`, InputInt{}},
		{`[1]`, InputInt{}},
		{`{"v":1}`, InputInt{}},
		{`null`, InputInt{}},
		{`99999999999999999999`, InputInt{}},
	}
	for _, tt := range tests {
		var got struct {
			N InputInt `json:"n"`
		}
		if err := json.Unmarshal([]byte(`{"n":`+tt.raw+`}`), &got); err != nil {
			t.Errorf("Unmarshal(%s) error = %v, want nil", tt.raw, err)
			continue
		}
		if got.N != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.raw, got.N, tt.want)
		}
	}
}

func TestRecipeInputKeepsDecodingPastBadNumbers(t *testing.T) {
	body := `{"name":"Soup","cooking_time":1.5,"ingredients":[{"id":3,"amount":"abc"},{"id":4,"amount":"10"}],"tags":[1]}`

	var in RecipeInput
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if in.Name != "Soup" || in.CookingTime.Valid {
		t.Errorf("name = %q, cooking_time = %+v", in.Name, in.CookingTime)
	}
	if len(in.Ingredients) != 2 || in.Ingredients[0].Amount.Valid || in.Ingredients[1].Amount != Int(10) {
		t.Errorf("ingredients = %+v", in.Ingredients)
	}
}

func TestInputIntInRange(t *testing.T) {
	if !Int(1).InRange(1, MaxAmount) || !Int(MaxAmount).InRange(1, MaxAmount) {
		t.Error("bounds must be inclusive")
	}
	if Int(0).InRange(1, MaxAmount) || Int(MaxAmount+1).InRange(1, MaxAmount) {
		t.Error("values outside bounds accepted")
	}
	if (InputInt{}).InRange(0, MaxAmount) {
		t.Error("invalid value accepted")
	}
}
