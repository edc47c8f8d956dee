package handler

import (
	"github.com/GoArmGo/Foodgram/internal/domain"
)

// ImageURLs строит публичный URL картинки по ключу объекта.
type ImageURLs interface {
	ObjectURL(key string) string
}

type userResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// registeredUserResponse — ответ на регистрацию, без отметки подписки.
type registeredUserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type recipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type recipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []domain.Tag               `json:"tags"`
	Author           *userResponse              `json:"author"`
	Ingredients      []recipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

type recipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type subscriptionResponse struct {
	userResponse
	Recipes      []recipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func userView(d domain.UserDetails) userResponse {
	return userResponse{
		ID:           d.User.ID,
		Email:        d.User.Email,
		Username:     d.User.Username,
		FirstName:    d.User.FirstName,
		LastName:     d.User.LastName,
		IsSubscribed: d.IsSubscribed,
	}
}

func registeredUserView(u domain.User) registeredUserResponse {
	return registeredUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func recipeRead(d domain.RecipeDetails, images ImageURLs) recipeResponse {
	r := d.Recipe

	var author *userResponse
	if r.Author != nil {
		view := userView(domain.UserDetails{User: *r.Author, IsSubscribed: d.IsAuthorSubscribed})
		author = &view
	}

	ingredients := make([]recipeIngredientResponse, 0, len(r.Ingredients))
	for _, item := range r.Ingredients {
		ingredients = append(ingredients, recipeIngredientResponse{
			ID:              item.IngredientID,
			Name:            item.Ingredient.Name,
			MeasurementUnit: item.Ingredient.MeasurementUnit,
			Amount:          item.Amount,
		})
	}

	return recipeResponse{
		ID:               r.ID,
		Tags:             orEmpty(r.Tags),
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      d.IsFavorited,
		IsInShoppingCart: d.IsInShoppingCart,
		Name:             r.Name,
		Image:            images.ObjectURL(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func recipeShort(r domain.Recipe, images ImageURLs) recipeShortResponse {
	return recipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       images.ObjectURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

// subscriptionView — автор из подписок; is_subscribed всегда true.
func subscriptionView(s domain.Subscription, images ImageURLs) subscriptionResponse {
	recipes := make([]recipeShortResponse, 0, len(s.Recipes))
	for _, r := range s.Recipes {
		recipes = append(recipes, recipeShort(r, images))
	}
	return subscriptionResponse{
		userResponse: userView(domain.UserDetails{User: s.Author, IsSubscribed: true}),
		Recipes:      recipes,
		RecipesCount: s.RecipesCount,
	}
}
