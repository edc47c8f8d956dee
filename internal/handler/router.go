package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/Foodgram/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig собирает зависимости HTTP-слоя.
type RouterConfig struct {
	Recipes      usecase.RecipeUseCase
	Social       usecase.SocialUseCase
	ShoppingList usecase.ShoppingListUseCase
	Users        usecase.UserUseCase
	Catalog      usecase.CatalogUseCase
	Images       ImageURLs

	UploadLimiter      chan struct{}
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	// LoginRateLimit — число попыток входа с одного IP в минуту.
	LoginRateLimit int

	Logger *slog.Logger
}

// NewRouter строит chi-роутер со всеми маршрутами /api и /metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	recipeHandler := NewRecipeHandler(cfg.Recipes, cfg.Social, cfg.ShoppingList, cfg.Images, cfg.UploadLimiter, cfg.Logger)
	userHandler := NewUserHandler(cfg.Users, cfg.Social, cfg.Images, cfg.Logger)
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.Logger)

	requireAuth := RequireAuth(cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondNotFound(w, cfg.Logger)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "Метод не разрешён.", cfg.Logger)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(cfg.Users, cfg.Logger))

		r.Route("/auth/token", func(r chi.Router) {
			r.With(httprate.Limit(
				cfg.LoginRateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					respondWithError(w, http.StatusTooManyRequests, "Throttled", "Слишком много попыток входа, повторите позже.", cfg.Logger)
				}),
			)).Post("/login", userHandler.Login)
			r.With(requireAuth).Post("/logout", userHandler.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.Register)
			r.With(requireAuth).Get("/me", userHandler.Me)
			r.With(requireAuth).Post("/set_password", userHandler.SetPassword)
			r.With(requireAuth).Get("/subscriptions", userHandler.Subscriptions)
			r.Get("/{id}", userHandler.GetUser)
			r.With(requireAuth).Post("/{id}/subscribe", userHandler.Subscribe)
			r.With(requireAuth).Delete("/{id}/subscribe", userHandler.Unsubscribe)
		})

		r.Get("/tags", catalogHandler.ListTags)
		r.Get("/tags/{id}", catalogHandler.GetTag)
		r.Get("/ingredients", catalogHandler.SearchIngredients)
		r.Get("/ingredients/{id}", catalogHandler.GetIngredient)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipeHandler.ListRecipes)
			r.With(requireAuth).Post("/", recipeHandler.CreateRecipe)
			r.With(requireAuth).Get("/download_shopping_cart", recipeHandler.DownloadShoppingCart)
			r.Get("/{id}", recipeHandler.GetRecipe)
			r.With(requireAuth).Patch("/{id}", recipeHandler.UpdateRecipe)
			r.With(requireAuth).Delete("/{id}", recipeHandler.DeleteRecipe)
			r.With(requireAuth).Post("/{id}/favorite", recipeHandler.AddFavorite)
			r.With(requireAuth).Delete("/{id}/favorite", recipeHandler.RemoveFavorite)
			r.With(requireAuth).Post("/{id}/shopping_cart", recipeHandler.AddToShoppingCart)
			r.With(requireAuth).Delete("/{id}/shopping_cart", recipeHandler.RemoveFromShoppingCart)
		})
	})

	return r
}
