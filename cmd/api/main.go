package main

import (
	"log"
	"net/http"

	_ "tiendarec-tf/docs" // swagger docs

	"tiendarec-tf/internal/cache"
	"tiendarec-tf/internal/config"
	"tiendarec-tf/internal/db"
	"tiendarec-tf/internal/engine"
	"tiendarec-tf/internal/handler"
	"tiendarec-tf/internal/repository"
	"tiendarec-tf/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title TiendaRec API
// @version 1.0
// @description Recomendador híbrido de productos (CF + contenido + populares)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// motor de recomendaciones: carga perezosa, el primer request
	// dispara la lectura del artefacto
	eng := engine.New(cfg.ModelPath)

	// repos
	userRepo := repository.NewUserRepository()
	recRepo := repository.NewRecommendationRepository()

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	recSvc := service.NewRecommendService(eng, recRepo)
	prodSvc := service.NewProductService(eng)
	modelSvc := service.NewModelService(eng)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	recH := handler.NewRecommendHandler(recSvc)
	prodH := handler.NewProductHandler(prodSvc)
	modelH := handler.NewModelAdminHandler(modelSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// Catálogo (público)
	r.Get("/products/top", prodH.Top)
	r.Get("/products/{id}", prodH.GetProduct)
	r.Get("/categories", prodH.Categories)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Post("/recommendations", recH.PostRecommendations)
		r.Get("/ws/recommendations", recH.GetRecommendationsWS)
		r.Get("/me/recommendations", recH.GetHistory)

		// ---- Solo ADMIN: mantenimiento del modelo ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())
			handler.MountModelAdminRoutes(r, modelH)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
