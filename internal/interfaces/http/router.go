package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/auth"
	appinv "github.com/andyspruebas-jpg/Stock-Pro/internal/application/inventory"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/usecase"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	WarehouseUC *usecase.WarehouseUseCase
	SnapshotUC  *appinv.SnapshotUseCase
	RebalanceUC *appinv.RebalanceUseCase
	NarrativeUC *usecase.NarrativeUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	authGroup := protected.Group("/auth")
	authGroup.Get("/verify", authHandler.Verify)
	authGroup.Put("/profile", authHandler.UpdateProfile)
	authGroup.Post("/users", RequireRole(entity.RoleAdmin), authHandler.CreateUser)

	// Warehouses
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := protected.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Products (snapshot clasificado)
	productHandler := NewProductHandler(deps.SnapshotUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/sync", RequireRole(entity.RoleAdmin, entity.RoleAnalista), productHandler.Sync)
	products.Get("/:id/pending", productHandler.Pending)

	// ABC y pronóstico
	analyticsHandler := NewAnalyticsHandler(deps.RebalanceUC)
	protected.Post("/abc/classify", analyticsHandler.Classify)
	protected.Post("/forecast", analyticsHandler.Forecast)

	// Rebalanceo
	rebalanceHandler := NewRebalanceHandler(deps.RebalanceUC)
	rebalance := protected.Group("/rebalance")
	rebalance.Post("/global", rebalanceHandler.Global)
	rebalance.Post("/pairwise", rebalanceHandler.Pairwise)
	rebalance.Post("/pairwise/report", rebalanceHandler.PairwiseReport)

	// Narrativa IA
	aiHandler := NewAIHandler(deps.NarrativeUC)
	protected.Post("/narrative", aiHandler.Narrate)
}
