package router

import (
	"time"

	"eventpos/internal/config"
	"eventpos/internal/handler"
	"eventpos/internal/middleware"
	"eventpos/internal/model"
	"eventpos/internal/repository"
	"eventpos/internal/service"
	"eventpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	productRepo := repository.NewProductRepository(db)
	supplyRepo := repository.NewSupplyRepository(db)
	productInvRepo := repository.NewProductInventoryRepository(db)
	supplyInvRepo := repository.NewSupplyInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	alerts := worker.NewStockAlertWorker(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	eventSvc := service.NewEventService(eventRepo)
	productSvc := service.NewProductService(productRepo, supplyRepo)
	supplySvc := service.NewSupplyService(supplyRepo, productRepo)
	productInvSvc := service.NewProductInventoryService(productInvRepo, supplyInvRepo, eventRepo, productRepo, dispatcher)
	supplyInvSvc := service.NewSupplyInventoryService(supplyInvRepo, eventRepo, supplyRepo, dispatcher)
	orderSvc := service.NewOrderService(orderRepo, saleRepo, eventRepo, productInvRepo)
	kitchenSvc := service.NewKitchenService(orderRepo, productInvRepo, supplyInvRepo, productRepo, dispatcher)
	saleSvc := service.NewSaleService(saleRepo, eventRepo)
	statsSvc := service.NewStatsService(eventRepo, orderRepo, saleRepo, productInvRepo, supplyInvRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	eventsH := handler.NewEventsHandler(eventSvc)
	productsH := handler.NewProductsHandler(productSvc)
	suppliesH := handler.NewSuppliesHandler(supplySvc)
	inventoryH := handler.NewInventoryHandler(productInvSvc, supplyInvSvc, alerts)
	ordersH := handler.NewOrdersHandler(orderSvc)
	kitchenH := handler.NewKitchenHandler(kitchenSvc)
	salesH := handler.NewSalesHandler(saleSvc, statsSvc)
	menuH := handler.NewMenuHandler(eventSvc, productInvSvc, rdb,
		time.Duration(cfg.MenuCacheTTLSeconds)*time.Second)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/v1/events/:id/menu", menuH.GetMenu)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleCajero, model.RoleCocina)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Events — reads for every role, lifecycle writes admin-only
		v1.GET("/events", anyRole, eventsH.List)
		v1.GET("/events/:id", anyRole, eventsH.Get)
		events := v1.Group("/events", adminOnly)
		{
			events.POST("", eventsH.Create)
			events.PUT("/:id", eventsH.Update)
			events.PATCH("/:id/activate", eventsH.Activate)
			events.PATCH("/:id/deactivate", eventsH.Deactivate)
			events.PATCH("/:id/close", eventsH.Close)
			events.DELETE("/:id", eventsH.Remove)
		}

		// Product catalog — kitchen reads recipes, only admin writes
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/search", anyRole, productsH.Search)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.GET("/products/:id/supplies", anyRole, productsH.GetSupplies)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Remove)
			prods.POST("/:id/supplies", productsH.AssignSupplies)
			prods.PUT("/:id/supplies/:supply_id", productsH.UpdateSupplyQuantity)
			prods.DELETE("/:id/supplies/:supply_id", productsH.RemoveSupply)
		}

		// Supply catalog
		v1.GET("/supplies", anyRole, suppliesH.List)
		v1.GET("/supplies/search", anyRole, suppliesH.Search)
		v1.GET("/supplies/:id", anyRole, suppliesH.Get)
		v1.GET("/supplies/:id/products", anyRole, suppliesH.GetProducts)
		sups := v1.Group("/supplies", adminOnly)
		{
			sups.POST("", suppliesH.Create)
			sups.PUT("/:id", suppliesH.Update)
			sups.DELETE("/:id", suppliesH.Remove)
		}

		// Event inventories — loaded and corrected by the back office; the
		// kitchen reads stock levels to know what it can still prepare.
		kitchenRead := middleware.RequireRole(model.RoleAdmin, model.RoleCocina)
		v1.GET("/events/:id/inventory/products", kitchenRead, inventoryH.ListProducts)
		v1.GET("/events/:id/inventory/products/:product_id", kitchenRead, inventoryH.GetProduct)
		v1.GET("/events/:id/inventory/supplies", kitchenRead, inventoryH.ListSupplies)
		v1.GET("/events/:id/inventory/supplies/:supply_id", kitchenRead, inventoryH.GetSupply)
		inv := v1.Group("/events/:id/inventory", adminOnly)
		{
			inv.POST("/products", inventoryH.LoadProducts)
			inv.PUT("/products/:product_id", inventoryH.UpdateProduct)
			inv.POST("/products/:product_id/decrease", inventoryH.DecreaseProductStock)
			inv.POST("/products/:product_id/increase", inventoryH.IncreaseProductStock)
			inv.DELETE("/products/:product_id", inventoryH.RemoveProduct)
			inv.POST("/supplies", inventoryH.LoadSupplies)
			inv.PUT("/supplies/:supply_id", inventoryH.UpdateSupply)
			inv.POST("/supplies/:supply_id/decrease", inventoryH.DecreaseSupplyStock)
			inv.POST("/supplies/:supply_id/increase", inventoryH.IncreaseSupplyStock)
			inv.DELETE("/supplies/:supply_id", inventoryH.RemoveSupply)
		}
		v1.GET("/events/:id/alerts", adminOnly, inventoryH.ListAlerts)

		// Orders — cajeros create and see their own; admins see everything
		cashier := middleware.RequireRole(model.RoleAdmin, model.RoleCajero)
		v1.POST("/events/:id/orders", cashier, ordersH.Create)
		v1.GET("/events/:id/orders", cashier, ordersH.ListByEvent)
		v1.GET("/orders/:order_id", cashier, ordersH.Get)
		v1.DELETE("/orders/:order_id", adminOnly, ordersH.Cancel)

		// Kitchen board
		kitchen := middleware.RequireRole(model.RoleAdmin, model.RoleCocina)
		v1.GET("/events/:id/kitchen/orders", kitchen, kitchenH.ListOrders)
		v1.GET("/kitchen/orders/:order_id", kitchen, kitchenH.GetOrder)
		v1.POST("/kitchen/orders/:order_id/start", kitchen, kitchenH.StartPreparation)
		v1.POST("/kitchen/orders/:order_id/complete", kitchen, kitchenH.CompletePreparation)

		// Sales and statistics — back office only
		v1.GET("/events/:id/sales", adminOnly, salesH.ListByEvent)
		v1.GET("/events/:id/sales/totals", adminOnly, salesH.GetTotals)
		v1.GET("/events/:id/stats", adminOnly, salesH.GetStats)
		v1.GET("/orders/:order_id/sale", adminOnly, salesH.GetByOrder)
		v1.GET("/sales/:sale_id", adminOnly, salesH.Get)

		// User administration
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.PATCH("/:id/reactivate", authH.ReactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
