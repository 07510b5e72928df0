package main

import (
	"os"
	"os/signal"
	"syscall"

	"faraalkhata/internal/config"
	"faraalkhata/internal/handler"
	"faraalkhata/internal/middleware"
	"faraalkhata/internal/model"
	"faraalkhata/internal/repository"
	"faraalkhata/internal/service"
	"faraalkhata/internal/ws"
	"faraalkhata/pkg/database"
	"faraalkhata/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Log.Level)

	db := database.ConnectDB(cfg.Database)
	// Auto migrate. Fine for a single-operator deployment; swap for a
	// migration tool if this ever grows a second instance.
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Customer{},
		&model.DeliveryAddress{},
		&model.Supplier{},
		&model.Product{},
		&model.PriceHistory{},
		&model.ReferralPartner{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderPayment{},
		&model.OrderCancellation{},
	); err != nil {
		logger.Log.Fatal().Err(err).Msg("auto migration failed")
	}

	seedDefaults(db)

	wsHub := ws.NewHub()
	go wsHub.Run()

	// Dependency injection
	productRepo := repository.NewProductRepo(db)
	historyRepo := repository.NewPriceHistoryRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	partnerRepo := repository.NewReferralPartnerRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	addressRepo := repository.NewDeliveryAddressRepo(db)
	userRepo := repository.NewUserRepo(db)

	orderService := service.NewOrderService(db, orderRepo, productRepo, historyRepo, wsHub)
	productService := service.NewProductService(db, productRepo, historyRepo, wsHub)
	customerService := service.NewCustomerService(customerRepo)
	dashService := service.NewDashboardService(orderRepo, productRepo)
	authService := service.NewAuthService(userRepo, wsHub)

	orderHandler := handler.NewOrderHandler(orderService)
	productHandler := handler.NewProductHandler(productService)
	customerHandler := handler.NewCustomerHandler(customerService)
	partnerHandler := handler.NewPartnerHandler(partnerRepo, supplierRepo, addressRepo)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// Protected routes
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/dashboard/stats", dashHandler.GetStats)

	protected.Get("/orders", orderHandler.GetOrders)
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Put("/orders/:id", orderHandler.UpdateOrder)
	protected.Post("/orders/:id/cancel", orderHandler.CancelOrder)
	protected.Post("/orders/:id/payments", orderHandler.LogPayment)
	protected.Post("/orders/:id/ready", orderHandler.MarkReadyForPickup)
	protected.Get("/orders/:id/financials", orderHandler.GetFinancials)

	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Post("/customers", customerHandler.CreateCustomer)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Put("/customers/:id", customerHandler.UpdateCustomer)
	protected.Post("/customers/:id/archive", customerHandler.ArchiveCustomer)
	protected.Post("/customers/:id/unarchive", customerHandler.UnarchiveCustomer)
	protected.Get("/customers/:id/addresses", partnerHandler.GetCustomerAddresses)

	protected.Get("/categories", customerHandler.GetCategories)
	protected.Post("/categories", customerHandler.CreateCategory)

	protected.Get("/referral-partners", partnerHandler.GetPartners)
	protected.Post("/referral-partners", partnerHandler.CreatePartner)
	protected.Put("/referral-partners/:id", partnerHandler.UpdatePartner)

	protected.Get("/suppliers", partnerHandler.GetSuppliers)
	protected.Post("/suppliers", partnerHandler.CreateSupplier)

	protected.Post("/delivery-addresses", partnerHandler.CreateAddress)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logger.Log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Log.Info().Msg("server exited")
}

// seedDefaults creates the predefined customer categories and the operator
// account on first boot.
func seedDefaults(db *gorm.DB) {
	customerRepo := repository.NewCustomerRepo(db)
	if err := customerRepo.SeedDefaultCategories(); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to seed default categories")
	}

	userRepo := repository.NewUserRepo(db)
	if _, err := userRepo.FindByEmail("owner@faraalkhata.app"); err == nil {
		return
	}

	owner := &model.User{
		Email:    "owner@faraalkhata.app",
		FullName: "Shop Owner",
		IsActive: true,
	}
	if err := owner.SetPassword("changeme123"); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to hash operator password")
		return
	}
	if err := userRepo.Create(owner); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to create operator account")
		return
	}
	logger.Log.Info().Str("email", owner.Email).Msg("operator account created, change the default password")
}
