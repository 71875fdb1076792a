package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/delivery/http/handler"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/infrastructure/database/postgres"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/metrics"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/usecase/category"
	"marketplace-backend/internal/usecase/inventory"
	"marketplace-backend/internal/usecase/product"
	"marketplace-backend/internal/usecase/shop"
	"marketplace-backend/internal/usecase/subscription"
	"marketplace-backend/internal/usecase/user"
	"marketplace-backend/internal/usecase/verification"
)

func SetupRoutes(cfg *config.Config, db *postgres.DB, revoked domainUser.RevocationStore) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware order: recovery, request ID, logging, metrics, security
	// headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(10 << 20))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	router.GET("/metrics", metrics.Handler())

	userRepository := postgres.NewUserRepository(db)
	authTokenRepository := postgres.NewAuthTokenRepository(db)
	historyRepository := postgres.NewBrowsingHistoryRepository(db)
	shopRepository := postgres.NewShopRepository(db)
	otpRepository := postgres.NewOTPRepository(db)
	followRepository := postgres.NewFollowRepository(db)
	categoryRepository := postgres.NewCategoryRepository(db)
	productRepository := postgres.NewProductRepository(db)
	subscriptionRepository := postgres.NewSubscriptionRepository(db)

	userService := user.NewService(userRepository, authTokenRepository, revoked, cfg)
	userHandler := handler.NewUserHandler(userService)

	shopService := shop.NewService(shopRepository, followRepository, userRepository)
	shopHandler := handler.NewShopHandler(shopService)

	verificationService := verification.NewService(shopRepository, otpRepository, userRepository, cfg)
	verificationHandler := handler.NewVerificationHandler(verificationService)

	categoryService := category.NewService(categoryRepository, productRepository)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	productService := product.NewService(productRepository, categoryRepository, shopRepository, userRepository, historyRepository)
	productHandler := handler.NewProductHandler(productService)

	inventoryService := inventory.NewService(productRepository, shopRepository, userRepository)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)

	subscriptionService := subscription.NewService(subscriptionRepository, userRepository, productRepository, shopRepository)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterPublicRoutes(v1)
		categoryHandler.RegisterPublicRoutes(v1)
		shopHandler.RegisterPublicRoutes(v1)

		// Public browse, personalized when a valid token is present
		browse := v1.Group("")
		browse.Use(middleware.OptionalAuthMiddleware(cfg))
		{
			productHandler.RegisterPublicRoutes(browse)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg, revoked))
		{
			userHandler.RegisterRoutes(protected)

			buyer := protected.Group("")
			buyer.Use(middleware.RoleMiddleware("buyer", "seller", "admin"))
			{
				shopHandler.RegisterBuyerRoutes(buyer)
			}

			seller := protected.Group("")
			seller.Use(middleware.SellerOnly())
			{
				shopHandler.RegisterSellerRoutes(seller)
				verificationHandler.RegisterSellerRoutes(seller)
				productHandler.RegisterSellerRoutes(seller)
				inventoryHandler.RegisterSellerRoutes(seller)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
				verificationHandler.RegisterAdminRoutes(admin)
				categoryHandler.RegisterAdminRoutes(admin)
				subscriptionHandler.RegisterAdminRoutes(admin)
				shopHandler.RegisterAdminRoutes(admin)
				productHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
