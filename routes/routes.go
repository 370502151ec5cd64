package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/designxpo/PoonamCosmetics-sub001/configs"
	"github.com/designxpo/PoonamCosmetics-sub001/controllers"
	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/middlewares"
	"github.com/designxpo/PoonamCosmetics-sub001/repository"
	"github.com/designxpo/PoonamCosmetics-sub001/services"
)

func RegisterRoutes(r *gin.Engine, db *mongo.Database, cfg *configs.Config, logger *logrus.Logger) {
	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, logger)
	orderSvc := services.NewOrderService(orderRepo, logger)
	reviewSvc := services.NewReviewService(reviewRepo, productRepo, orderRepo, logger)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	productCtrl := controllers.NewProductController(productRepo, catalogRepo)
	orderCtrl := controllers.NewOrderController(orderSvc, cfg.CronSecret)
	reviewCtrl := controllers.NewReviewController(reviewSvc)

	authRequired := middlewares.AuthMiddleware(cfg.JWTSecret)
	authOptional := middlewares.OptionalAuthMiddleware(cfg.JWTSecret)

	api := r.Group("/api")

	// Auth
	a := api.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
		a.GET("/me", authRequired, authCtrl.Me)
	}

	// Catalog (public)
	api.GET("/products", productCtrl.List)
	api.GET("/products/slug/:slug", productCtrl.GetBySlug)
	api.GET("/ratings/:productId", reviewCtrl.ProductStats)
	api.GET("/brands", productCtrl.ListBrands)
	api.GET("/categories", productCtrl.ListCategories)

	// Orders
	o := api.Group("/orders")
	{
		o.POST("", authOptional, orderCtrl.Create)
		o.GET("", authRequired, orderCtrl.ListForMe)
		o.GET("/number/:orderNumber", orderCtrl.GetByNumber)
		o.PUT("/:orderNumber/cancel", authRequired, orderCtrl.Cancel)
		o.POST("/auto-cancel", orderCtrl.AutoCancel)
	}
	// Guest cancellation lives outside the /orders subtree so the
	// static prefix cannot collide with the :orderNumber wildcard.
	api.PUT("/guest/orders/:orderNumber/cancel", orderCtrl.GuestCancel)

	// Reviews
	rv := api.Group("/reviews")
	{
		rv.GET("", authOptional, reviewCtrl.List)
		rv.GET("/:id", reviewCtrl.Get)
		rv.POST("", authRequired, reviewCtrl.Create)
		rv.PUT("/:id", authRequired, reviewCtrl.Update)
		rv.DELETE("/:id", authRequired, reviewCtrl.Delete)
		rv.POST("/:id/helpful", authRequired, reviewCtrl.ToggleHelpful)
	}

	// Admin
	admin := api.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleAdmin))
	{
		admin.GET("/orders", orderCtrl.AdminList)
		admin.PUT("/orders/:orderNumber/status", orderCtrl.AdminUpdateStatus)
		admin.POST("/products", productCtrl.Create)
		admin.PUT("/products/:id", productCtrl.Update)
		admin.POST("/brands", productCtrl.CreateBrand)
		admin.POST("/categories", productCtrl.CreateCategory)
	}
}
