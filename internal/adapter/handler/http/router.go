package http

import (
	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/config"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	logger *zap.Logger,
	userHandler *UserHandler,
	productHandler *ProductHandler,
	categoryHandler *CategoryHandler,
	cartHandler *CartHandler,
	orderHandler *OrderHandler,
	orderAdminHandler *OrderAdminHandler,
	paymentHandler *PaymentHandler) (*Router, error) {

	router := gin.New()

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := authCheck(tokenService, logger)

	api := router.Group("/api")
	{
		user := api.Group("/auth")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
			user.GET("/profile", auth, userHandler.Profile)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/filter", productHandler.FilterProducts)
			products.GET("/:id", productHandler.GetProduct)

			writers := products.Group("")
			{
				writers.Use(auth, permissionCheck(domain.PermissionProductsWrite, logger))
				writers.POST("", productHandler.CreateProduct)
				writers.PATCH("/:id", productHandler.UpdateProduct)
				writers.DELETE("/:id", productHandler.DeleteProduct)
			}
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.GET("/:id/products", categoryHandler.CategoryProducts)

			writers := categories.Group("")
			{
				writers.Use(auth, permissionCheck(domain.PermissionCategoriesWrite, logger))
				writers.POST("", categoryHandler.CreateCategory)
				writers.PATCH("/:id", categoryHandler.UpdateCategory)
				writers.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		cart := api.Group("/cart")
		{
			cart.Use(auth)
			cart.GET("", cartHandler.GetCart)
			cart.POST("/items", cartHandler.AddToCart)
			cart.PATCH("/items/:id", cartHandler.UpdateCartItem)
			cart.DELETE("/items/:id", cartHandler.RemoveCartItem)
			cart.DELETE("", cartHandler.ClearCart)
		}

		orders := api.Group("/orders")
		{
			orders.Use(auth)
			orders.POST("/checkout", permissionCheck(domain.PermissionOrdersCreate, logger), orderHandler.Checkout)
			orders.GET("", orderHandler.ListMyOrders)
			orders.GET("/:id", orderHandler.GetMyOrder)
			orders.POST("/:id/cancel", orderHandler.CancelMyOrder)
			orders.POST("/:id/payments", paymentHandler.InitiatePayment)
		}

		admin := api.Group("/admin/orders")
		{
			admin.Use(auth, permissionCheck(domain.PermissionOrdersManage, logger))
			admin.GET("", orderAdminHandler.ListOrders)
			admin.GET("/:id", orderAdminHandler.GetOrder)
			admin.PATCH("/:id/status", orderAdminHandler.UpdateOrderStatus)
			admin.POST("/:id/cancel", orderAdminHandler.CancelOrder)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/webhook", paymentHandler.Webhook)
			payments.GET("/:id", auth, paymentHandler.GetPayment)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
