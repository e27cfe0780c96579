package routes

import (
	"os"

	"boutique_back_end/internal/handlers/admin"
	"boutique_back_end/internal/handlers/product"
	"boutique_back_end/internal/handlers/user"
	"boutique_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontend},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")

	// Catalogue (public)
	products := api.Group("/products")
	{
		products.GET("", product.GetProducts)
		products.GET("/top", product.GetTopProducts)
		products.GET("/categories", product.GetProductCategories)
		products.GET("/related/:id", product.GetRelatedProducts)
		products.GET("/:id", product.GetProductByID)
		products.GET("/:id/reviews", product.GetProductReviews)
		products.POST("/:id/reviews", middleware.AuthRequired(), product.CreateReview)

		// Administration du catalogue
		products.POST("", middleware.AuthRequired(), middleware.RequireAdmin, product.CreateProduct)
		products.PUT("/:id", middleware.AuthRequired(), middleware.RequireAdmin, product.UpdateProduct)
		products.DELETE("/:id", middleware.AuthRequired(), middleware.RequireAdmin, product.DeleteProduct)
	}

	// Utilisateurs
	users := api.Group("/users")
	{
		users.POST("", user.Register)
		users.POST("/login", middleware.LoginRateLimit(), user.Login)
		users.GET("/profile", middleware.AuthRequired(), user.GetProfile)
		users.PUT("/profile", middleware.AuthRequired(), user.UpdateProfile)

		users.GET("/wishlist", middleware.AuthRequired(), user.GetWishlist)
		users.POST("/wishlist", middleware.AuthRequired(), user.AddToWishlist)
		users.DELETE("/wishlist/:id", middleware.AuthRequired(), user.RemoveFromWishlist)

		users.GET("/admin/stats", middleware.AuthRequired(), middleware.RequireAdmin, admin.GetStats)
		users.GET("", middleware.AuthRequired(), middleware.RequireAdmin, admin.GetUsers)
		users.GET("/:id", middleware.AuthRequired(), middleware.RequireAdmin, admin.GetUserByID)
		users.PUT("/:id", middleware.AuthRequired(), middleware.RequireAdmin, admin.UpdateUser)
		users.DELETE("/:id", middleware.AuthRequired(), middleware.RequireAdmin, admin.DeleteUser)
	}

	// Panier (serveur, Redis)
	cart := api.Group("/cart", middleware.AuthRequired())
	{
		cart.GET("", user.GetCart)
		cart.POST("/add", user.AddToCart)
		cart.PUT("/:productId", user.UpdateCartItem)
		cart.DELETE("/clear", user.ClearCart)
		cart.DELETE("/:productId", user.RemoveFromCart)
	}

	// Commandes
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.POST("", user.CreateOrder)
		orders.GET("/myorders", user.GetMyOrders)
		orders.GET("/:id", user.GetOrderByID)
		orders.PUT("/:id/cancel", user.CancelOrder)
		orders.PUT("/:id/pay", user.PayOrder)

		orders.GET("", middleware.RequireAdmin, admin.GetAllOrders)
		orders.PUT("/:id/status", middleware.RequireAdmin, admin.UpdateOrderStatus)
		orders.PUT("/:id/deliver", middleware.RequireAdmin, admin.DeliverOrder)
	}
}
