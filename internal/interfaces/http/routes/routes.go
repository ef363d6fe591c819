// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/wishlist"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/pkg/metrics"
)

// Dependencies are the storefront components the routes serve
type Dependencies struct {
	Catalog  *product.Catalog
	Cart     *cart.Engine
	Wishlist *wishlist.Engine
	Checkout *checkout.Service
	Metrics  *metrics.Metrics
	Logger   logrus.FieldLogger
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, deps Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Catalog)
	categoryHandler := handlers.NewCategoryHandler(deps.Catalog)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/categories", categoryHandler.GetCategories)
		products.GET("/categories/:name", categoryHandler.GetCategoryProducts)
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Cart, deps.Catalog, deps.Checkout)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout, deps.Metrics, deps.Logger)

	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.GET("/count", cartHandler.GetCartCount)
		cartGroup.GET("/quote", cartHandler.GetQuote)
		cartGroup.POST("/checkout", checkoutHandler.Checkout)

		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.PATCH("/items/:id/size", cartHandler.UpdateCartItemSize)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}

// SetupWishlistRoutes sets up wishlist related routes
func SetupWishlistRoutes(rg *gin.RouterGroup, deps Dependencies) {
	wishlistHandler := handlers.NewWishlistHandler(deps.Wishlist, deps.Catalog, deps.Cart)

	wishlistGroup := rg.Group("/wishlist")
	{
		wishlistGroup.GET("", wishlistHandler.GetWishlist)
		wishlistGroup.DELETE("", wishlistHandler.ClearWishlist)
		wishlistGroup.GET("/count", wishlistHandler.GetWishlistCount)
		wishlistGroup.GET("/summary", wishlistHandler.GetWishlistSummary)

		wishlistGroup.POST("/items", wishlistHandler.AddToWishlist)
		wishlistGroup.GET("/items/:id", wishlistHandler.CheckWishlistItem)
		wishlistGroup.DELETE("/items/:id", wishlistHandler.RemoveFromWishlist)
		wishlistGroup.POST("/items/:id/toggle", wishlistHandler.ToggleWishlistItem)
		wishlistGroup.POST("/items/:id/move-to-cart", wishlistHandler.MoveToCart)
	}
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupProductRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupWishlistRoutes(rg, deps)
}
