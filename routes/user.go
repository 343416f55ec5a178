package routes

import (
	"github.com/ansh-devx/tim-hortons/cart"
	cartControllers "github.com/ansh-devx/tim-hortons/controllers/cart"
	orderControllers "github.com/ansh-devx/tim-hortons/controllers/order"
	storeControllers "github.com/ansh-devx/tim-hortons/controllers/store"
	userControllers "github.com/ansh-devx/tim-hortons/controllers/user"
	"github.com/ansh-devx/tim-hortons/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, carts cart.Storage) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile & Stores ────────────────
		userGroup.GET("/", userControllers.GetUser(db))             // GET /user/
		userGroup.GET("/stores", storeControllers.GetUserStores(db)) // GET /user/stores

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCart(carts))                 // GET /user/cart
			cartGroup.POST("/", cartControllers.AddCartLine(db, carts))        // POST /user/cart
			cartGroup.PATCH("/", cartControllers.UpdateCartLine(carts))        // PATCH /user/cart
			cartGroup.DELETE("/:item_id", cartControllers.DeleteCartLine(carts)) // DELETE /user/cart/:item_id
			cartGroup.DELETE("/", cartControllers.ClearCart(carts))            // DELETE /user/cart
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("/checkout", orderControllers.CheckoutHandler(db, carts)) // POST /user/orders/checkout
			orderGroup.POST("/bulk", orderControllers.BulkOrderHandler(db))           // POST /user/orders/bulk
			orderGroup.GET("", orderControllers.GetUserOrdersHandler(db))             // GET /user/orders
			orderGroup.GET("/:orderID", orderControllers.GetOrderHandler(db))         // GET /user/orders/:orderID
		}
	}
}
