package routes

import (
	catalogControllers "github.com/ansh-devx/tim-hortons/controllers/catalog"
	orderControllers "github.com/ansh-devx/tim-hortons/controllers/order"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupCatalogRoutes registers the public storefront reads.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	catalog := r.Group("/catalog")
	{
		catalog.GET("", catalogControllers.GetCatalog(db))               // GET /catalog
		catalog.GET("/items/:id", catalogControllers.GetCatalogItem(db)) // GET /catalog/items/:id
	}

	// websocket endpoint for real-time order updates
	r.GET("/orders/ws", orderControllers.OrderWebSocketHandler)
}
