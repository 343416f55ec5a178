package routes

import (
	"github.com/ansh-devx/tim-hortons/cart"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry‐point that wires up the public catalog,
// the JWT-protected user surface, and the API-key-protected admin surface.
func SetupRoutes(r *gin.Engine, db *gorm.DB, carts cart.Storage) {
	// 1️⃣ Public catalog + order feed (no middleware)
	SetupCatalogRoutes(r, db)

	// 2️⃣ User routes (JWT‐protected)
	SetupUserRoutes(r, db, carts)

	// 3️⃣ Admin routes (API‐Key‐protected)
	SetupAdminRoutes(r, db)
}
