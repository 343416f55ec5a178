package storeControllers

import (
	"net/http"

	"github.com/ansh-devx/tim-hortons/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /user/stores
// Lists only the stores assigned to the current user; the ordering screens
// never offer anyone else's stores.
func GetUserStores(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var user models.User
		if err := db.Preload("Stores").First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, user.Stores)
	}
}
