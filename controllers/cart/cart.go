package cartControllers

import (
	"errors"
	"net/http"

	"github.com/ansh-devx/tim-hortons/cart"
	catalogControllers "github.com/ansh-devx/tim-hortons/controllers/catalog"
	"github.com/ansh-devx/tim-hortons/pricing"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddLineInput struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Size     string `json:"size"`
	StoreID  string `json:"store_id"`
}

type UpdateLineInput struct {
	ItemID   string  `json:"item_id" binding:"required"`
	Quantity *int    `json:"quantity" binding:"required"` // pointer so zero means "remove", not "missing"
	Size     *string `json:"size"`
	StoreID  *string `json:"store_id"`
}

// cartResponse is the common shape for every cart read and mutation reply:
// the lines, the recomputed totals, and the per-store display subtotals.
func cartResponse(c *cart.Cart) gin.H {
	groups := pricing.GroupByStore(c.Items)
	storeSubtotals := make(map[string]string, len(groups))
	for _, storeID := range pricing.StoreIDs(groups) {
		storeSubtotals[storeID] = pricing.StoreSubtotal(groups[storeID]).StringFixed(2)
	}
	return gin.H{
		"items":           c.Items,
		"totals":          pricing.Compute(c.Items).Format(),
		"store_subtotals": storeSubtotals,
	}
}

// GET /user/cart
func GetCart(carts cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		userCart, err := carts.Load(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(userCart))
	}
}

// POST /user/cart
func AddCartLine(db *gorm.DB, carts cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Snapshot the catalog item; the cart never trusts client prices.
		item, err := catalogControllers.FindItem(db, input.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Item does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate item"})
			return
		}

		if len(item.Sizes) > 0 && input.Size == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Size selection is required for this item"})
			return
		}
		if input.Size != "" && !item.HasSize(input.Size) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size for this item"})
			return
		}

		userCart, err := carts.Load(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}

		line := cart.Line{
			ItemID:    item.ID,
			NameEN:    item.NameEN,
			NameFR:    item.NameFR,
			Image:     firstImage(item.Images),
			UnitPrice: item.Price,
			IsKit:     item.IsKit,
			Quantity:  input.Quantity,
			Size:      input.Size,
			StoreID:   input.StoreID,
		}
		if err := userCart.AddLine(line); err != nil {
			if errors.Is(err, cart.ErrKitConflict) {
				c.JSON(http.StatusConflict, gin.H{"error": "A kit is already in your cart; remove it before adding another"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := carts.Save(c.Request.Context(), userID, userCart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(userCart))
	}
}

// PATCH /user/cart
func UpdateCartLine(carts cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input UpdateLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		userCart, err := carts.Load(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}

		sel := cart.Selector{ItemID: input.ItemID, Size: input.Size, StoreID: input.StoreID}
		if userCart.SetQuantity(sel, *input.Quantity) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
			return
		}

		if err := carts.Save(c.Request.Context(), userID, userCart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(userCart))
	}
}

// DELETE /user/cart/:item_id?size=&store_id=
// Omitted query filters act as wildcards over that dimension.
func DeleteCartLine(carts cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		sel := cart.Selector{ItemID: c.Param("item_id")}
		if size, ok := c.GetQuery("size"); ok {
			sel.Size = &size
		}
		if storeID, ok := c.GetQuery("store_id"); ok {
			sel.StoreID = &storeID
		}

		userCart, err := carts.Load(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}

		if userCart.Remove(sel) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
			return
		}

		if err := carts.Save(c.Request.Context(), userID, userCart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(userCart))
	}
}

// DELETE /user/cart
func ClearCart(carts cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if err := carts.Purge(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}
