package orderControllers

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ansh-devx/tim-hortons/cart"
	catalogControllers "github.com/ansh-devx/tim-hortons/controllers/catalog"
	"github.com/ansh-devx/tim-hortons/models"
	"github.com/ansh-devx/tim-hortons/pricing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// -------- Request / Result Structs --------

type CheckoutRequest struct {
	DefaultStoreID string `json:"default_store_id"` // destination for lines without a store
	Notes          string `json:"notes"`
}

type BulkItemInput struct {
	ItemID   string `json:"item_id" binding:"required"`
	StoreID  string `json:"store_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Size     string `json:"size"`
}

type BulkOrderRequest struct {
	Items []BulkItemInput `json:"items" binding:"required,min=1,dive"`
	Notes string          `json:"notes"`
}

type CreatedOrder struct {
	OrderID     string                  `json:"order_id"`
	OrderNumber string                  `json:"order_number"`
	StoreID     string                  `json:"store_id"`
	Totals      pricing.FormattedTotals `json:"totals"`
}

type FailedStore struct {
	StoreID string `json:"store_id"`
	Error   string `json:"error"`
}

// CheckoutResult reports the outcome per store group. Partial success is a
// first-class outcome, never collapsed into a single opaque failure.
type CheckoutResult struct {
	Created []CreatedOrder `json:"orders"`
	Failed  []FailedStore  `json:"failed_stores,omitempty"`
}

var (
	errEmptyCart            = errors.New("cart is empty")
	errDefaultStoreRequired = errors.New("a default store is required for items without one")
	errStoreNotAssigned     = errors.New("store is not assigned to this user")
)

// -------- Re-entrancy Guard --------

// One checkout per user at a time; a second attempt while one is in flight is
// rejected, never run concurrently against the same cart.
var (
	checkoutMu       sync.Mutex
	checkoutInFlight = make(map[string]bool)
)

func beginCheckout(userID string) bool {
	checkoutMu.Lock()
	defer checkoutMu.Unlock()
	if checkoutInFlight[userID] {
		return false
	}
	checkoutInFlight[userID] = true
	return true
}

func endCheckout(userID string) {
	checkoutMu.Lock()
	defer checkoutMu.Unlock()
	delete(checkoutInFlight, userID)
}

// -------- Helpers --------

// Generate unique human-readable order number
func generateOrderNumber() string {
	// Example: ORD-20250908130500-1a2b3c4d
	return "ORD-" + time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}

func listAssignedStoreIDs(db *gorm.DB, userID string) (map[string]bool, error) {
	var user models.User
	if err := db.Preload("Stores").First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	assigned := make(map[string]bool, len(user.Stores))
	for _, s := range user.Stores {
		assigned[s.ID] = true
	}
	return assigned, nil
}

// resolveDestinations fills in the store of every line. Lines already
// carrying a store keep it; the rest take the default. When no default was
// given and the user has exactly one assigned store, that store is assumed.
func resolveDestinations(db *gorm.DB, userID string, lines []cart.Line, defaultStoreID string) ([]cart.Line, error) {
	assigned, err := listAssignedStoreIDs(db, userID)
	if err != nil {
		return nil, err
	}

	needDefault := false
	for _, l := range lines {
		if l.StoreID == "" {
			needDefault = true
			break
		}
	}
	if needDefault && defaultStoreID == "" {
		if len(assigned) != 1 {
			return nil, errDefaultStoreRequired
		}
		for id := range assigned {
			defaultStoreID = id
		}
	}

	resolved := make([]cart.Line, len(lines))
	for i, l := range lines {
		if l.StoreID == "" {
			l.StoreID = defaultStoreID
		}
		if !assigned[l.StoreID] {
			return nil, errStoreNotAssigned
		}
		resolved[i] = l
	}
	return resolved, nil
}

// -------- Core Logic --------

// Checkout materializes cart lines into one pending order per destination
// store. Every store group is priced from its own lines only and written in
// its own transaction, so one store's failure never poisons another's order.
func Checkout(db *gorm.DB, userID string, lines []cart.Line, defaultStoreID, notes string) (CheckoutResult, error) {
	if len(lines) == 0 {
		return CheckoutResult{}, errEmptyCart
	}

	resolved, err := resolveDestinations(db, userID, lines, defaultStoreID)
	if err != nil {
		return CheckoutResult{}, err
	}

	groups := pricing.GroupByStore(resolved)
	result := CheckoutResult{Created: []CreatedOrder{}}

	for _, storeID := range pricing.StoreIDs(groups) {
		order, err := createStoreOrder(db, userID, storeID, groups[storeID], notes)
		if err != nil {
			result.Failed = append(result.Failed, FailedStore{StoreID: storeID, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, CreatedOrder{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			StoreID:     order.StoreID,
			Totals: pricing.Totals{
				KitSubtotal:        order.KitSubtotal,
				IndividualSubtotal: order.IndividualSubtotal,
				ShippingAmount:     order.ShippingAmount,
				TaxAmount:          order.TaxAmount,
				ChargeTotal:        order.Total,
			}.Format(),
		})
		broadcastNewOrder(*order)
	}
	return result, nil
}

// createStoreOrder writes the order row and its item snapshots as one
// transaction; a failed item insert rolls the order back rather than leaving
// a dangling order.
func createStoreOrder(db *gorm.DB, userID, storeID string, lines []cart.Line, notes string) (*models.Order, error) {
	totals := pricing.Compute(lines)

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := models.OrderItem{
			NameEN:        l.NameEN,
			NameFR:        l.NameFR,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			ExtendedPrice: l.ExtendedPrice(),
			Size:          l.Size,
			IsKit:         l.IsKit,
		}
		itemID := l.ItemID
		if l.IsKit {
			item.KitID = &itemID
		} else {
			item.ProductID = &itemID
		}
		items = append(items, item)
	}

	order := models.Order{
		OrderNumber:        generateOrderNumber(),
		UserID:             userID,
		StoreID:            storeID,
		Items:              items,
		KitSubtotal:        totals.KitSubtotal,
		IndividualSubtotal: totals.IndividualSubtotal,
		ShippingAmount:     totals.ShippingAmount,
		TaxAmount:          totals.TaxAmount,
		Total:              totals.ChargeTotal,
		OrderStatus:        models.OrderStatusPending,
		PaymentStatus:      models.PaymentStatusPending,
		Notes:              notes,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// retainFailedLines rebuilds the cart with only the lines whose store group
// failed, so the user can retry without re-entering the successful portion.
func retainFailedLines(lines []cart.Line, failed []FailedStore) *cart.Cart {
	failedStores := make(map[string]bool, len(failed))
	for _, f := range failed {
		failedStores[f.StoreID] = true
	}
	retained := &cart.Cart{}
	for _, l := range lines {
		if failedStores[l.StoreID] {
			retained.Items = append(retained.Items, l)
		}
	}
	return retained
}

// -------- Handlers --------

// POST /user/orders/checkout
func CheckoutHandler(db *gorm.DB, carts cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		if !beginCheckout(userID) {
			c.JSON(http.StatusConflict, gin.H{"error": "A checkout is already in progress"})
			return
		}
		defer endCheckout(userID)

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		userCart, err := carts.Load(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}

		// Destinations are re-resolved inside Checkout, so keep a resolved
		// copy here only for rebuilding the cart on partial failure.
		resolved, err := resolveDestinations(db, userID, userCart.Items, req.DefaultStoreID)
		if err != nil {
			respondCheckoutError(c, err)
			return
		}

		result, err := Checkout(db, userID, resolved, "", req.Notes)
		if err != nil {
			respondCheckoutError(c, err)
			return
		}

		switch {
		case len(result.Failed) == 0:
			if err := carts.Purge(c.Request.Context(), userID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Orders created but cart could not be cleared"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"orders": result.Created})
		case len(result.Created) == 0:
			c.JSON(http.StatusBadGateway, gin.H{
				"error":         "Failed to create orders",
				"failed_stores": result.Failed,
			})
		default:
			// Keep only the failed stores' lines for retry.
			if err := carts.Save(c.Request.Context(), userID, retainFailedLines(resolved, result.Failed)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Partial checkout; cart could not be updated"})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"partial":       true,
				"orders":        result.Created,
				"failed_stores": result.Failed,
			})
		}
	}
}

// POST /user/orders/bulk
// Direct multi-store submission from the bulk-order grid; the cart is not
// involved, but the same line rules (merge, single kit) and materializer
// apply.
func BulkOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		if !beginCheckout(userID) {
			c.JSON(http.StatusConflict, gin.H{"error": "A checkout is already in progress"})
			return
		}
		defer endCheckout(userID)

		var req BulkOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		staged := &cart.Cart{}
		for _, in := range req.Items {
			item, err := catalogControllers.FindItem(db, in.ItemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Item does not exist: " + in.ItemID})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate items"})
				return
			}
			if len(item.Sizes) > 0 && in.Size == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Size selection is required for item: " + in.ItemID})
				return
			}
			if in.Size != "" && !item.HasSize(in.Size) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size for item: " + in.ItemID})
				return
			}
			line := cart.Line{
				ItemID:    item.ID,
				NameEN:    item.NameEN,
				NameFR:    item.NameFR,
				UnitPrice: item.Price,
				IsKit:     item.IsKit,
				Quantity:  in.Quantity,
				Size:      in.Size,
				StoreID:   in.StoreID,
			}
			if err := staged.AddLine(line); err != nil {
				if errors.Is(err, cart.ErrKitConflict) {
					c.JSON(http.StatusConflict, gin.H{"error": "Only one kit may be ordered at a time"})
					return
				}
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		result, err := Checkout(db, userID, staged.Items, "", req.Notes)
		if err != nil {
			respondCheckoutError(c, err)
			return
		}
		if len(result.Failed) > 0 {
			status := http.StatusOK
			if len(result.Created) == 0 {
				status = http.StatusBadGateway
			}
			c.JSON(status, gin.H{
				"partial":       len(result.Created) > 0,
				"orders":        result.Created,
				"failed_stores": result.Failed,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": result.Created})
	}
}

func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errEmptyCart),
		errors.Is(err, errDefaultStoreRequired),
		errors.Is(err, errStoreNotAssigned):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
	}
}
