package cartControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ansh-devx/tim-hortons/cart"
	"github.com/ansh-devx/tim-hortons/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testUserID = "owner-1"

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *cart.MemoryStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Kit{}, &models.KitProduct{}))

	carts := cart.NewMemoryStorage()

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", testUserID) })
	r.GET("/user/cart", GetCart(carts))
	r.POST("/user/cart", AddCartLine(db, carts))
	r.PATCH("/user/cart", UpdateCartLine(carts))
	r.DELETE("/user/cart/:item_id", DeleteCartLine(carts))
	r.DELETE("/user/cart", ClearCart(carts))
	return r, db, carts
}

func seedCatalog(t *testing.T, db *gorm.DB) (productID, sizedProductID, kitID string) {
	t.Helper()
	mug := models.Product{
		NameEN:   "Coffee Mug",
		Price:    decimal.RequireFromString("5.00"),
		IsActive: true,
	}
	require.NoError(t, db.Create(&mug).Error)

	shirt := models.Product{
		NameEN:   "Crew Shirt",
		Price:    decimal.RequireFromString("15.00"),
		Sizes:    []string{"S", "M", "L"},
		IsActive: true,
	}
	require.NoError(t, db.Create(&shirt).Error)

	kit := models.Kit{NameEN: "Opening Kit", IsActive: true}
	require.NoError(t, db.Create(&kit).Error)

	return mug.ID, shirt.ID, kit.ID
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddCartLineAccumulatesQuantity(t *testing.T) {
	r, db, carts := newTestRouter(t)
	productID, _, _ := seedCatalog(t, db)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": productID, "quantity": 2})
		require.Equal(t, http.StatusOK, w.Code)
	}

	stored, err := carts.Load(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	require.Equal(t, 6, stored.Items[0].Quantity)
	require.Equal(t, "5", stored.Items[0].UnitPrice.String())
}

func TestAddCartLineSnapshotsServerPrice(t *testing.T) {
	r, db, carts := newTestRouter(t)
	productID, _, _ := seedCatalog(t, db)

	// A client-supplied price field is simply ignored.
	w := doJSON(t, r, http.MethodPost, "/user/cart", gin.H{
		"item_id": productID, "quantity": 1, "unit_price": "0.01",
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := carts.Load(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, "5.00", stored.Items[0].UnitPrice.StringFixed(2))
}

func TestAddCartLineRequiresSizeWhenItemHasSizes(t *testing.T) {
	r, db, _ := newTestRouter(t)
	_, sizedID, _ := seedCatalog(t, db)

	w := doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": sizedID, "quantity": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": sizedID, "quantity": 1, "size": "XXL"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": sizedID, "quantity": 1, "size": "M"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAddCartLineSecondKitConflicts(t *testing.T) {
	r, db, carts := newTestRouter(t)
	_, _, kitID := seedCatalog(t, db)

	w := doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": kitID, "quantity": 1, "store_id": "s1"})
	require.Equal(t, http.StatusOK, w.Code)

	before, err := carts.Load(context.Background(), testUserID)
	require.NoError(t, err)

	// Same kit, different store: still a conflict, cart untouched.
	w = doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": kitID, "quantity": 1, "store_id": "s2"})
	require.Equal(t, http.StatusConflict, w.Code)

	after, err := carts.Load(context.Background(), testUserID)
	require.NoError(t, err)
	require.Equal(t, before.Items, after.Items)
}

func TestUpdateCartLineZeroRemoves(t *testing.T) {
	r, db, carts := newTestRouter(t)
	productID, _, _ := seedCatalog(t, db)

	doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": productID, "quantity": 2})

	w := doJSON(t, r, http.MethodPatch, "/user/cart", gin.H{"item_id": productID, "quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := carts.Load(context.Background(), testUserID)
	require.NoError(t, err)
	require.True(t, stored.IsEmpty())
}

func TestDeleteCartLineWildcardRemovesAllStores(t *testing.T) {
	r, db, carts := newTestRouter(t)
	productID, _, _ := seedCatalog(t, db)

	doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": productID, "quantity": 1, "store_id": "s1"})
	doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": productID, "quantity": 1, "store_id": "s2"})

	w := doJSON(t, r, http.MethodDelete, "/user/cart/"+productID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := carts.Load(context.Background(), testUserID)
	require.NoError(t, err)
	require.True(t, stored.IsEmpty())
}

func TestDeleteCartLineWithStoreFilter(t *testing.T) {
	r, db, carts := newTestRouter(t)
	productID, _, _ := seedCatalog(t, db)

	doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": productID, "quantity": 1, "store_id": "s1"})
	doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": productID, "quantity": 1, "store_id": "s2"})

	w := doJSON(t, r, http.MethodDelete, "/user/cart/"+productID+"?store_id=s1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := carts.Load(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	require.Equal(t, "s2", stored.Items[0].StoreID)
}

func TestClearCartPurgesStorage(t *testing.T) {
	r, db, carts := newTestRouter(t)
	productID, _, _ := seedCatalog(t, db)

	doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": productID, "quantity": 1})

	w := doJSON(t, r, http.MethodDelete, "/user/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := carts.Load(context.Background(), testUserID)
	require.NoError(t, err)
	require.True(t, stored.IsEmpty())
}

func TestGetCartReportsTotals(t *testing.T) {
	r, db, _ := newTestRouter(t)
	productID, _, _ := seedCatalog(t, db)

	doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": productID, "quantity": 2})

	w := doJSON(t, r, http.MethodGet, "/user/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Totals struct {
			IndividualSubtotal string `json:"individual_subtotal"`
			ShippingAmount     string `json:"shipping_amount"`
			TaxAmount          string `json:"tax_amount"`
			ChargeTotal        string `json:"charge_total"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "10.00", body.Totals.IndividualSubtotal)
	require.Equal(t, "9.99", body.Totals.ShippingAmount)
	require.Equal(t, "2.60", body.Totals.TaxAmount)
	require.Equal(t, "22.59", body.Totals.ChargeTotal)
}

func TestGetCartSurvivesCorruptSlot(t *testing.T) {
	r, _, carts := newTestRouter(t)
	carts.Seed(testUserID, []byte("\x00garbage"))

	w := doJSON(t, r, http.MethodGet, "/user/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []cart.Line `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Empty(t, body.Items)
}

func TestAddCartLineUnknownItem(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/user/cart", gin.H{"item_id": uuid.NewString(), "quantity": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
