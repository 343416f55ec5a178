package catalogControllers

import (
	"net/http"

	"github.com/ansh-devx/tim-hortons/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is the unified storefront view of a product or kit. Kits always come
// out with a zero price and IsKit set, whatever the source rows say; their
// cost is billed to head office.
type Item struct {
	ID            string          `json:"id"`
	NameEN        string          `json:"name_en"`
	NameFR        string          `json:"name_fr"`
	DescriptionEN string          `json:"description_en"`
	DescriptionFR string          `json:"description_fr"`
	Category      string          `json:"category"`
	Images        []string        `json:"images"`
	Price         decimal.Decimal `json:"price"`
	Sizes         []string        `json:"sizes,omitempty"`
	IsKit         bool            `json:"is_kit"`
	Products      []string        `json:"products,omitempty"` // kit constituents, display only
}

type Catalog struct {
	Products []Item `json:"products"`
	Kits     []Item `json:"kits"`
}

// HasSize reports whether size is one of the item's offered sizes.
func (i Item) HasSize(size string) bool {
	for _, s := range i.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// LoadCatalog reads all active products and kits. On failure it still returns
// an empty, usable catalog so the storefront degrades instead of crashing.
func LoadCatalog(db *gorm.DB) (Catalog, error) {
	empty := Catalog{Products: []Item{}, Kits: []Item{}}

	var products []models.Product
	if err := db.Where("is_active = ?", true).
		Order("category, name_en").
		Find(&products).Error; err != nil {
		return empty, err
	}

	var kits []models.Kit
	if err := db.Preload("Products").
		Where("is_active = ?", true).
		Order("category, name_en").
		Find(&kits).Error; err != nil {
		return empty, err
	}

	catalog := Catalog{Products: make([]Item, 0, len(products)), Kits: make([]Item, 0, len(kits))}
	for _, p := range products {
		catalog.Products = append(catalog.Products, normalizeProduct(p))
	}
	for _, k := range kits {
		catalog.Kits = append(catalog.Kits, normalizeKit(k))
	}
	return catalog, nil
}

func normalizeProduct(p models.Product) Item {
	return Item{
		ID:            p.ID,
		NameEN:        p.NameEN,
		NameFR:        p.NameFR,
		DescriptionEN: p.DescriptionEN,
		DescriptionFR: p.DescriptionFR,
		Category:      p.Category,
		Images:        p.Images,
		Price:         p.Price,
		Sizes:         p.Sizes,
		IsKit:         false,
	}
}

func normalizeKit(k models.Kit) Item {
	constituents := make([]string, 0, len(k.Products))
	for _, kp := range k.Products {
		constituents = append(constituents, kp.Name)
	}
	return Item{
		ID:            k.ID,
		NameEN:        k.NameEN,
		NameFR:        k.NameFR,
		DescriptionEN: k.DescriptionEN,
		DescriptionFR: k.DescriptionFR,
		Category:      k.Category,
		Images:        k.Images,
		Price:         decimal.Zero,
		Sizes:         k.Sizes,
		IsKit:         true,
		Products:      constituents,
	}
}

// FindItem resolves one active catalog item by id, checking products first.
func FindItem(db *gorm.DB, itemID string) (Item, error) {
	var product models.Product
	err := db.Where("id = ? AND is_active = ?", itemID, true).First(&product).Error
	if err == nil {
		return normalizeProduct(product), nil
	}
	if err != gorm.ErrRecordNotFound {
		return Item{}, err
	}

	var kit models.Kit
	if err := db.Preload("Products").
		Where("id = ? AND is_active = ?", itemID, true).
		First(&kit).Error; err != nil {
		return Item{}, err
	}
	return normalizeKit(kit), nil
}

// GET /catalog
func GetCatalog(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog, err := LoadCatalog(db)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load catalog, please retry"})
			return
		}
		c.JSON(http.StatusOK, catalog)
	}
}

// GET /catalog/items/:id
func GetCatalogItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := FindItem(db, c.Param("id"))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
				return
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load item, please retry"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}
